package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

// AggregateKind names a supported aggregate fold.
type AggregateKind int

const (
	AggCount AggregateKind = iota
	AggSum
	AggMin
	AggMax
)

// aggregateValue accumulates a single AggregateKind across a group; seen
// gates the very first combine so Min/Max/Sum can adopt the first value
// outright instead of folding against a synthetic identity.
type aggregateValue struct {
	kind  AggregateKind
	value common.Value
	seen  bool
}

func (a *aggregateValue) combine(v common.Value) {
	switch a.kind {
	case AggCount:
		if !a.seen {
			a.value = common.NewInt64(0)
		}
		if !v.IsNull() {
			a.value = common.NewInt64(a.value.AsInt64() + 1)
		}
	case AggSum:
		if !a.seen {
			a.value = v
		} else if !v.IsNull() {
			a.value = a.value.Add(v)
		}
	case AggMin:
		if !a.seen || (!v.IsNull() && v.Less(a.value)) {
			a.value = v
		}
	case AggMax:
		if !a.seen || (!v.IsNull() && a.value.Less(v)) {
			a.value = v
		}
	}
	a.seen = true
}

// aggregateGroup holds one group-by key's running aggregates, in the
// order the AggregationPlanNode's aggregate list names them.
type aggregateGroup struct {
	groupBys []common.Value
	values   []*aggregateValue
}

// valuesEqual is the exact-match check run against a hash bucket's
// candidates once common.HashValues has narrowed the search down to a
// handful of entries sharing a hash.
func valuesEqual(a, b []common.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		equal, known := a[i].CompareEquals(b[i])
		if !known || !equal {
			return false
		}
	}
	return true
}

// AggregationHashTable folds child tuples into one row per distinct
// group-by key. Groups are bucketed by common.HashValues of their
// group-by vector and confirmed by exact comparison, with iteration order
// following first-seen insertion so output is deterministic for a fixed
// input order.
type AggregationHashTable struct {
	kinds   []AggregateKind
	buckets map[uint64][]*aggregateGroup
	order   []*aggregateGroup
}

func newAggregationHashTable(kinds []AggregateKind) *AggregationHashTable {
	return &AggregationHashTable{
		kinds:   kinds,
		buckets: make(map[uint64][]*aggregateGroup),
	}
}

func (aht *AggregationHashTable) insertCombine(groupBys, aggInputs []common.Value) {
	h := common.HashValues(groupBys)
	for _, g := range aht.buckets[h] {
		if valuesEqual(g.groupBys, groupBys) {
			for i, v := range aggInputs {
				g.values[i].combine(v)
			}
			return
		}
	}

	values := make([]*aggregateValue, len(aht.kinds))
	for i, k := range aht.kinds {
		values[i] = &aggregateValue{kind: k}
	}
	g := &aggregateGroup{groupBys: groupBys, values: values}
	aht.buckets[h] = append(aht.buckets[h], g)
	aht.order = append(aht.order, g)

	for i, v := range aggInputs {
		g.values[i].combine(v)
	}
}

func (aht *AggregationHashTable) aggregateValues(g *aggregateGroup) []common.Value {
	out := make([]common.Value, len(g.values))
	for i, v := range g.values {
		out[i] = v.value
	}
	return out
}

// AggregationExecutor eagerly drains its child at construction, building
// the full hash table before Next is ever called, matching the teacher's
// own eager-build-then-iterate executor shape.
type AggregationExecutor struct {
	groupByExprs []Expression
	aggExprs     []Expression
	having       Expression
	outputExprs  []Expression

	aht    *AggregationHashTable
	cursor int
}

func NewAggregationExecutor(
	child Executor,
	childSchema catalog.Schema,
	groupByExprs []Expression,
	aggExprs []Expression,
	aggKinds []AggregateKind,
	having Expression,
	outputExprs []Expression,
) *AggregationExecutor {
	e := &AggregationExecutor{
		groupByExprs: groupByExprs,
		aggExprs:     aggExprs,
		having:       having,
		outputExprs:  outputExprs,
		aht:          newAggregationHashTable(aggKinds),
	}

	child.Init()
	for {
		tup, _, ok := child.Next()
		if !ok {
			break
		}
		e.aht.insertCombine(evalAll(groupByExprs, tup, childSchema), evalAll(aggExprs, tup, childSchema))
	}
	return e
}

func (e *AggregationExecutor) Init() { e.cursor = 0 }

func (e *AggregationExecutor) Next() (catalog.Tuple, common.RID, bool) {
	for e.cursor < len(e.aht.order) {
		g := e.aht.order[e.cursor]
		e.cursor++

		aggregates := e.aht.aggregateValues(g)
		if e.having != nil && !e.having.EvaluateAggregate(g.groupBys, aggregates).AsBool() {
			continue
		}

		values := make([]common.Value, len(e.outputExprs))
		for i, expr := range e.outputExprs {
			values[i] = expr.EvaluateAggregate(g.groupBys, aggregates)
		}
		return catalog.Tuple{Values: values}, common.RID{}, true
	}
	return catalog.Tuple{}, common.RID{}, false
}

var _ Executor = (*AggregationExecutor)(nil)
