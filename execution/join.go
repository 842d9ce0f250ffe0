package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

// NestedLoopJoinExecutor pairs every left tuple against a full pass of
// the right child, evaluating predicate in join mode for each pair. The
// right child is re-initialized once per left tuple, so its cost is
// proportional to left-cardinality times right-cardinality.
//
// The RID returned with each joined tuple is the left tuple's RID, not a
// synthesized one for the pair — the output has no single underlying
// slot, and this just carries over which base row drove the match.
type NestedLoopJoinExecutor struct {
	left, right           Executor
	leftSchema, rightSchema catalog.Schema
	predicate             Expression
	outputExprs           []Expression

	leftTuple    catalog.Tuple
	leftRID      common.RID
	leftSelected bool
}

func NewNestedLoopJoinExecutor(
	left, right Executor,
	leftSchema, rightSchema catalog.Schema,
	predicate Expression,
	outputExprs []Expression,
) *NestedLoopJoinExecutor {
	if predicate == nil {
		predicate = AlwaysTrue
	}
	return &NestedLoopJoinExecutor{
		left:        left,
		right:       right,
		leftSchema:  leftSchema,
		rightSchema: rightSchema,
		predicate:   predicate,
		outputExprs: outputExprs,
	}
}

func (e *NestedLoopJoinExecutor) Init() {
	e.left.Init()
	e.right.Init()
	e.leftTuple, e.leftRID, e.leftSelected = e.left.Next()
}

func (e *NestedLoopJoinExecutor) Next() (catalog.Tuple, common.RID, bool) {
	for e.leftSelected {
		for {
			rightTuple, _, ok := e.right.Next()
			if !ok {
				break
			}
			match := e.predicate.EvaluateJoin(e.leftTuple, e.leftSchema, rightTuple, e.rightSchema)
			if !match.AsBool() {
				continue
			}
			values := make([]common.Value, len(e.outputExprs))
			for i, expr := range e.outputExprs {
				values[i] = expr.EvaluateJoin(e.leftTuple, e.leftSchema, rightTuple, e.rightSchema)
			}
			return catalog.Tuple{Values: values}, e.leftRID, true
		}
		e.right.Init()
		e.leftTuple, e.leftRID, e.leftSelected = e.left.Next()
	}
	return catalog.Tuple{}, common.RID{}, false
}

var _ Executor = (*NestedLoopJoinExecutor)(nil)

// hashJoinEntry is one distinct left-side key's accumulated matches. The
// key is kept alongside the tuples so a hash collision can be told apart
// from a genuine match by exact comparison.
type hashJoinEntry struct {
	key    common.Value
	tuples []catalog.Tuple
}

// HashJoinExecutor equi-joins on a single key expression per side. The
// left child is drained eagerly at construction into a hash table bucketed
// by common.HashValue, with exact key comparison on each bucket's
// entries; probing happens lazily in Next as right
// tuples arrive, emitting one output tuple per (left, right) pair sharing
// a key.
type HashJoinExecutor struct {
	left, right               Executor
	leftSchema, rightSchema   catalog.Schema
	leftKeyExpr, rightKeyExpr Expression
	outputExprs               []Expression

	table map[uint64][]*hashJoinEntry

	bucketList      []catalog.Tuple
	bucketIndex     int
	currentRight    catalog.Tuple
	currentRightRID common.RID
}

func NewHashJoinExecutor(
	left, right Executor,
	leftSchema, rightSchema catalog.Schema,
	leftKeyExpr, rightKeyExpr Expression,
	outputExprs []Expression,
) *HashJoinExecutor {
	e := &HashJoinExecutor{
		left:         left,
		right:        right,
		leftSchema:   leftSchema,
		rightSchema:  rightSchema,
		leftKeyExpr:  leftKeyExpr,
		rightKeyExpr: rightKeyExpr,
		outputExprs:  outputExprs,
		table:        make(map[uint64][]*hashJoinEntry),
	}

	left.Init()
	right.Init()
	for {
		tup, _, ok := left.Next()
		if !ok {
			break
		}
		key := leftKeyExpr.Evaluate(tup, leftSchema)
		h := common.HashValue(key)

		entry := findHashJoinEntry(e.table[h], key)
		if entry == nil {
			entry = &hashJoinEntry{key: key}
			e.table[h] = append(e.table[h], entry)
		}
		entry.tuples = append(entry.tuples, tup)
	}
	return e
}

func findHashJoinEntry(entries []*hashJoinEntry, key common.Value) *hashJoinEntry {
	for _, entry := range entries {
		if equal, known := entry.key.CompareEquals(key); known && equal {
			return entry
		}
	}
	return nil
}

func (e *HashJoinExecutor) Init() {
	e.right.Init()
	e.bucketIndex = 0
	e.bucketList = nil
}

func (e *HashJoinExecutor) Next() (catalog.Tuple, common.RID, bool) {
	for {
		if e.bucketIndex == len(e.bucketList) {
			tup, rid, ok := e.right.Next()
			if !ok {
				return catalog.Tuple{}, common.RID{}, false
			}
			key := e.rightKeyExpr.Evaluate(tup, e.rightSchema)
			entry := findHashJoinEntry(e.table[common.HashValue(key)], key)
			if entry == nil {
				continue
			}
			e.bucketList = entry.tuples
			e.bucketIndex = 0
			e.currentRight = tup
			e.currentRightRID = rid
		}

		leftTuple := e.bucketList[e.bucketIndex]
		e.bucketIndex++

		values := make([]common.Value, len(e.outputExprs))
		for i, expr := range e.outputExprs {
			values[i] = expr.EvaluateJoin(leftTuple, e.leftSchema, e.currentRight, e.rightSchema)
		}
		return catalog.Tuple{Values: values}, e.currentRightRID, true
	}
}

var _ Executor = (*HashJoinExecutor)(nil)
