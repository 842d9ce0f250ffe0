package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

// DistinctExecutor streams its child, suppressing every tuple whose full
// value vector has already been returned once. Seen tuples are bucketed
// by common.HashValues, with exact-match confirmed via valuesEqual on
// hash collision.
type DistinctExecutor struct {
	child Executor
	seen  map[uint64][][]common.Value
}

func NewDistinctExecutor(child Executor) *DistinctExecutor {
	return &DistinctExecutor{child: child}
}

func (e *DistinctExecutor) Init() {
	e.child.Init()
	e.seen = make(map[uint64][][]common.Value)
}

func (e *DistinctExecutor) Next() (catalog.Tuple, common.RID, bool) {
	for {
		tup, rid, ok := e.child.Next()
		if !ok {
			return catalog.Tuple{}, common.RID{}, false
		}

		h := common.HashValues(tup.Values)
		dup := false
		for _, seen := range e.seen[h] {
			if valuesEqual(seen, tup.Values) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		e.seen[h] = append(e.seen[h], tup.Values)
		return tup, rid, true
	}
}

var _ Executor = (*DistinctExecutor)(nil)
