package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/assert"
	"github.com/relixdb/txcore/pkg/common"
)

// SeqScanExecutor walks a table heap in insertion order, projecting each
// tuple that passes the predicate. Column resolution between the output
// schema and the base table schema is by name, precomputed once at
// construction rather than repeated per tuple.
type SeqScanExecutor struct {
	ctx       *ExecutorContext
	table     *catalog.TableInfo
	predicate Expression

	outIndices []int

	it catalog.TableIterator
}

func NewSeqScanExecutor(ctx *ExecutorContext, table *catalog.TableInfo, outSchema catalog.Schema, predicate Expression) *SeqScanExecutor {
	if predicate == nil {
		predicate = AlwaysTrue
	}

	outIndices := make([]int, len(outSchema.Columns))
	for i, col := range outSchema.Columns {
		idx, ok := table.Schema.IndexOf(col.Name)
		assert.Assert(ok, "seq scan output column %q not found in table %q", col.Name, table.Name)
		outIndices[i] = idx
	}

	return &SeqScanExecutor{
		ctx:        ctx,
		table:      table,
		predicate:  predicate,
		outIndices: outIndices,
	}
}

func (e *SeqScanExecutor) Init() {
	e.it = e.table.Heap.Begin(e.ctx.Txn)
}

func (e *SeqScanExecutor) Next() (catalog.Tuple, common.RID, bool) {
	for {
		tup, rid, ok := e.it.Next()
		if !ok {
			return catalog.Tuple{}, common.RID{}, false
		}
		if e.predicate.Evaluate(tup, e.table.Schema).AsBool() {
			return tup.Project(e.outIndices), rid, true
		}
	}
}

var _ Executor = (*SeqScanExecutor)(nil)
