package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

// InsertExecutor emits one tuple per successful insert. In raw mode it
// walks an embedded value list with no child; in select-driven mode it
// pulls from a child executor until exhaustion.
type InsertExecutor struct {
	ctx     *ExecutorContext
	table   *catalog.TableInfo
	indexes []*catalog.IndexInfo

	rawValues []catalog.Tuple
	child     Executor

	cursor int
}

func NewInsertExecutorRaw(ctx *ExecutorContext, table *catalog.TableInfo, values []catalog.Tuple) *InsertExecutor {
	return &InsertExecutor{
		ctx:       ctx,
		table:     table,
		indexes:   ctx.Catalog.GetTableIndexes(table.Name),
		rawValues: values,
	}
}

func NewInsertExecutorFromChild(ctx *ExecutorContext, table *catalog.TableInfo, child Executor) *InsertExecutor {
	return &InsertExecutor{
		ctx:     ctx,
		table:   table,
		indexes: ctx.Catalog.GetTableIndexes(table.Name),
		child:   child,
	}
}

func (e *InsertExecutor) Init() {
	e.cursor = 0
	if e.child != nil {
		e.child.Init()
	}
}

func (e *InsertExecutor) Next() (catalog.Tuple, common.RID, bool) {
	var tup catalog.Tuple

	if e.child != nil {
		var ok bool
		tup, _, ok = e.child.Next()
		if !ok {
			return catalog.Tuple{}, common.RID{}, false
		}
	} else {
		if e.cursor >= len(e.rawValues) {
			return catalog.Tuple{}, common.RID{}, false
		}
		tup = e.rawValues[e.cursor]
		e.cursor++
	}

	rid, ok := e.table.Heap.InsertTuple(tup, e.ctx.Txn)
	if !ok {
		return catalog.Tuple{}, common.RID{}, false
	}
	for _, idx := range e.indexes {
		idx.Index.InsertEntry(tup, rid, e.ctx.Txn)
	}
	return tup, rid, true
}

// DeleteExecutor pulls RIDs from its child, soft-deletes the base tuple,
// and removes the corresponding key from every index on the table.
type DeleteExecutor struct {
	ctx     *ExecutorContext
	table   *catalog.TableInfo
	indexes []*catalog.IndexInfo
	child   Executor
}

func NewDeleteExecutor(ctx *ExecutorContext, table *catalog.TableInfo, child Executor) *DeleteExecutor {
	return &DeleteExecutor{
		ctx:     ctx,
		table:   table,
		indexes: ctx.Catalog.GetTableIndexes(table.Name),
		child:   child,
	}
}

func (e *DeleteExecutor) Init() { e.child.Init() }

func (e *DeleteExecutor) Next() (catalog.Tuple, common.RID, bool) {
	tup, rid, ok := e.child.Next()
	if !ok {
		return catalog.Tuple{}, common.RID{}, false
	}

	e.table.Heap.MarkDelete(rid, e.ctx.Txn)
	for _, idx := range e.indexes {
		idx.Index.DeleteEntry(tup, rid, e.ctx.Txn)
	}
	return tup, rid, true
}

// UpdateKind names whether an UpdateInfo adds to or replaces a column.
type UpdateKind int

const (
	UpdateAdd UpdateKind = iota
	UpdateSet
)

// UpdateInfo describes one column's mutation: Add folds Value into the
// existing column value, Set replaces it outright.
type UpdateInfo struct {
	ColumnIndex int
	Kind        UpdateKind
	Value       common.Value
}

// UpdateExecutor pulls a tuple from its child, rewrites it per the
// configured UpdateInfo list, writes it back in place, and refreshes
// every index — deleting the old key and inserting the new one even when
// the key columns are unaffected, which keeps the index maintenance path
// uniform regardless of which columns actually changed.
type UpdateExecutor struct {
	ctx     *ExecutorContext
	table   *catalog.TableInfo
	indexes []*catalog.IndexInfo
	child   Executor
	updates map[int]UpdateInfo
}

func NewUpdateExecutor(ctx *ExecutorContext, table *catalog.TableInfo, child Executor, updates []UpdateInfo) *UpdateExecutor {
	byCol := make(map[int]UpdateInfo, len(updates))
	for _, u := range updates {
		byCol[u.ColumnIndex] = u
	}
	return &UpdateExecutor{
		ctx:     ctx,
		table:   table,
		indexes: ctx.Catalog.GetTableIndexes(table.Name),
		child:   child,
		updates: byCol,
	}
}

func (e *UpdateExecutor) Init() { e.child.Init() }

func (e *UpdateExecutor) Next() (catalog.Tuple, common.RID, bool) {
	tup, rid, ok := e.child.Next()
	if !ok {
		return catalog.Tuple{}, common.RID{}, false
	}

	updated := e.generateUpdatedTuple(tup)
	e.table.Heap.UpdateTuple(updated, rid, e.ctx.Txn)

	for _, idx := range e.indexes {
		idx.Index.DeleteEntry(tup, rid, e.ctx.Txn)
		idx.Index.InsertEntry(updated, rid, e.ctx.Txn)
	}
	return updated, rid, true
}

func (e *UpdateExecutor) generateUpdatedTuple(src catalog.Tuple) catalog.Tuple {
	values := make([]common.Value, len(src.Values))
	for i, v := range src.Values {
		info, has := e.updates[i]
		if !has {
			values[i] = v
			continue
		}
		switch info.Kind {
		case UpdateAdd:
			values[i] = v.Add(info.Value)
		case UpdateSet:
			values[i] = info.Value
		}
	}
	return catalog.Tuple{Values: values}
}

var (
	_ Executor = (*InsertExecutor)(nil)
	_ Executor = (*DeleteExecutor)(nil)
	_ Executor = (*UpdateExecutor)(nil)
)
