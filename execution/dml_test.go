package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
)

func TestInsertExecutorRawValuesMaintainsIndex(t *testing.T) {
	cat, table, txn := newTestCatalogWithTable(t)
	idx := cat.CreateIndex("widgets_id_idx", "widgets", catalog.NewSchema(catalog.Column{Name: "id", Kind: common.ValueInt64}), []int{0})
	ctx := NewExecutorContext(cat, txn)

	values := []catalog.Tuple{
		catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")),
		catalog.NewTuple(common.NewInt64(2), common.NewVarchar("b")),
	}
	exec := NewInsertExecutorRaw(ctx, table, values)
	exec.Init()

	var inserted int
	for {
		_, _, ok := exec.Next()
		if !ok {
			break
		}
		inserted++
	}
	assert.Equal(t, 2, inserted)

	probe := catalog.NewTuple(common.NewInt64(1))
	assert.Len(t, idx.Index.(*catalog.HashIndex).GetValue(probe), 1)
}

func TestDeleteExecutorRemovesFromHeapAndIndex(t *testing.T) {
	cat, table, txn := newTestCatalogWithTable(t)
	idx := cat.CreateIndex("widgets_id_idx", "widgets", catalog.NewSchema(catalog.Column{Name: "id", Kind: common.ValueInt64}), []int{0})

	rid, _ := table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")), txn)
	idx.Index.InsertEntry(catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")), rid, txn)

	ctx := NewExecutorContext(cat, txn)
	scan := NewSeqScanExecutor(ctx, table, table.Schema, nil)
	del := NewDeleteExecutor(ctx, table, scan)
	del.Init()

	_, _, ok := del.Next()
	assert.True(t, ok)

	_, ok = table.Heap.GetTuple(rid)
	assert.False(t, ok)

	probe := catalog.NewTuple(common.NewInt64(1))
	assert.Empty(t, idx.Index.(*catalog.HashIndex).GetValue(probe))
}

func TestUpdateExecutorRewritesTupleAndRefreshesIndex(t *testing.T) {
	cat, table, txn := newTestCatalogWithTable(t)
	idx := cat.CreateIndex("widgets_id_idx", "widgets", catalog.NewSchema(catalog.Column{Name: "id", Kind: common.ValueInt64}), []int{0})

	rid, _ := table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")), txn)
	idx.Index.InsertEntry(catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")), rid, txn)

	ctx := NewExecutorContext(cat, txn)
	scan := NewSeqScanExecutor(ctx, table, table.Schema, nil)
	upd := NewUpdateExecutor(ctx, table, scan, []UpdateInfo{
		{ColumnIndex: 0, Kind: UpdateSet, Value: common.NewInt64(5)},
	})
	upd.Init()

	tup, _, ok := upd.Next()
	assert.True(t, ok)
	assert.Equal(t, int64(5), tup.Value(0).AsInt64())

	got, _ := table.Heap.GetTuple(rid)
	assert.Equal(t, int64(5), got.Value(0).AsInt64())

	assert.Empty(t, idx.Index.(*catalog.HashIndex).GetValue(catalog.NewTuple(common.NewInt64(1))))
	assert.Len(t, idx.Index.(*catalog.HashIndex).GetValue(catalog.NewTuple(common.NewInt64(5))), 1)
}
