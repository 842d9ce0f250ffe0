package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/txns"
)

func testTxn() *txns.Transaction {
	return txns.NewTransaction(1, txns.RepeatableRead)
}

func TestInMemoryTableHeapInsertGetUpdateDelete(t *testing.T) {
	heap := NewInMemoryTableHeap(nil, "")
	txn := testTxn()

	rid, ok := heap.InsertTuple(NewTuple(common.NewInt64(1), common.NewVarchar("a")), txn)
	assert.True(t, ok)

	got, ok := heap.GetTuple(rid)
	assert.True(t, ok)
	assert.Equal(t, int64(1), got.Value(0).AsInt64())

	assert.True(t, heap.UpdateTuple(NewTuple(common.NewInt64(2), common.NewVarchar("b")), rid, txn))
	got, _ = heap.GetTuple(rid)
	assert.Equal(t, int64(2), got.Value(0).AsInt64())

	assert.True(t, heap.MarkDelete(rid, txn))
	_, ok = heap.GetTuple(rid)
	assert.False(t, ok)

	assert.False(t, heap.MarkDelete(rid, txn))
}

func TestInMemoryTableHeapIteratorSkipsTombstones(t *testing.T) {
	heap := NewInMemoryTableHeap(nil, "")
	txn := testTxn()

	var rids []common.RID
	for i := int64(0); i < 5; i++ {
		rid, _ := heap.InsertTuple(NewTuple(common.NewInt64(i)), txn)
		rids = append(rids, rid)
	}
	assert.True(t, heap.MarkDelete(rids[1], txn))
	assert.True(t, heap.MarkDelete(rids[3], txn))

	it := heap.Begin(txn)
	var seen []int64
	for {
		tup, _, ok := it.Next()
		if !ok {
			break
		}
		seen = append(seen, tup.Value(0).AsInt64())
	}
	assert.Equal(t, []int64{0, 2, 4}, seen)
}

func TestCatalogCreateAndResolveTable(t *testing.T) {
	cat := NewCatalog(nil)
	schema := NewSchema(Column{Name: "id", Kind: common.ValueInt64}, Column{Name: "name", Kind: common.ValueVarchar})

	info := cat.CreateTable("widgets", schema)
	assert.Equal(t, "widgets", info.Name)

	got, ok := cat.GetTable("widgets")
	assert.True(t, ok)
	assert.Same(t, info, got)

	_, ok = cat.GetTable("missing")
	assert.False(t, ok)

	idx := cat.CreateIndex("widgets_id_idx", "widgets", NewSchema(Column{Name: "id", Kind: common.ValueInt64}), []int{0})
	indexes := cat.GetTableIndexes("widgets")
	assert.Len(t, indexes, 1)
	assert.Equal(t, idx, indexes[0])
}

func TestHashIndexInsertLookupDelete(t *testing.T) {
	idx := NewHashIndex([]int{0})
	txn := testTxn()

	row1 := NewTuple(common.NewInt64(7), common.NewVarchar("x"))
	row2 := NewTuple(common.NewInt64(7), common.NewVarchar("y"))
	rid1 := common.RID{PageID: 1, SlotNum: 0}
	rid2 := common.RID{PageID: 1, SlotNum: 1}

	idx.InsertEntry(row1, rid1, txn)
	idx.InsertEntry(row2, rid2, txn)

	probe := NewTuple(common.NewInt64(7))
	assert.ElementsMatch(t, []common.RID{rid1, rid2}, idx.GetValue(probe))

	idx.DeleteEntry(row1, rid1, txn)
	assert.Equal(t, []common.RID{rid2}, idx.GetValue(probe))

	assert.Equal(t, []int{0}, idx.GetKeyAttrs())
}
