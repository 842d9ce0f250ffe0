package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/txns"
)

func newTestCatalogWithTable(t *testing.T) (*catalog.Catalog, *catalog.TableInfo, *txns.Transaction) {
	t.Helper()
	cat := catalog.NewCatalog(nil)
	schema := catalog.NewSchema(
		catalog.Column{Name: "id", Kind: common.ValueInt64},
		catalog.Column{Name: "name", Kind: common.ValueVarchar},
	)
	table := cat.CreateTable("widgets", schema)
	txn := txns.NewTransaction(1, txns.RepeatableRead)
	return cat, table, txn
}

func TestSeqScanFiltersByPredicate(t *testing.T) {
	cat, table, txn := newTestCatalogWithTable(t)

	table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")), txn)
	table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(2), common.NewVarchar("b")), txn)
	table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(3), common.NewVarchar("c")), txn)

	ctx := NewExecutorContext(cat, txn)
	predicate := NewComparisonExpression(
		NewColumnValueExpression(0),
		NewConstantExpression(common.NewInt64(2)),
		CompareGreaterEqual,
	)

	exec := NewSeqScanExecutor(ctx, table, table.Schema, predicate)
	exec.Init()

	var ids []int64
	for {
		tup, _, ok := exec.Next()
		if !ok {
			break
		}
		ids = append(ids, tup.Value(0).AsInt64())
	}
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestSeqScanProjectsSubsetOfColumns(t *testing.T) {
	cat, table, txn := newTestCatalogWithTable(t)
	table.Heap.InsertTuple(catalog.NewTuple(common.NewInt64(1), common.NewVarchar("a")), txn)

	ctx := NewExecutorContext(cat, txn)
	outSchema := catalog.NewSchema(catalog.Column{Name: "name", Kind: common.ValueVarchar})

	exec := NewSeqScanExecutor(ctx, table, outSchema, nil)
	exec.Init()

	tup, _, ok := exec.Next()
	assert.True(t, ok)
	assert.Len(t, tup.Values, 1)
	assert.Equal(t, "a", tup.Value(0).AsVarchar())
}
