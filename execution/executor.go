// Package execution implements the Volcano-style iterator executors that
// drive queries over the catalog's tables and indexes.
package execution

import (
	"github.com/relixdb/txcore/catalog"
	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/txns"
)

// Executor is the uniform iterator contract every operator implements:
// Init resets the operator (and its children) to start a fresh pass,
// Next produces the next tuple or signals exhaustion.
type Executor interface {
	Init()
	Next() (catalog.Tuple, common.RID, bool)
}

// ExecutorContext threads the catalog and the running transaction through
// an executor tree, the same role SamehadaDB's ExecutorContext plays for
// its own catalog/buffer-pool/transaction triple.
type ExecutorContext struct {
	Catalog *catalog.Catalog
	Txn     *txns.Transaction
}

func NewExecutorContext(cat *catalog.Catalog, txn *txns.Transaction) *ExecutorContext {
	return &ExecutorContext{Catalog: cat, Txn: txn}
}

func evalAll(exprs []Expression, t catalog.Tuple, schema catalog.Schema) []common.Value {
	out := make([]common.Value, len(exprs))
	for i, e := range exprs {
		out[i] = e.Evaluate(t, schema)
	}
	return out
}
