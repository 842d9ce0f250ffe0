package catalog

import (
	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/txns"
)

// TableHeap is the storage-layer contract executors drive: a forward
// iterator plus point insert/delete/update/get by RID.
type TableHeap interface {
	Begin(txn *txns.Transaction) TableIterator
	InsertTuple(t Tuple, txn *txns.Transaction) (common.RID, bool)
	MarkDelete(rid common.RID, txn *txns.Transaction) bool
	UpdateTuple(t Tuple, rid common.RID, txn *txns.Transaction) bool
	GetTuple(rid common.RID) (Tuple, bool)
}

// TableIterator walks a TableHeap once, front to back.
type TableIterator interface {
	Next() (Tuple, common.RID, bool)
}

// Index is the contract Insert/Delete/Update executors maintain
// alongside the base table on every mutation.
type Index interface {
	InsertEntry(key Tuple, rid common.RID, txn *txns.Transaction)
	DeleteEntry(key Tuple, rid common.RID, txn *txns.Transaction)
	GetKeyAttrs() []int
}
