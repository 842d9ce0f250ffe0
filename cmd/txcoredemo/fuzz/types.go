// Package fuzz generates randomized concurrent operation streams for
// driving the lock manager and catalog outside of a deterministic test.
package fuzz

import (
	"fmt"

	"github.com/relixdb/txcore/pkg/common"
)

type OpType int

const (
	OpInsert OpType = iota
	OpDelete
	OpUpdate
	OpScan
)

// Operation is one unit of work a bench worker executes against the
// shared table, tagged with the transaction that will own its locks.
type Operation struct {
	Type  OpType
	TxnID common.TxnID
}

func (op Operation) String() string {
	switch op.Type {
	case OpInsert:
		return fmt.Sprintf("Insert(txn=%d)", op.TxnID)
	case OpDelete:
		return fmt.Sprintf("Delete(txn=%d)", op.TxnID)
	case OpUpdate:
		return fmt.Sprintf("Update(txn=%d)", op.TxnID)
	case OpScan:
		return fmt.Sprintf("Scan(txn=%d)", op.TxnID)
	default:
		return "unknown-op"
	}
}

// OpResult reports how an Operation actually landed, including any abort
// surfaced by the lock manager.
type OpResult struct {
	Op      Operation
	Success bool
	ErrText string
}
