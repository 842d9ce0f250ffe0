package txns

import (
	"fmt"

	"github.com/relixdb/txcore/pkg/common"
)

// AbortReason names why a LockManager call surfaced a
// TransactionAbortedError, mirroring bustub's AbortReason enum.
type AbortReason int

const (
	AbortLockOnShrinking AbortReason = iota
	AbortLockSharedOnReadUncommitted
	AbortUpgradeConflict
	AbortDeadlock
)

func (r AbortReason) String() string {
	switch r {
	case AbortLockOnShrinking:
		return "LOCK_ON_SHRINKING"
	case AbortLockSharedOnReadUncommitted:
		return "LOCKSHARED_ON_READ_UNCOMMITTED"
	case AbortUpgradeConflict:
		return "UPGRADE_CONFLICT"
	case AbortDeadlock:
		return "DEADLOCK"
	default:
		return "UNKNOWN"
	}
}

// TransactionAbortedError is returned instead of panicking or throwing —
// idiomatic Go surfaces this kind of expected failure as an error value,
// where bustub's reference implementation threw an exception.
type TransactionAbortedError struct {
	TxnID  common.TxnID
	Reason AbortReason
}

func (e *TransactionAbortedError) Error() string {
	return fmt.Sprintf("transaction %d aborted: %s", e.TxnID, e.Reason)
}

func newAbortedError(txnID common.TxnID, reason AbortReason) error {
	return &TransactionAbortedError{TxnID: txnID, Reason: reason}
}
