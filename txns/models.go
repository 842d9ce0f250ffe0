// Package txns implements row-level two-phase locking with WOUND-WAIT
// deadlock prevention.
package txns

import (
	"sync"

	"github.com/relixdb/txcore/pkg/common"
)

// TaggedType wraps a raw value in a struct, so enums built on it (e.g.
// TransactionState and LockMode, both backed by uint8) accept no untyped
// integer constants and support no arithmetic. They share an underlying
// type, so an explicit conversion between them still compiles.
type TaggedType[T any] struct{ v T }

type transactionStateTag = TaggedType[uint8]

// TransactionState tracks 2PL phase per the state machine: GROWING ->
// SHRINKING on first unlock, GROWING/SHRINKING -> ABORTED on wound or
// self-abort, GROWING/SHRINKING -> COMMITTED on commit. ABORTED and
// COMMITTED are terminal.
type TransactionState transactionStateTag

var (
	StateGrowing   TransactionState = TransactionState{0}
	StateShrinking TransactionState = TransactionState{1}
	StateCommitted TransactionState = TransactionState{2}
	StateAborted   TransactionState = TransactionState{3}
)

func (s TransactionState) String() string {
	switch s {
	case StateGrowing:
		return "GROWING"
	case StateShrinking:
		return "SHRINKING"
	case StateCommitted:
		return "COMMITTED"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

type isolationLevelTag = TaggedType[uint8]

// IsolationLevel affects two things here: LockShared aborts under
// READ_UNCOMMITTED, and releasing a shared lock does not trip the
// GROWING->SHRINKING transition under READ_COMMITTED.
type IsolationLevel isolationLevelTag

var (
	ReadUncommitted IsolationLevel = IsolationLevel{0}
	ReadCommitted   IsolationLevel = IsolationLevel{1}
	RepeatableRead  IsolationLevel = IsolationLevel{2}
)

type lockModeTag = TaggedType[uint8]

// LockMode is either SHARED or EXCLUSIVE. There is no intention-lock
// hierarchy here — locking is row-level only.
type LockMode lockModeTag

var (
	LockShared    LockMode = LockMode{0}
	LockExclusive LockMode = LockMode{1}
)

// Transaction is the lock manager's view of a running transaction: its
// identity, isolation level, 2PL state, and the two lock sets it must
// release on commit/abort.
type Transaction struct {
	mu sync.Mutex

	id        common.TxnID
	isolation IsolationLevel
	state     TransactionState

	sharedLocks    map[common.RID]struct{}
	exclusiveLocks map[common.RID]struct{}
}

func NewTransaction(id common.TxnID, isolation IsolationLevel) *Transaction {
	return &Transaction{
		id:             id,
		isolation:      isolation,
		state:          StateGrowing,
		sharedLocks:    make(map[common.RID]struct{}),
		exclusiveLocks: make(map[common.RID]struct{}),
	}
}

func (t *Transaction) ID() common.TxnID { return t.id }

func (t *Transaction) IsolationLevel() IsolationLevel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isolation
}

func (t *Transaction) State() TransactionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transaction) setState(s TransactionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
}

func (t *Transaction) addShared(rid common.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sharedLocks[rid] = struct{}{}
}

func (t *Transaction) addExclusive(rid common.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exclusiveLocks[rid] = struct{}{}
}

func (t *Transaction) removeShared(rid common.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sharedLocks, rid)
}

func (t *Transaction) removeExclusive(rid common.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.exclusiveLocks, rid)
}

// LockRequest is one entry in a RID's request queue.
type LockRequest struct {
	TxnID   common.TxnID
	Mode    LockMode
	Granted bool
}

// LockRequestQueue is the per-RID bookkeeping the global latch protects:
// the ordered request list plus the counters that let a waiter's predicate
// be evaluated without walking the list.
type LockRequestQueue struct {
	cond *sync.Cond

	requests []LockRequest

	sharingCount int
	isWriting    bool
	upgrading    bool
}

func newLockRequestQueue(mu *sync.Mutex) *LockRequestQueue {
	return &LockRequestQueue{cond: sync.NewCond(mu)}
}

func (q *LockRequestQueue) indexOf(id common.TxnID) int {
	for i := range q.requests {
		if q.requests[i].TxnID == id {
			return i
		}
	}
	return -1
}
