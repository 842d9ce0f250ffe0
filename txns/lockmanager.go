package txns

import (
	"sync"

	"go.uber.org/zap"

	"github.com/relixdb/txcore/pkg/assert"
	"github.com/relixdb/txcore/pkg/common"
)

// LockManager grants and releases row-level SHARED/EXCLUSIVE locks under
// WOUND-WAIT deadlock prevention: an older transaction that needs a lock
// held by a younger one aborts the younger holder outright rather than
// waiting for it, so no cycle of waiters can ever form.
//
// All queue-structure manipulation serializes under one global latch;
// waiting releases that latch and sleeps on the affected queue's
// condition variable. Grants are broadcast, never single-woken, so a wound
// against one waiter can never strand another whose predicate also now
// holds.
type LockManager struct {
	mu sync.Mutex

	queues  map[common.RID]*LockRequestQueue
	idToTxn map[common.TxnID]*Transaction

	log *zap.SugaredLogger
}

func NewLockManager(log *zap.SugaredLogger) *LockManager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LockManager{
		queues:  make(map[common.RID]*LockRequestQueue),
		idToTxn: make(map[common.TxnID]*Transaction),
		log:     log,
	}
}

func (lm *LockManager) queueFor(rid common.RID) *LockRequestQueue {
	q, ok := lm.queues[rid]
	if !ok {
		q = newLockRequestQueue(&lm.mu)
		lm.queues[rid] = q
	}
	return q
}

// checkShrinking aborts txn and returns the shrinking-phase error if a new
// lock is being requested after 2PL has entered its shrinking phase.
func (lm *LockManager) checkShrinking(txn *Transaction) error {
	if txn.State() == StateShrinking {
		txn.setState(StateAborted)
		return newAbortedError(txn.ID(), AbortLockOnShrinking)
	}
	return nil
}

// woundYoungerHolders implements WOUND-WAIT: every granted request younger
// than txn is aborted and its slice of the queue's counters released. The
// caller must hold lm.mu.
func (lm *LockManager) woundYoungerHolders(txn *Transaction, q *LockRequestQueue) {
	for i := range q.requests {
		r := &q.requests[i]
		if !r.Granted || r.TxnID <= txn.ID() {
			continue
		}
		assert.Assert(r.TxnID != txn.ID(), "equal transaction ids cannot occur")
		if victim, ok := lm.idToTxn[r.TxnID]; ok {
			victim.setState(StateAborted)
			lm.log.Debugw("wounded younger holder", "victim", r.TxnID, "wounder", txn.ID())
		}
		if r.Mode == LockShared {
			q.sharingCount--
		} else {
			q.isWriting = false
		}
	}
}

// LockShared acquires a shared lock on rid for txn, blocking as needed.
func (lm *LockManager) LockShared(txn *Transaction, rid common.RID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := lm.checkShrinking(txn); err != nil {
		return err
	}
	if txn.IsolationLevel() == ReadUncommitted {
		txn.setState(StateAborted)
		return newAbortedError(txn.ID(), AbortLockSharedOnReadUncommitted)
	}

	q := lm.queueFor(rid)
	q.requests = append(q.requests, LockRequest{TxnID: txn.ID(), Mode: LockShared})

	if q.isWriting {
		lm.woundYoungerHolders(txn, q)
		for txn.State() != StateAborted && q.isWriting {
			q.cond.Wait()
		}
	}

	if txn.State() == StateAborted {
		lm.eraseRequest(q, txn.ID())
		return newAbortedError(txn.ID(), AbortDeadlock)
	}

	txn.addShared(rid)
	idx := q.indexOf(txn.ID())
	assert.Assert(idx >= 0, "own request vanished from the queue")
	q.requests[idx].Granted = true
	lm.idToTxn[txn.ID()] = txn
	q.sharingCount++
	return nil
}

// LockExclusive acquires an exclusive lock on rid for txn, blocking as
// needed.
func (lm *LockManager) LockExclusive(txn *Transaction, rid common.RID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if err := lm.checkShrinking(txn); err != nil {
		return err
	}

	q := lm.queueFor(rid)
	q.requests = append(q.requests, LockRequest{TxnID: txn.ID(), Mode: LockExclusive})

	if q.isWriting || q.sharingCount > 0 {
		lm.woundYoungerHolders(txn, q)
		for txn.State() != StateAborted && (q.isWriting || q.sharingCount > 0) {
			q.cond.Wait()
		}
	}

	if txn.State() == StateAborted {
		lm.eraseRequest(q, txn.ID())
		return newAbortedError(txn.ID(), AbortDeadlock)
	}

	txn.addExclusive(rid)
	idx := q.indexOf(txn.ID())
	assert.Assert(idx >= 0, "own request vanished from the queue")
	q.requests[idx].Granted = true
	lm.idToTxn[txn.ID()] = txn
	q.isWriting = true
	return nil
}

// LockUpgrade upgrades txn's existing shared lock on rid to exclusive.
// Preconditions: txn currently holds a granted shared lock on rid.
func (lm *LockManager) LockUpgrade(txn *Transaction, rid common.RID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	if txn.State() == StateShrinking {
		txn.setState(StateAborted)
		return newAbortedError(txn.ID(), AbortLockOnShrinking)
	}

	q, ok := lm.queues[rid]
	assert.Assert(ok, "upgrade requested for a rid with no queue")

	if q.upgrading {
		txn.setState(StateAborted)
		return newAbortedError(txn.ID(), AbortUpgradeConflict)
	}

	txn.removeShared(rid)
	q.sharingCount--
	idx := q.indexOf(txn.ID())
	assert.Assert(idx >= 0, "upgrade requested without an existing request")
	q.requests[idx].Mode = LockExclusive
	q.requests[idx].Granted = false

	if q.isWriting || q.sharingCount > 0 {
		lm.woundYoungerHolders(txn, q)
		q.upgrading = true
		for txn.State() != StateAborted && (q.isWriting || q.sharingCount > 0) {
			q.cond.Wait()
		}
	}

	if txn.State() == StateAborted {
		lm.eraseRequest(q, txn.ID())
		return newAbortedError(txn.ID(), AbortDeadlock)
	}

	txn.addExclusive(rid)
	q.upgrading = false
	q.isWriting = true
	idx = q.indexOf(txn.ID())
	assert.Assert(idx >= 0, "own request vanished from the queue")
	q.requests[idx].Granted = true
	return nil
}

// Unlock releases whichever lock txn holds on rid, advancing the 2PL
// state machine and waking any waiters whose predicate may now hold.
func (lm *LockManager) Unlock(txn *Transaction, rid common.RID) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	q, ok := lm.queues[rid]
	assert.Assert(ok, "unlock requested for a rid with no queue")

	txn.removeShared(rid)
	txn.removeExclusive(rid)

	idx := q.indexOf(txn.ID())
	assert.Assert(idx >= 0, "unlock requested without an existing request")
	mode := q.requests[idx].Mode
	q.requests = append(q.requests[:idx], q.requests[idx+1:]...)

	readCommittedSharedRelease := mode == LockShared && txn.IsolationLevel() == ReadCommitted
	if txn.State() == StateGrowing && !readCommittedSharedRelease {
		txn.setState(StateShrinking)
	}

	if mode == LockShared {
		q.sharingCount--
		if q.sharingCount == 0 {
			q.cond.Broadcast()
		}
	} else {
		q.isWriting = false
		q.cond.Broadcast()
	}
	return nil
}

// ForgetTransaction drops txn from the id-to-transaction directory once it
// has committed or aborted and released every lock, so the directory does
// not grow without bound across a long-lived lock manager.
func (lm *LockManager) ForgetTransaction(txn *Transaction) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	delete(lm.idToTxn, txn.ID())
}

func (lm *LockManager) eraseRequest(q *LockRequestQueue, id common.TxnID) {
	idx := q.indexOf(id)
	if idx < 0 {
		return
	}
	q.requests = append(q.requests[:idx], q.requests[idx+1:]...)
}
