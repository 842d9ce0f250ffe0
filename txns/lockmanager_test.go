package txns

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/relixdb/txcore/pkg/common"
)

func abortReason(t *testing.T, err error) AbortReason {
	t.Helper()
	aborted, ok := err.(*TransactionAbortedError)
	if !ok {
		t.Fatalf("expected *TransactionAbortedError, got %T (%v)", err, err)
	}
	return aborted.Reason
}

// TestLockManagerWoundScenario is scenario S2: T2 holds EXCLUSIVE on R; T1
// (older) requests SHARED and wounds T2; T2's next lock attempt surfaces
// DEADLOCK.
func TestLockManagerWoundScenario(t *testing.T) {
	lm := NewLockManager(nil)
	rid := common.RID{PageID: 2, SlotNum: 0}

	t1 := NewTransaction(1, RepeatableRead)
	t2 := NewTransaction(2, RepeatableRead)

	assert.NoError(t, lm.LockExclusive(t2, rid))
	assert.NoError(t, lm.LockShared(t1, rid))

	assert.Equal(t, StateAborted, t2.State())

	err := lm.LockShared(t2, common.RID{PageID: 3, SlotNum: 0})
	assert.Equal(t, AbortDeadlock, abortReason(t, err))
}

// TestLockManagerUpgradeConflictScenario is scenario S3: T1 and T2 both
// hold SHARED on R and both call LockUpgrade. T2 (younger) upgrades first
// and must wait, since it cannot wound the older T1; T1's upgrade then
// surfaces UPGRADE_CONFLICT, and T2 gets EXCLUSIVE once T1 releases.
func TestLockManagerUpgradeConflictScenario(t *testing.T) {
	lm := NewLockManager(nil)
	rid := common.RID{PageID: 4, SlotNum: 0}

	t1 := NewTransaction(1, RepeatableRead)
	t2 := NewTransaction(2, RepeatableRead)

	assert.NoError(t, lm.LockShared(t1, rid))
	assert.NoError(t, lm.LockShared(t2, rid))

	var wg sync.WaitGroup
	wg.Add(1)
	var upgradeErr error
	go func() {
		defer wg.Done()
		upgradeErr = lm.LockUpgrade(t2, rid)
	}()

	time.Sleep(20 * time.Millisecond)

	err1 := lm.LockUpgrade(t1, rid)
	assert.Equal(t, AbortUpgradeConflict, abortReason(t, err1))
	assert.Equal(t, StateAborted, t1.State())

	assert.NoError(t, lm.Unlock(t1, rid))

	wg.Wait()
	assert.NoError(t, upgradeErr)
}

// TestLockManagerShrinkingOnReacquire is testable property 9: releasing a
// lock under REPEATABLE_READ enters SHRINKING, and a second acquire then
// fails with LOCK_ON_SHRINKING.
func TestLockManagerShrinkingOnReacquire(t *testing.T) {
	lm := NewLockManager(nil)
	rid1 := common.RID{PageID: 5, SlotNum: 0}
	rid2 := common.RID{PageID: 5, SlotNum: 1}

	txn := NewTransaction(1, RepeatableRead)

	assert.NoError(t, lm.LockShared(txn, rid1))
	assert.NoError(t, lm.Unlock(txn, rid1))
	assert.Equal(t, StateShrinking, txn.State())

	err := lm.LockShared(txn, rid2)
	assert.Equal(t, AbortLockOnShrinking, abortReason(t, err))
	assert.Equal(t, StateAborted, txn.State())
}

// TestLockManagerReadCommittedNoShrinkOnSharedRelease is testable property
// 10: under READ_COMMITTED, releasing a SHARED lock does not transition
// GROWING -> SHRINKING.
func TestLockManagerReadCommittedNoShrinkOnSharedRelease(t *testing.T) {
	lm := NewLockManager(nil)
	rid1 := common.RID{PageID: 6, SlotNum: 0}
	rid2 := common.RID{PageID: 6, SlotNum: 1}

	txn := NewTransaction(1, ReadCommitted)

	assert.NoError(t, lm.LockShared(txn, rid1))
	assert.NoError(t, lm.Unlock(txn, rid1))
	assert.Equal(t, StateGrowing, txn.State())

	assert.NoError(t, lm.LockShared(txn, rid2))
	assert.Equal(t, StateGrowing, txn.State())
}

func TestLockManagerExclusiveReadCommittedStillShrinks(t *testing.T) {
	lm := NewLockManager(nil)
	rid := common.RID{PageID: 7, SlotNum: 0}

	txn := NewTransaction(1, ReadCommitted)

	assert.NoError(t, lm.LockExclusive(txn, rid))
	assert.NoError(t, lm.Unlock(txn, rid))
	assert.Equal(t, StateShrinking, txn.State())
}

func TestLockManagerConcurrentSharedLocksDoNotBlockEachOther(t *testing.T) {
	lm := NewLockManager(nil)
	rid := common.RID{PageID: 8, SlotNum: 0}

	const n = 10
	txns := make([]*Transaction, n)
	for i := 0; i < n; i++ {
		txns[i] = NewTransaction(common.TxnID(i+1), RepeatableRead)
	}

	var wg sync.WaitGroup
	wg.Add(n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			errs[i] = lm.LockShared(txns[i], rid)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
