package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intEq(a, b int64) bool { return a == b }

// TestBucketEarlyExitScenario fills slots 0-2 and leaves every later slot
// never occupied, so each GetValue below ends its scan at slot 3; it checks
// that those lookups still return every live match, and nothing for an
// absent key.
func TestBucketEarlyExitScenario(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()

	assert.True(t, b.Insert(1, 100, intEq))
	assert.True(t, b.Insert(1, 200, intEq))
	assert.True(t, b.Insert(2, 300, intEq))

	assert.ElementsMatch(t, []int64{100, 200}, b.GetValue(1, intEq))
	assert.Equal(t, []int64{300}, b.GetValue(2, intEq))
	assert.Empty(t, b.GetValue(3, intEq))
}

func TestBucketInsertRejectsDuplicate(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()
	assert.True(t, b.Insert(1, 100, intEq))
	assert.False(t, b.Insert(1, 100, intEq))
	assert.Equal(t, uint32(1), b.NumReadable())
}

func TestBucketFull(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()
	size := b.ArraySize()

	for i := uint32(0); i < size; i++ {
		assert.True(t, b.Insert(int64(i), int64(i), intEq))
	}
	assert.True(t, b.IsFull())
	assert.False(t, b.Insert(int64(size), int64(size), intEq))
}

// TestBucketInvariantReadableImpliesOccupied checks that every readable
// slot is also occupied, across inserts and removes.
func TestBucketInvariantReadableImpliesOccupied(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()
	b.Insert(1, 10, intEq)
	b.Insert(2, 20, intEq)
	b.Remove(1, 10, intEq)

	for i := uint32(0); i < b.ArraySize(); i++ {
		if b.IsReadable(i) {
			assert.True(t, b.IsOccupied(i), "slot %d is readable but not occupied", i)
		}
	}
}

// TestBucketNumReadableMatchesGetValueSum checks NumReadable agrees with
// the total count recoverable via GetValue across every key inserted.
func TestBucketNumReadableMatchesGetValueSum(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()
	keys := []int64{1, 1, 2, 3, 3, 3}
	for i, k := range keys {
		assert.True(t, b.Insert(k, int64(i), intEq))
	}

	total := 0
	for _, k := range []int64{1, 2, 3} {
		total += len(b.GetValue(k, intEq))
	}
	assert.Equal(t, int(b.NumReadable()), total)
}

func TestBucketInsertRemoveRoundTrip(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()
	assert.True(t, b.Insert(5, 50, intEq))
	assert.True(t, b.Remove(5, 50, intEq))
	assert.Empty(t, b.GetValue(5, intEq))
	assert.False(t, b.Remove(5, 50, intEq))

	assert.True(t, b.Insert(6, 60, intEq))
	assert.Equal(t, uint32(1), b.NumReadable())
}

func TestBucketEmptyAndRemoveMissing(t *testing.T) {
	b := NewHashBucketPage[int64, int64]()
	assert.True(t, b.IsEmpty())
	assert.False(t, b.Remove(1, 1, intEq))
	assert.False(t, b.IsFull())
}
