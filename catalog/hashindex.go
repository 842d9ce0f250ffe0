package catalog

import (
	"sync"

	"github.com/relixdb/txcore/pkg/assert"
	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/storage/page"
	"github.com/relixdb/txcore/txns"
)

// MaxKeyParts bounds composite index keys; a fixed-size array is what lets
// CompositeKey satisfy the `comparable` constraint HashBucketPage needs.
const MaxKeyParts = 4

// CompositeKey is a fixed-width slot for up to MaxKeyParts key column
// values, only Len of which are meaningful.
type CompositeKey struct {
	Values [MaxKeyParts]common.Value
	Len    int
}

func NewCompositeKey(vals []common.Value) CompositeKey {
	assert.Assert(len(vals) <= MaxKeyParts, "index key has more than %d parts", MaxKeyParts)
	var k CompositeKey
	k.Len = len(vals)
	copy(k.Values[:], vals)
	return k
}

func compositeKeyEqual(a, b CompositeKey) bool {
	if a.Len != b.Len {
		return false
	}
	for i := 0; i < a.Len; i++ {
		equal, known := a.Values[i].CompareEquals(b.Values[i])
		if !known || !equal {
			return false
		}
	}
	return true
}

// HashIndex wraps a single HashBucketPage[CompositeKey,RID] — no
// extendible directory, since that structure is explicitly out of scope.
// The bucket page is not self-synchronized, so this type is the caller-
// side page latch the storage layer expects.
type HashIndex struct {
	mu       sync.Mutex
	bucket   *page.HashBucketPage[CompositeKey, common.RID]
	keyAttrs []int
}

func NewHashIndex(keyAttrs []int) *HashIndex {
	return &HashIndex{
		bucket:   page.NewHashBucketPage[CompositeKey, common.RID](),
		keyAttrs: keyAttrs,
	}
}

// KeyFromTuple projects the base tuple's key columns into a CompositeKey.
func (h *HashIndex) KeyFromTuple(t Tuple) CompositeKey {
	return NewCompositeKey(t.Project(h.keyAttrs).Values)
}

func (h *HashIndex) InsertEntry(key Tuple, rid common.RID, _ *txns.Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bucket.Insert(h.KeyFromTuple(key), rid, compositeKeyEqual)
}

func (h *HashIndex) DeleteEntry(key Tuple, rid common.RID, _ *txns.Transaction) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bucket.Remove(h.KeyFromTuple(key), rid, compositeKeyEqual)
}

// GetValue looks up every RID stored under the key columns of probe.
func (h *HashIndex) GetValue(probe Tuple) []common.RID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bucket.GetValue(h.KeyFromTuple(probe), compositeKeyEqual)
}

func (h *HashIndex) GetKeyAttrs() []int {
	return append([]int(nil), h.keyAttrs...)
}

var _ Index = (*HashIndex)(nil)
