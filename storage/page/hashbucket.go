// Package page implements the fixed-size on-page layouts shared by the
// storage engine: right now, the hash index's bucket page.
package page

import (
	"unsafe"

	"github.com/relixdb/txcore/pkg/assert"
)

// PageSize mirrors the teacher's slotted_page.go convention of a 4KiB page
// (1 << 12), even though this bucket page has no on-disk framing of its
// own yet — it exists purely as an in-memory array with occupied/readable
// bitmaps, matching upstream bustub's HashTableBucketPage.
const PageSize = 1 << 12

// Comparator is a caller-supplied key-equality test. K is constrained to
// comparable, but the bucket never compares keys with `==`: key equality
// always goes through the Comparator, since composite keys (e.g. ones
// built from common.Value) carry their own notion of equality.
type Comparator[K comparable] func(a, b K) bool

// MappingType is a single key/value slot.
type MappingType[K comparable, V comparable] struct {
	Key   K
	Value V
}

// computeArraySize solves for the number of (key,value) slots that fit in
// pageSize bytes once the two one-bit-per-slot occupied/readable bitmaps
// are accounted for: pageSize*8 bits total, each slot consuming
// 8*slotWidth data bits plus 2 bookkeeping bits.
func computeArraySize(keySize, valSize, pageSize uint32) uint32 {
	slotWidth := keySize + valSize
	assert.Assert(slotWidth > 0, "zero-width slot")
	return (pageSize * 8) / (8*slotWidth + 2)
}

// HashBucketPage is a fixed-capacity, open-addressed slot array with a
// tombstone-aware occupied/readable bitmap pair: readable means the slot
// holds a live entry, occupied means the slot has ever held one (so a
// linear scan can stop the moment it finds a slot that was never written,
// instead of walking the whole array on every miss).
type HashBucketPage[K comparable, V comparable] struct {
	arraySize uint32
	occupied  []byte
	readable  []byte
	array     []MappingType[K, V]
}

// NewHashBucketPage sizes the bucket from the concrete K/V types' in-memory
// footprint, the same way upstream bustub derives BUCKET_ARRAY_SIZE from
// sizeof(MappingType) at compile time.
func NewHashBucketPage[K comparable, V comparable]() *HashBucketPage[K, V] {
	var zk K
	var zv V
	keySize := uint32(unsafe.Sizeof(zk))
	valSize := uint32(unsafe.Sizeof(zv))
	arraySize := computeArraySize(keySize, valSize, PageSize)
	assert.Assert(arraySize > 0, "page too small for a single slot")

	numBytes := (arraySize + 7) / 8
	return &HashBucketPage[K, V]{
		arraySize: arraySize,
		occupied:  make([]byte, numBytes),
		readable:  make([]byte, numBytes),
		array:     make([]MappingType[K, V], arraySize),
	}
}

func bitLocation(idx uint32) (byteIdx uint32, bit uint32) {
	return idx / 8, idx % 8
}

func (p *HashBucketPage[K, V]) IsOccupied(idx uint32) bool {
	byteIdx, bit := bitLocation(idx)
	return p.occupied[byteIdx]&(1<<bit) != 0
}

func (p *HashBucketPage[K, V]) setOccupied(idx uint32, set bool) {
	byteIdx, bit := bitLocation(idx)
	if set {
		p.occupied[byteIdx] |= 1 << bit
	} else {
		p.occupied[byteIdx] &^= 1 << bit
	}
}

func (p *HashBucketPage[K, V]) IsReadable(idx uint32) bool {
	byteIdx, bit := bitLocation(idx)
	return p.readable[byteIdx]&(1<<bit) != 0
}

func (p *HashBucketPage[K, V]) setReadable(idx uint32, set bool) {
	byteIdx, bit := bitLocation(idx)
	if set {
		p.readable[byteIdx] |= 1 << bit
	} else {
		p.readable[byteIdx] &^= 1 << bit
	}
}

func (p *HashBucketPage[K, V]) ArraySize() uint32 { return p.arraySize }

func (p *HashBucketPage[K, V]) KeyAt(idx uint32) K   { return p.array[idx].Key }
func (p *HashBucketPage[K, V]) ValueAt(idx uint32) V { return p.array[idx].Value }

// GetValue returns every value stored under key. The scan stops the
// moment it reaches a slot that was never occupied, since every slot
// after an insert's probe sequence exhausted would also be unoccupied.
func (p *HashBucketPage[K, V]) GetValue(key K, cmp Comparator[K]) []V {
	var out []V
	for i := uint32(0); i < p.arraySize; i++ {
		if !p.IsOccupied(i) {
			break
		}
		if p.IsReadable(i) && cmp(p.array[i].Key, key) {
			out = append(out, p.array[i].Value)
		}
	}
	return out
}

// Insert rejects a full bucket and an exact (key,value) duplicate, then
// claims the first non-readable slot — recycling a tombstone left by
// Remove before extending past the occupied watermark.
func (p *HashBucketPage[K, V]) Insert(key K, value V, cmp Comparator[K]) bool {
	if p.IsFull() {
		return false
	}

	firstFree := int64(-1)
	for i := uint32(0); i < p.arraySize; i++ {
		if p.IsReadable(i) {
			if cmp(p.array[i].Key, key) && p.array[i].Value == value {
				return false
			}
			continue
		}
		if firstFree == -1 {
			firstFree = int64(i)
		}
	}

	assert.Assert(firstFree != -1, "bucket reports not full but has no free slot")
	idx := uint32(firstFree)
	p.array[idx] = MappingType[K, V]{Key: key, Value: value}
	p.setOccupied(idx, true)
	p.setReadable(idx, true)
	return true
}

// Remove clears the first readable slot matching (key,value).
func (p *HashBucketPage[K, V]) Remove(key K, value V, cmp Comparator[K]) bool {
	for i := uint32(0); i < p.arraySize; i++ {
		if !p.IsOccupied(i) {
			break
		}
		if p.IsReadable(i) && cmp(p.array[i].Key, key) && p.array[i].Value == value {
			p.RemoveAt(i)
			return true
		}
	}
	return false
}

// RemoveAt tombstones a slot: occupied stays true (so later scans don't
// stop early), readable goes false. Idempotent.
func (p *HashBucketPage[K, V]) RemoveAt(idx uint32) {
	p.setOccupied(idx, true)
	p.setReadable(idx, false)
}

func (p *HashBucketPage[K, V]) NumReadable() uint32 {
	var count uint32
	for i := uint32(0); i < p.arraySize; i++ {
		if p.IsReadable(i) {
			count++
		}
	}
	return count
}

func (p *HashBucketPage[K, V]) IsFull() bool  { return p.NumReadable() == p.arraySize }
func (p *HashBucketPage[K, V]) IsEmpty() bool { return p.NumReadable() == 0 }
