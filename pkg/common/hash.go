package common

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// DefaultHashSeed is used where a stable, process-independent seed is
// desired. Chosen as an arbitrary odd 64-bit constant (related to the
// golden ratio) — lifted from the teacher's storage/index/hash.go.
const DefaultHashSeed uint64 = 0x9e3779b97f4a7c15

// DeterministicHasher64 wraps stdlib FNV-1a (hash/fnv) with a deterministic
// seed. The seed is written into the hasher state on Reset to perturb the
// mapping.
type DeterministicHasher64 struct {
	seed uint64
	h    hash.Hash64
}

func NewDeterministicHasher64(seed uint64) DeterministicHasher64 {
	h := DeterministicHasher64{seed: seed}
	h.Reset()
	return h
}

func (h *DeterministicHasher64) Reset() {
	h.h = fnv.New64a()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], h.seed)
	_, _ = h.h.Write(b[:])
}

func (h *DeterministicHasher64) Write(p []byte) int {
	n, _ := h.h.Write(p)
	return n
}

func (h *DeterministicHasher64) Sum64() uint64 {
	return h.h.Sum64()
}

// HashValue produces a stable 64-bit hash for a Value, used by the hash
// join's build and probe phases.
func HashValue(v Value) uint64 {
	h := NewDeterministicHasher64(DefaultHashSeed)
	h.Write([]byte(v.HashKey()))
	return h.Sum64()
}

// HashValues folds a sequence of Values (e.g. an aggregation group-by key
// or a whole distinct row) into a single stable hash.
func HashValues(vs []Value) uint64 {
	h := NewDeterministicHasher64(DefaultHashSeed)
	for _, v := range vs {
		h.Write([]byte(v.HashKey()))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
