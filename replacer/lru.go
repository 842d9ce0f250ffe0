// Package replacer implements the buffer pool's victim-selection policy.
// Only the replacer is in scope here; the buffer pool manager body that
// would drive it (page materialization, disk I/O) is an external
// collaborator.
package replacer

import (
	"container/list"
	"sync"

	"github.com/relixdb/txcore/pkg/common"
)

// Replacer selects which in-memory frame to evict when the buffer pool is
// full.
type Replacer interface {
	Victim() (common.FrameID, bool)
	Pin(frameID common.FrameID)
	Unpin(frameID common.FrameID)
	Size() uint64
}

// LRUReplacer maintains an ordered sequence of unpinned frame ids; the
// front is most-recently unpinned, the back is the next eviction target.
// All four operations serialize under a single internal latch; no
// inter-operation ordering beyond mutual exclusion is promised.
type LRUReplacer struct {
	mu     sync.Mutex
	lru    *list.List
	frames map[common.FrameID]*list.Element
}

var _ Replacer = &LRUReplacer{}

// NewLRUReplacer creates an empty replacer. There is no capacity argument:
// like the original BusTub LRUReplacer, Size() is purely informational —
// the buffer pool manager (out of scope here) is what actually bounds how
// many frames can exist.
func NewLRUReplacer() *LRUReplacer {
	return &LRUReplacer{
		lru:    list.New(),
		frames: make(map[common.FrameID]*list.Element),
	}
}

// Victim removes and returns the least-recently-unpinned frame. Returns
// (0, false) if no frame is a candidate for eviction.
func (l *LRUReplacer) Victim() (common.FrameID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	elem := l.lru.Back()
	if elem == nil {
		return 0, false
	}

	frameID := elem.Value.(common.FrameID)

	l.lru.Remove(elem)
	delete(l.frames, frameID)

	return frameID, true
}

// Pin marks a frame as in-use: it is no longer a victim candidate. No-op
// if the frame isn't currently a candidate.
func (l *LRUReplacer) Pin(frameID common.FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.frames[frameID]; ok {
		l.lru.Remove(elem)
		delete(l.frames, frameID)
	}
}

// Unpin marks a frame as no-longer-in-use. Repeated unpins do not refresh
// recency — only the transition from pinned to unpinned does, so this is a
// no-op if the frame is already a candidate.
func (l *LRUReplacer) Unpin(frameID common.FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.frames[frameID]; exists {
		return
	}

	elem := l.lru.PushFront(frameID)
	l.frames[frameID] = elem
}

// Size returns the current victim-candidate count.
func (l *LRUReplacer) Size() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return uint64(len(l.frames))
}
