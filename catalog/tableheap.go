package catalog

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/relixdb/txcore/pkg/common"
	"github.com/relixdb/txcore/txns"
)

const heapPageID = common.PageID(1)

// InMemoryTableHeap is a slot array standing in for the on-disk heap file
// the real table heap would be: MarkDelete tombstones a slot rather than
// compacting the array, so a RID handed out once stays valid (or
// determinately dead) for the heap's lifetime. Every mutation is also
// appended to an afero-backed log file, the way the teacher's system
// catalog treats afero as its persistence boundary — here repurposed as
// an audit trail for the demo CLI rather than the source of truth.
type InMemoryTableHeap struct {
	mu    sync.RWMutex
	slots []*Tuple

	fs      afero.Fs
	logPath string
}

func NewInMemoryTableHeap(fs afero.Fs, logPath string) *InMemoryTableHeap {
	return &InMemoryTableHeap{fs: fs, logPath: logPath}
}

func (h *InMemoryTableHeap) InsertTuple(t Tuple, txn *txns.Transaction) (common.RID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cp := t
	slotNum := uint32(len(h.slots))
	h.slots = append(h.slots, &cp)

	rid := common.RID{PageID: heapPageID, SlotNum: slotNum}
	h.appendLog(fmt.Sprintf("insert txn=%d slot=%d", txn.ID(), slotNum))
	return rid, true
}

func (h *InMemoryTableHeap) MarkDelete(rid common.RID, txn *txns.Transaction) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.validLocked(rid) {
		return false
	}
	h.slots[rid.SlotNum] = nil
	h.appendLog(fmt.Sprintf("delete txn=%d slot=%d", txn.ID(), rid.SlotNum))
	return true
}

func (h *InMemoryTableHeap) UpdateTuple(t Tuple, rid common.RID, txn *txns.Transaction) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.validLocked(rid) {
		return false
	}
	cp := t
	h.slots[rid.SlotNum] = &cp
	h.appendLog(fmt.Sprintf("update txn=%d slot=%d", txn.ID(), rid.SlotNum))
	return true
}

func (h *InMemoryTableHeap) GetTuple(rid common.RID) (Tuple, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.validLocked(rid) {
		return Tuple{}, false
	}
	return *h.slots[rid.SlotNum], true
}

func (h *InMemoryTableHeap) validLocked(rid common.RID) bool {
	return int(rid.SlotNum) < len(h.slots) && h.slots[rid.SlotNum] != nil
}

func (h *InMemoryTableHeap) Begin(txn *txns.Transaction) TableIterator {
	h.mu.RLock()
	defer h.mu.RUnlock()

	snapshot := make([]*Tuple, len(h.slots))
	copy(snapshot, h.slots)
	return &heapIterator{slots: snapshot}
}

func (h *InMemoryTableHeap) appendLog(line string) {
	if h.fs == nil || h.logPath == "" {
		return
	}
	f, err := h.fs.OpenFile(h.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(line + "\n")
}

type heapIterator struct {
	slots []*Tuple
	pos   int
}

func (it *heapIterator) Next() (Tuple, common.RID, bool) {
	for it.pos < len(it.slots) {
		idx := it.pos
		it.pos++
		if it.slots[idx] != nil {
			return *it.slots[idx], common.RID{PageID: heapPageID, SlotNum: uint32(idx)}, true
		}
	}
	return Tuple{}, common.RID{}, false
}

var (
	_ TableHeap     = (*InMemoryTableHeap)(nil)
	_ TableIterator = (*heapIterator)(nil)
)
