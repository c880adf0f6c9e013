package document

// DefaultHistoryLimit bounds the undo ring; once full, the oldest
// entries are silently discarded. Undo depth is best effort.
const DefaultHistoryLimit = 35

// History is the bounded undo/redo log over a document. Record captures
// the inverse event returned by a mutation; Undo and Redo replay them.
// The zero value is not usable; construct with NewHistory.
type History struct {
	limit int
	past  []UndoEvent
	ahead []UndoEvent
}

// NewHistory returns an empty history bounded to limit events; a
// non-positive limit falls back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Record appends the inverse event of a fresh mutation. An adjacent
// Create+Modify pair for the same task coalesces into one entry. Any
// recorded mutation invalidates the redo stack.
func (h *History) Record(ev UndoEvent) {
	if ev == nil {
		return
	}
	h.ahead = h.ahead[:0]
	if n := len(h.past); n > 0 {
		if merged, ok := mergeEvents(h.past[n-1], ev); ok {
			h.past[n-1] = merged
			return
		}
	}
	h.past = append(h.past, ev)
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
}

// Undo reverts the most recent mutation against doc, reporting whether
// anything was undone. Underflow is a no-op.
func (h *History) Undo(doc *Document) bool {
	n := len(h.past)
	if n == 0 {
		return false
	}
	ev := h.past[n-1]
	h.past = h.past[:n-1]
	h.ahead = append(h.ahead, doc.Undo(ev))
	return true
}

// Redo reapplies the most recently undone mutation, reporting whether
// anything was redone.
func (h *History) Redo(doc *Document) bool {
	n := len(h.ahead)
	if n == 0 {
		return false
	}
	ev := h.ahead[n-1]
	h.ahead = h.ahead[:n-1]
	h.past = append(h.past, doc.Undo(ev))
	return true
}

// CanUndo reports whether any event is available to undo.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether any undone event can be reapplied.
func (h *History) CanRedo() bool { return len(h.ahead) > 0 }

// Clear drops all history, e.g. after loading a different document.
func (h *History) Clear() {
	h.past = h.past[:0]
	h.ahead = h.ahead[:0]
}
