package views

import (
	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// Board buckets every task id by derived status. One scan fills all
// three lists; the cache is cleared and fully rebuilt each time.
type Board struct {
	Ready     []models.TaskID
	Blocked   []models.TaskID
	Completed []models.TaskID
}

// NewBoard returns an empty status board.
func NewBoard() *Board { return &Board{} }

func (b *Board) Kind() Kind { return KindBoard }

// Rebuild scans the document once, computing status per task and
// testing the filter, then sorts each bucket.
func (b *Board) Rebuild(doc *document.Document, sort Sort, filter Filter) {
	b.Ready = b.Ready[:0]
	b.Blocked = b.Blocked[:0]
	b.Completed = b.Completed[:0]
	for _, task := range doc.Tasks() {
		if !filter.Matches(doc, task) {
			continue
		}
		switch doc.Status(task.ID) {
		case document.StatusReady:
			b.Ready = append(b.Ready, task.ID)
		case document.StatusBlocked:
			b.Blocked = append(b.Blocked, task.ID)
		case document.StatusCompleted:
			b.Completed = append(b.Completed, task.ID)
		}
	}
	sort.Apply(doc, b.Ready)
	sort.Apply(doc, b.Blocked)
	sort.Apply(doc, b.Completed)
}
