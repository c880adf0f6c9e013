package views

import (
	"sort"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// Queue lists the ids of every Ready task, most urgent first.
type Queue struct {
	Ready []models.TaskID
}

// NewQueue returns an empty priority queue view.
func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Kind() Kind { return KindQueue }

// Rebuild collects Ready tasks and orders them by descending priority
// weight; ties keep the document's id order.
func (q *Queue) Rebuild(doc *document.Document, _ Sort, _ Filter) {
	q.Ready = q.Ready[:0]
	for _, id := range doc.TaskIDs() {
		if doc.Status(id) == document.StatusReady {
			q.Ready = append(q.Ready, id)
		}
	}
	sort.SliceStable(q.Ready, func(i, j int) bool {
		return doc.TaskPriorityWeight(q.Ready[i]) > doc.TaskPriorityWeight(q.Ready[j])
	})
}
