package views

import (
	"sort"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// Sort orders id lists by a task attribute.
type Sort int

const (
	SortNone Sort = iota
	SortID
	SortName
	SortCategory
	SortCompleted
)

func (s Sort) String() string {
	switch s {
	case SortID:
		return "Creation Order"
	case SortName:
		return "Name"
	case SortCategory:
		return "Category"
	case SortCompleted:
		return "Completed"
	}
	return "None"
}

// Apply sorts ids in place. Ids that no longer resolve sort last.
// SortNone leaves the order untouched.
func (s Sort) Apply(doc *document.Document, ids []models.TaskID) {
	if s == SortNone {
		return
	}
	tasks := make(map[models.TaskID]models.Task, len(ids))
	for _, id := range ids {
		if t, ok := doc.Task(id); ok {
			tasks[id] = t
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, okA := tasks[ids[i]]
		b, okB := tasks[ids[j]]
		if !okA || !okB {
			return okA
		}
		return s.less(a, b)
	})
}

func (s Sort) less(a, b models.Task) bool {
	switch s {
	case SortID:
		return a.ID < b.ID
	case SortName:
		return a.Name < b.Name
	case SortCategory:
		return a.Category < b.Category
	case SortCompleted:
		return completedBefore(a, b)
	}
	return false
}

// completedBefore orders incomplete tasks first, then completed ones by
// completion time.
func completedBefore(a, b models.Task) bool {
	switch {
	case a.Completed == nil && b.Completed == nil:
		return false
	case a.Completed == nil:
		return true
	case b.Completed == nil:
		return false
	default:
		return a.Completed.Before(*b.Completed)
	}
}

// SortCompletedLast orders ids so completed tasks come after everything
// else, completed ones by completion time among themselves. Stale ids
// sort last.
func SortCompletedLast(doc *document.Document, ids []models.TaskID) {
	tasks := make(map[models.TaskID]models.Task, len(ids))
	for _, id := range ids {
		if t, ok := doc.Task(id); ok {
			tasks[id] = t
		}
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, okA := tasks[ids[i]]
		b, okB := tasks[ids[j]]
		if !okA || !okB {
			return okA
		}
		return completedBefore(a, b)
	})
}
