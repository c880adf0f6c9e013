package views

import (
	"strings"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// FilterKind selects the predicate a Filter applies.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterContains
	FilterCategory
	FilterRelatedTo
	FilterCompletion
)

// Filter is an externally supplied predicate over tasks; the zero value
// matches everything.
type Filter struct {
	Kind FilterKind
	// Text is the substring for FilterContains or the category name for
	// FilterCategory.
	Text string
	// RelatedTo is the pivot task for FilterRelatedTo.
	RelatedTo models.TaskID
	// Completed selects which completion state FilterCompletion keeps.
	Completed bool
}

func (f Filter) String() string {
	switch f.Kind {
	case FilterContains:
		return "Contains string"
	case FilterCategory:
		return "Matches category"
	case FilterRelatedTo:
		return "Related to"
	case FilterCompletion:
		if f.Completed {
			return "Completed"
		}
		return "Uncompleted"
	}
	return "No filter"
}

// Matches reports whether the task passes the filter.
func (f Filter) Matches(doc *document.Document, task models.Task) bool {
	switch f.Kind {
	case FilterContains:
		return strings.Contains(task.SearchText(), f.Text)
	case FilterCategory:
		return task.Category != "" && task.Category == f.Text
	case FilterRelatedTo:
		if _, ok := doc.Task(f.RelatedTo); !ok {
			return false
		}
		return doc.Relation(f.RelatedTo, task.ID) != document.RelationUnrelated
	case FilterCompletion:
		return task.IsCompleted() == f.Completed
	default:
		return true
	}
}
