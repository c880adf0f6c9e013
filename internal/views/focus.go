package views

import (
	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// Focus is the neighborhood of one focal task: every task that
// transitively depends on it and every task it transitively depends on.
type Focus struct {
	FocalID models.TaskID
	// Dependents are the tasks blocked (directly or transitively) by
	// the focal task.
	Dependents []models.TaskID
	// DependsOn are the tasks the focal task transitively requires.
	DependsOn []models.TaskID
}

// NewFocus returns a focus view centered on id.
func NewFocus(id models.TaskID) *Focus {
	return &Focus{FocalID: id}
}

func (f *Focus) Kind() Kind { return KindFocus }

// Rebuild scans every task once, classifying it by its relation to the
// focal task, and sorts both buckets.
func (f *Focus) Rebuild(doc *document.Document, sort Sort, _ Filter) {
	f.Dependents = f.Dependents[:0]
	f.DependsOn = f.DependsOn[:0]
	if _, ok := doc.Task(f.FocalID); !ok {
		return
	}
	for _, id := range doc.TaskIDs() {
		if id == f.FocalID {
			continue
		}
		switch doc.Relation(f.FocalID, id) {
		case document.RelationDependsOn:
			f.DependsOn = append(f.DependsOn, id)
		case document.RelationDependedOnBy:
			f.Dependents = append(f.Dependents, id)
		}
	}
	sort.Apply(doc, f.Dependents)
	sort.Apply(doc, f.DependsOn)
}
