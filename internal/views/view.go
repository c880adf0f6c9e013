// Package views holds the derived projections of a document that the
// presentation layer renders: status board, priority queue, fuzzy
// search, breadth-first outline and focus neighborhood.
//
// Every view caches only task ids and derived scalars, never task data,
// and is rebuilt from the document on demand rather than patched in
// place. Exactly one view is live at a time; switching views discards
// the old cache.
package views

import (
	"github.com/tgienger/taskgraph/internal/document"
)

// Kind identifies which view variant is active.
type Kind int

const (
	KindBoard Kind = iota
	KindQueue
	KindSearch
	KindOutline
	KindFocus
)

func (k Kind) String() string {
	switch k {
	case KindBoard:
		return "Board"
	case KindQueue:
		return "Queue"
	case KindSearch:
		return "Search"
	case KindOutline:
		return "Outline"
	case KindFocus:
		return "Focus"
	}
	return "Unknown"
}

// View is one lazily rebuilt projection of the document.
type View interface {
	Kind() Kind
	// Rebuild recomputes the cached id lists from the document's
	// current task set under the given sort and filter.
	Rebuild(doc *document.Document, sort Sort, filter Filter)
}

// Invalidator is implemented by views whose skip-recompute shortcut
// cannot see document-shape changes on its own; callers must force an
// invalidation when tasks appear or disappear.
type Invalidator interface {
	ForceInvalidate()
}
