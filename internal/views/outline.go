package views

import (
	"math"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// OutlineRow is one rendered line of the outline: a task id and its
// indentation depth.
type OutlineRow struct {
	ID    models.TaskID
	Depth int
}

// Outline is the breadth-first projection of the dependency forest.
// Top-level ids are the tasks no other task depends on; rows descend
// from them (or from an optional focus root) level by level.
type Outline struct {
	TopLevel []models.TaskID
	Rows     []OutlineRow
	Heights  RowHeights

	focusRoot *models.TaskID
}

// NewOutline returns an empty outline view.
func NewOutline() *Outline { return &Outline{} }

func (o *Outline) Kind() Kind { return KindOutline }

// SetFocus restricts the outline to the subtree below id.
func (o *Outline) SetFocus(id models.TaskID) {
	o.focusRoot = &id
}

// ClearFocus restores the whole-forest outline.
func (o *Outline) ClearFocus() {
	o.focusRoot = nil
}

// Rebuild recomputes the top-level ids and walks the forest breadth
// first. At each level the pending siblings are re-sorted before being
// enqueued. A task excluded by the filter drops out together with the
// whole subtree rooted at it; a task reachable along two branches is
// emitted once.
func (o *Outline) Rebuild(doc *document.Document, sort Sort, filter Filter) {
	o.TopLevel = o.TopLevel[:0]
	o.Rows = o.Rows[:0]

	tasks := doc.Tasks()
	dependedOn := make(map[models.TaskID]struct{})
	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			dependedOn[dep] = struct{}{}
		}
	}
	for _, task := range tasks {
		if _, ok := dependedOn[task.ID]; !ok {
			o.TopLevel = append(o.TopLevel, task.ID)
		}
	}
	sort.Apply(doc, o.TopLevel)

	roots := o.TopLevel
	if o.focusRoot != nil {
		if _, ok := doc.Task(*o.focusRoot); ok {
			roots = []models.TaskID{*o.focusRoot}
		}
	}

	seen := make(map[models.TaskID]struct{}, len(tasks))
	level := make([]models.TaskID, 0, len(roots))
	for _, id := range roots {
		level = append(level, id)
	}
	for depth := 0; len(level) > 0; depth++ {
		var next []models.TaskID
		for _, id := range level {
			if _, visited := seen[id]; visited {
				continue
			}
			task, ok := doc.Task(id)
			if !ok {
				continue
			}
			seen[id] = struct{}{}
			if !filter.Matches(doc, task) {
				continue
			}
			o.Rows = append(o.Rows, OutlineRow{ID: id, Depth: depth})
			next = append(next, task.DependsOn...)
		}
		sort.Apply(doc, next)
		level = next
	}
}

// RowHeights smooths row height measurements for virtualized scrolling.
// The running mean only moves when a fresh measurement diverges from it
// by more than twenty percent, so minor wobble never reflows the list.
type RowHeights struct {
	sum   float64
	count float64
}

// Record feeds one measured row height into the estimate.
func (r *RowHeights) Record(height float64) {
	if height <= 0 {
		return
	}
	if r.count == 0 {
		r.sum, r.count = 50, 1
	}
	avg := r.sum / r.count
	if math.Abs(height-avg)/height > 0.2 {
		r.sum += height
		r.count++
	}
}

// Average returns the current smoothed estimate, zero before any
// measurement.
func (r *RowHeights) Average() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / r.count
}
