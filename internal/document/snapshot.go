package document

import (
	"github.com/tgienger/taskgraph/internal/models"
)

// Snapshot is the serializable whole-document state: every task plus
// the priority and category tables. Persistence layers marshal it as
// they see fit; the document only promises to produce and accept it.
type Snapshot struct {
	Tasks      []models.Task                   `json:"tasks"`
	Priorities map[string]int                  `json:"priorities"`
	Categories map[string]models.CategoryStyle `json:"categories"`
	NextID     models.TaskID                   `json:"next_id"`
}

// Snapshot captures a deep copy of the entire document.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := Snapshot{
		Tasks:      make([]models.Task, 0, len(d.tasks)),
		Priorities: make(map[string]int, len(d.priorities)),
		Categories: make(map[string]models.CategoryStyle, len(d.categories)),
		NextID:     d.nextID,
	}
	for _, id := range d.sortedIDsLocked() {
		snap.Tasks = append(snap.Tasks, d.tasks[id].Clone())
	}
	for name, w := range d.priorities {
		snap.Priorities[name] = w
	}
	for name, style := range d.categories {
		snap.Categories[name] = style
	}
	return snap
}

// Restore replaces the whole document with the snapshot's contents in
// one atomic swap. Callers must invalidate every derived view cache and
// clear undo history afterwards.
func (d *Document) Restore(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = make(map[models.TaskID]*models.Task, len(snap.Tasks))
	for i := range snap.Tasks {
		t := snap.Tasks[i].Clone()
		d.tasks[t.ID] = &t
	}
	d.priorities = make(map[string]int, len(snap.Priorities))
	for name, w := range snap.Priorities {
		d.priorities[name] = w
	}
	d.categories = make(map[string]models.CategoryStyle, len(snap.Categories))
	for name, style := range snap.Categories {
		d.categories[name] = style
	}
	d.nextID = snap.NextID
	// A snapshot from an older save may predate the allocator field.
	for id := range d.tasks {
		if id >= d.nextID {
			d.nextID = id + 1
		}
	}
}
