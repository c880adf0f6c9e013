// Package document implements the task dependency graph: the document
// that owns all tasks, categories and priority weights, the acyclicity
// guard, derived status queries, time tracking and the undo history.
//
// All mutation and traversal happens under one document-wide lock so
// graph queries always see a consistent snapshot. Exported methods take
// the lock; the unexported *Locked variants carry the logic and may call
// each other freely inside a single critical section.
package document

import (
	"math"
	"sort"
	"sync"

	"github.com/tgienger/taskgraph/internal/models"
)

// Document is the aggregate owning every task and its metadata.
//
// Tasks reference their prerequisites through DependsOn id sets; viewed
// as a directed graph those edges must stay acyclic, which callers
// ensure by checking CanAddAsChild before linking. Callers only ever
// hold value copies of tasks; Replace writes a copy back.
type Document struct {
	mu         sync.RWMutex
	tasks      map[models.TaskID]*models.Task
	priorities map[string]int
	categories map[string]models.CategoryStyle
	nextID     models.TaskID
}

// New returns an empty document with the default priority weights.
func New() *Document {
	return &Document{
		tasks: make(map[models.TaskID]*models.Task),
		priorities: map[string]int{
			"High":   10,
			"Medium": 5,
			"Low":    1,
		},
		categories: make(map[string]models.CategoryStyle),
	}
}

// AllocateID hands out the next free task id. Allocation is monotonic
// until the id space runs out, at which point it wraps and scans for an
// unused slot instead of overflowing.
func (d *Document) AllocateID() models.TaskID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.allocateIDLocked()
}

func (d *Document) allocateIDLocked() models.TaskID {
	id := d.nextID
	if id == math.MaxInt64 {
		id = 0
	}
	for {
		if _, taken := d.tasks[id]; !taken {
			break
		}
		id++
	}
	d.nextID = id + 1
	return id
}

// Len returns the number of tasks in the document.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.tasks)
}

// Task returns a copy of the task with the given id.
func (d *Document) Task(id models.TaskID) (models.Task, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return t.Clone(), true
}

// Tasks returns copies of every task, ordered by id.
func (d *Document) Tasks() []models.Task {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.Task, 0, len(d.tasks))
	for _, id := range d.sortedIDsLocked() {
		out = append(out, d.tasks[id].Clone())
	}
	return out
}

// TaskIDs returns every task id, sorted ascending.
func (d *Document) TaskIDs() []models.TaskID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sortedIDsLocked()
}

func (d *Document) sortedIDsLocked() []models.TaskID {
	ids := make([]models.TaskID, 0, len(d.tasks))
	for id := range d.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Create allocates a fresh id, inserts a task with the given name and
// returns a copy for the caller to populate and Replace back. The
// returned event undoes the creation.
func (d *Document) Create(name string) (models.Task, UndoEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	task := d.createLocked(name)
	return task.Clone(), &CreateEvent{Created: task.Clone()}
}

func (d *Document) createLocked(name string) *models.Task {
	task := &models.Task{ID: d.allocateIDLocked(), Name: name}
	d.tasks[task.ID] = task
	return task
}

// CreateDependent atomically creates a new task and links it as a
// dependency of parent. The child inherits the parent's category when
// the category's style asks for it. Panics if parent does not exist.
func (d *Document) CreateDependent(parent models.TaskID, name string) (models.Task, UndoEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.mustTaskLocked(parent)
	task := d.createLocked(name)
	if style, ok := d.categories[p.Category]; ok && style.ChildrenInherit {
		task.Category = p.Category
	}
	p.AddDependency(task.ID)
	return task.Clone(), &CreateEvent{ParentID: &parent, Created: task.Clone()}
}

// Replace upserts the given task by id. The returned event carries the
// prior snapshot for an existing id, or undoes the insertion for a new
// one. If the task names a category the document has not seen, a default
// style is registered for it.
func (d *Document) Replace(task models.Task) UndoEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.replaceLocked(task)
}

func (d *Document) replaceLocked(task models.Task) UndoEvent {
	stored := task.Clone()
	prior, existed := d.tasks[task.ID]
	d.tasks[task.ID] = &stored
	if task.Category != "" {
		if _, known := d.categories[task.Category]; !known {
			d.categories[task.Category] = models.CategoryStyle{}
		}
	}
	if existed {
		return &ModifyEvent{Former: prior.Clone()}
	}
	return &CreateEvent{Created: task.Clone()}
}

// Remove deletes the task and scrubs it out of every other task's
// dependency set. The returned event restores the task and relinks it
// into each recorded referencing parent. Panics if id does not exist.
func (d *Document) Remove(id models.TaskID) UndoEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.removeLocked(id)
}

func (d *Document) removeLocked(id models.TaskID) UndoEvent {
	former := d.mustTaskLocked(id).Clone()
	var parents []models.TaskID
	for _, pid := range d.sortedIDsLocked() {
		if pid == id {
			continue
		}
		if d.tasks[pid].RemoveDependency(id) {
			parents = append(parents, pid)
		}
	}
	delete(d.tasks, id)
	return &DeleteEvent{Former: former, ParentIDs: parents}
}

// AddDependency links child as a prerequisite of parent, guarded by the
// cycle check. It reports whether the edge was added and, when it was,
// returns the event undoing the parent's modification.
func (d *Document) AddDependency(parent, child models.TaskID) (UndoEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.mustTaskLocked(parent)
	c := d.mustTaskLocked(child)
	if !d.canAddAsChildLocked(p, c) {
		return nil, false
	}
	former := p.Clone()
	p.AddDependency(child)
	return &ModifyEvent{Former: former}, true
}

// ToggleCompleted flips the completion mark of the task: an incomplete
// task is stamped with now, a completed one has its mark cleared.
func (d *Document) ToggleCompleted(id models.TaskID) UndoEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.mustTaskLocked(id)
	former := t.Clone()
	if t.Completed != nil {
		t.Completed = nil
	} else {
		now := timeNow()
		t.Completed = &now
	}
	return &ModifyEvent{Former: former}
}

// mustTaskLocked resolves id or panics; unknown ids passed to the
// document are a caller contract violation, not a recoverable error.
func (d *Document) mustTaskLocked(id models.TaskID) *models.Task {
	t, ok := d.tasks[id]
	if !ok {
		panic(errUnknownTask(id))
	}
	return t
}

// PriorityWeight returns the numeric weight for a priority name, zero
// when the name is unknown.
func (d *Document) PriorityWeight(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.priorities[name]
}

// TaskPriorityWeight returns the effective weight of the task's
// priority: zero when the task has no priority or the priority has no
// assigned weight.
func (d *Document) TaskPriorityWeight(id models.TaskID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.priorities[d.mustTaskLocked(id).Priority]
}

// SetPriorityWeight creates or adjusts a named priority weight.
func (d *Document) SetPriorityWeight(name string, weight int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.priorities[name] = weight
}

// RemovePriority drops a named priority; tasks that still reference it
// fall back to weight zero.
func (d *Document) RemovePriority(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.priorities, name)
}

// PriorityWeightEntry pairs a priority name with its weight.
type PriorityWeightEntry struct {
	Name   string
	Weight int
}

// SortedPriorities returns the priority table ordered by ascending
// weight, names breaking ties.
func (d *Document) SortedPriorities() []PriorityWeightEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]PriorityWeightEntry, 0, len(d.priorities))
	for name, w := range d.priorities {
		out = append(out, PriorityWeightEntry{Name: name, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight < out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CategoryStyle returns the style registered for a category name.
func (d *Document) CategoryStyle(name string) (models.CategoryStyle, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	style, ok := d.categories[name]
	return style, ok
}

// ReplaceCategoryStyle registers or overwrites a category's style.
func (d *Document) ReplaceCategoryStyle(name string, style models.CategoryStyle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.categories[name] = style
}

// Categories returns the registered category names, sorted.
func (d *Document) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.categories))
	for name := range d.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
