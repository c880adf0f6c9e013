package document

import "github.com/tgienger/taskgraph/internal/models"

// UndoEvent is the inverse of a single document mutation, returned by
// every mutating call. Undoing an event through Document.Undo yields the
// event's own inverse, which is what makes redo possible.
type UndoEvent interface {
	// TaskID identifies the task the event concerns.
	TaskID() models.TaskID
	undoLocked(d *Document) UndoEvent
}

// CreateEvent records that a task was created, optionally under an
// originating parent. Undoing it removes the task entirely, scrubbing
// any dependency references picked up since.
type CreateEvent struct {
	ParentID *models.TaskID
	Created  models.Task
}

func (e *CreateEvent) TaskID() models.TaskID { return e.Created.ID }

func (e *CreateEvent) undoLocked(d *Document) UndoEvent {
	return d.removeLocked(e.Created.ID)
}

// DeleteEvent records a deletion: the removed task's snapshot and the
// ids of every task that referenced it as a dependency. Undoing it
// reinserts the snapshot and relinks each recorded parent.
type DeleteEvent struct {
	Former    models.Task
	ParentIDs []models.TaskID
}

func (e *DeleteEvent) TaskID() models.TaskID { return e.Former.ID }

func (e *DeleteEvent) undoLocked(d *Document) UndoEvent {
	inverse := d.replaceLocked(e.Former)
	for _, pid := range e.ParentIDs {
		if parent, ok := d.tasks[pid]; ok {
			parent.AddDependency(e.Former.ID)
		}
	}
	return inverse
}

// ModifyEvent records the prior snapshot of an edited task. Undoing it
// writes the snapshot back.
type ModifyEvent struct {
	Former models.Task
}

func (e *ModifyEvent) TaskID() models.TaskID { return e.Former.ID }

func (e *ModifyEvent) undoLocked(d *Document) UndoEvent {
	return d.replaceLocked(e.Former)
}

// Undo applies the event's inverse effect as one atomic mutation and
// returns the inverse event.
func (d *Document) Undo(ev UndoEvent) UndoEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return ev.undoLocked(d)
}

// mergeEvents coalesces an adjacent pair of events for the same task.
// The only pair that merges is a Create immediately followed by a
// Modify: the result is a single Create carrying the Modify's prior
// snapshot under the original parent context, so keystroke-level edits
// right after creation cost one undo step instead of two.
func mergeEvents(prev, next UndoEvent) (UndoEvent, bool) {
	create, ok := prev.(*CreateEvent)
	if !ok {
		return nil, false
	}
	modify, ok := next.(*ModifyEvent)
	if !ok || modify.Former.ID != create.Created.ID {
		return nil, false
	}
	return &CreateEvent{ParentID: create.ParentID, Created: modify.Former}, true
}
