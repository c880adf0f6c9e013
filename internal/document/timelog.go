package document

import (
	"time"

	"github.com/tgienger/taskgraph/internal/models"
)

// ToggleRecording flips the task's recording state: if any entry in its
// time log is still open it is concluded at now, otherwise a fresh open
// entry starting now is appended. "Recording" is purely derived from the
// log, never stored. Panics when id does not exist.
func (d *Document) ToggleRecording(id models.TaskID, note string) UndoEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.mustTaskLocked(id)
	former := t.Clone()
	now := timeNow()
	for i := len(t.TimeLog) - 1; i >= 0; i-- {
		if t.TimeLog[i].Open() {
			t.TimeLog[i].Conclude(now)
			return &ModifyEvent{Former: former}
		}
	}
	t.TimeLog = append(t.TimeLog, models.StartedEntry(now, note))
	return &ModifyEvent{Former: former}
}

// IsRecording reports whether the task has an open time entry.
func (d *Document) IsRecording(id models.TaskID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t := d.mustTaskLocked(id)
	for i := range t.TimeLog {
		if t.TimeLog[i].Open() {
			return true
		}
	}
	return false
}

// LogFixedDuration appends a manually entered duration to the task's
// time log.
func (d *Document) LogFixedDuration(id models.TaskID, dur time.Duration, note string) UndoEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := d.mustTaskLocked(id)
	former := t.Clone()
	t.TimeLog = append(t.TimeLog, models.FixedEntry(dur, note))
	return &ModifyEvent{Former: former}
}

// TotalDuration sums every entry in the task's time log. Open entries
// are measured up to the current moment, so repeated calls grow without
// further mutation.
func (d *Document) TotalDuration(id models.TaskID) time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.totalDurationLocked(id, timeNow())
}

func (d *Document) totalDurationLocked(id models.TaskID, now time.Time) time.Duration {
	t := d.mustTaskLocked(id)
	var total time.Duration
	for i := range t.TimeLog {
		total += t.TimeLog[i].Duration(now)
	}
	return total
}

// SubtreeDuration pairs a direct dependency with the summed duration of
// its whole subtree.
type SubtreeDuration struct {
	ID    models.TaskID
	Total time.Duration
}

// SubtreeDurations reports, for each direct dependency of the task, its
// own total duration plus that of every transitive dependency below it.
// A shared visited set guarantees each task is counted exactly once even
// when two branches of the DAG reach it.
func (d *Document) SubtreeDurations(id models.TaskID) []SubtreeDuration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t := d.mustTaskLocked(id)
	now := timeNow()

	seen := make(map[models.TaskID]struct{}, len(t.DependsOn))
	for _, dep := range t.DependsOn {
		seen[dep] = struct{}{}
	}

	out := make([]SubtreeDuration, 0, len(t.DependsOn))
	for _, dep := range t.DependsOn {
		if _, ok := d.tasks[dep]; !ok {
			continue
		}
		total := d.totalDurationLocked(dep, now)
		stack := []models.TaskID{dep}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			curTask, ok := d.tasks[cur]
			if !ok {
				continue
			}
			for _, sub := range curTask.DependsOn {
				if _, counted := seen[sub]; counted {
					continue
				}
				seen[sub] = struct{}{}
				if _, ok := d.tasks[sub]; !ok {
					continue
				}
				total += d.totalDurationLocked(sub, now)
				stack = append(stack, sub)
			}
		}
		out = append(out, SubtreeDuration{ID: dep, Total: total})
	}
	return out
}
