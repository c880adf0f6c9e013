package models

import (
	"sort"
	"strings"
	"time"
)

// TaskID identifies a task within a document.
type TaskID int64

// Task represents a single task in the dependency graph
type Task struct {
	ID          TaskID      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Completed   *time.Time  `json:"completed,omitempty"`
	Category    string      `json:"category,omitempty"`
	Priority    string      `json:"priority,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	DependsOn   []TaskID    `json:"depends_on,omitempty"`
	TimeLog     []TimeEntry `json:"time_log,omitempty"`
}

// IsCompleted reports whether the task carries a completion mark.
func (t *Task) IsCompleted() bool {
	return t.Completed != nil
}

// DependsOnTask reports whether id is a direct dependency of the task.
func (t *Task) DependsOnTask(id TaskID) bool {
	for _, dep := range t.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

// AddDependency inserts id into the dependency set, keeping it sorted.
// Adding an id that is already present is a no-op.
func (t *Task) AddDependency(id TaskID) {
	if t.DependsOnTask(id) {
		return
	}
	t.DependsOn = append(t.DependsOn, id)
	sort.Slice(t.DependsOn, func(i, j int) bool { return t.DependsOn[i] < t.DependsOn[j] })
}

// RemoveDependency deletes id from the dependency set, reporting whether
// it was present.
func (t *Task) RemoveDependency(id TaskID) bool {
	for i, dep := range t.DependsOn {
		if dep == id {
			t.DependsOn = append(t.DependsOn[:i], t.DependsOn[i+1:]...)
			return true
		}
	}
	return false
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// AddTag adds a tag if not already present.
func (t *Task) AddTag(tag string) {
	if t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
}

// SearchText builds the blob used for full-text and fuzzy matching:
// name, category, priority, description and tags, space separated.
func (t *Task) SearchText() string {
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte(' ')
	b.WriteString(t.Category)
	b.WriteByte(' ')
	b.WriteString(t.Priority)
	b.WriteByte(' ')
	b.WriteString(t.Description)
	for _, tag := range t.Tags {
		b.WriteByte(' ')
		b.WriteString(tag)
	}
	return b.String()
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() Task {
	c := *t
	if t.Completed != nil {
		done := *t.Completed
		c.Completed = &done
	}
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.DependsOn != nil {
		c.DependsOn = append([]TaskID(nil), t.DependsOn...)
	}
	if t.TimeLog != nil {
		c.TimeLog = make([]TimeEntry, len(t.TimeLog))
		for i := range t.TimeLog {
			c.TimeLog[i] = t.TimeLog[i].Clone()
		}
	}
	return c
}

// CategoryStyle holds the visual hints and behavior for a task category.
// Colors are hex strings consumed by the terminal theme; empty means
// "use the default".
type CategoryStyle struct {
	Foreground      string `json:"foreground,omitempty"`
	Background      string `json:"background,omitempty"`
	Border          string `json:"border,omitempty"`
	ChildrenInherit bool   `json:"children_inherit_category"`
}
