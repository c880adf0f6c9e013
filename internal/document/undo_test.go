package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskgraph/internal/models"
)

func TestUndoCreateRemovesTask(t *testing.T) {
	d := New()
	h := NewHistory(0)

	task, ev := d.Create("ephemeral")
	h.Record(ev)

	require.True(t, h.Undo(d))
	_, exists := d.Task(task.ID)
	assert.False(t, exists)
	assert.Equal(t, 0, d.Len())
}

func TestUndoModifyRestoresExactSnapshot(t *testing.T) {
	d := New()
	h := NewHistory(0)

	task, _ := d.Create("before")
	task.Description = "original text"
	task.Tags = []string{"keep"}
	d.Replace(task)
	want, _ := d.Task(task.ID)

	edited := want.Clone()
	edited.Name = "after"
	edited.Description = "rewritten"
	edited.Tags = append(edited.Tags, "extra")
	h.Record(d.Replace(edited))

	require.True(t, h.Undo(d))
	got, ok := d.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestUndoDeleteRestoresTaskAndParentLinks(t *testing.T) {
	d := New()
	h := NewHistory(0)

	parent1, _ := d.Create("p1")
	parent2, _ := d.Create("p2")
	child, _ := d.Create("c")
	parent1.AddDependency(child.ID)
	parent2.AddDependency(child.ID)
	d.Replace(parent1)
	d.Replace(parent2)
	want, _ := d.Task(child.ID)

	h.Record(d.Remove(child.ID))
	require.True(t, h.Undo(d))

	got, ok := d.Task(child.ID)
	require.True(t, ok)
	assert.Equal(t, want, got)
	for _, pid := range []models.TaskID{parent1.ID, parent2.ID} {
		p, _ := d.Task(pid)
		assert.True(t, p.DependsOnTask(child.ID), "parent %d must reference the restored task", pid)
	}
}

func TestRedoReappliesUndoneMutation(t *testing.T) {
	d := New()
	h := NewHistory(0)

	task, ev := d.Create("t")
	h.Record(ev)
	task.Name = "renamed"
	h.Record(d.Replace(task))

	require.True(t, h.Undo(d))
	got, _ := d.Task(task.ID)
	assert.Equal(t, "t", got.Name)

	require.True(t, h.Redo(d))
	got, _ = d.Task(task.ID)
	assert.Equal(t, "renamed", got.Name)
}

func TestRedoAcrossDeletion(t *testing.T) {
	d := New()
	h := NewHistory(0)

	parent, _ := d.Create("p")
	child, _ := d.Create("c")
	parent.AddDependency(child.ID)
	d.Replace(parent)

	h.Record(d.Remove(child.ID))
	require.True(t, h.Undo(d))
	_, exists := d.Task(child.ID)
	require.True(t, exists)

	require.True(t, h.Redo(d))
	_, exists = d.Task(child.ID)
	assert.False(t, exists)
	p, _ := d.Task(parent.ID)
	assert.False(t, p.DependsOnTask(child.ID))
}

func TestRecordClearsRedo(t *testing.T) {
	d := New()
	h := NewHistory(0)

	task, ev := d.Create("t")
	h.Record(ev)
	require.True(t, h.Undo(d))
	require.True(t, h.CanRedo())

	_, ev = d.Create("other")
	h.Record(ev)
	assert.False(t, h.CanRedo(), "a fresh mutation invalidates the redo stack")
	_ = task
}

func TestUndoUnderflowIsNoOp(t *testing.T) {
	d := New()
	h := NewHistory(0)
	assert.False(t, h.Undo(d))
	assert.False(t, h.Redo(d))
}

func TestHistoryDiscardsOldestBeyondLimit(t *testing.T) {
	d := New()
	h := NewHistory(3)

	task, _ := d.Create("t")
	for i := 0; i < 6; i++ {
		edited, _ := d.Task(task.ID)
		edited.Description = string(rune('a' + i))
		h.Record(d.Replace(edited))
	}

	undone := 0
	for h.Undo(d) {
		undone++
	}
	assert.Equal(t, 3, undone, "history depth is bounded, oldest entries silently dropped")
}

func TestCreateModifyCoalesceIntoOneUndoStep(t *testing.T) {
	d := New()
	h := NewHistory(0)

	task, ev := d.Create("draft")
	h.Record(ev)
	// Keystroke-level edits right after creation.
	task.Name = "draft v2"
	h.Record(d.Replace(task))
	task.Name = "draft v3"
	h.Record(d.Replace(task))

	require.True(t, h.Undo(d))
	_, exists := d.Task(task.ID)
	assert.False(t, exists, "the merged create undoes in a single step")
	assert.False(t, h.CanUndo())
}

func TestModifyPairsForDifferentTasksDoNotMerge(t *testing.T) {
	d := New()
	h := NewHistory(0)

	a, evA := d.Create("a")
	h.Record(evA)
	b, _ := d.Create("b")
	b.Name = "b2"
	h.Record(d.Replace(b))

	require.True(t, h.Undo(d))
	got, ok := d.Task(b.ID)
	require.True(t, ok)
	assert.Equal(t, "b", got.Name, "only b's edit is undone")
	_, ok = d.Task(a.ID)
	assert.True(t, ok)
	assert.True(t, h.CanUndo())
}
