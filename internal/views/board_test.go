package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// buildDocument creates n tasks and wires deps[i] as the dependency set
// of the i-th created task.
func buildDocument(t *testing.T, n int, deps map[int][]int) (*document.Document, []models.TaskID) {
	t.Helper()
	d := document.New()
	ids := make([]models.TaskID, n)
	for i := 0; i < n; i++ {
		task, _ := d.Create("task")
		ids[i] = task.ID
	}
	for from, targets := range deps {
		task, ok := d.Task(ids[from])
		require.True(t, ok)
		for _, to := range targets {
			task.AddDependency(ids[to])
		}
		d.Replace(task)
	}
	return d, ids
}

func TestBoardPartitionsAllTasksExactlyOnce(t *testing.T) {
	d, ids := buildDocument(t, 5, map[int][]int{0: {4}, 1: {0}, 2: {1}})
	d.ToggleCompleted(ids[4])

	b := NewBoard()
	b.Rebuild(d, SortNone, Filter{})

	seen := map[models.TaskID]int{}
	for _, bucket := range [][]models.TaskID{b.Ready, b.Blocked, b.Completed} {
		for _, id := range bucket {
			seen[id]++
		}
	}
	require.Len(t, seen, 5, "the three buckets partition every id")
	for id, count := range seen {
		assert.Equal(t, 1, count, "id %d bucketed more than once", id)
	}

	assert.ElementsMatch(t, []models.TaskID{ids[0], ids[3]}, b.Ready)
	assert.ElementsMatch(t, []models.TaskID{ids[1], ids[2]}, b.Blocked)
	assert.ElementsMatch(t, []models.TaskID{ids[4]}, b.Completed)
}

func TestBoardAppliesFilter(t *testing.T) {
	d, ids := buildDocument(t, 3, nil)
	task, _ := d.Task(ids[0])
	task.Category = "work"
	d.Replace(task)

	b := NewBoard()
	b.Rebuild(d, SortNone, Filter{Kind: FilterCategory, Text: "work"})

	assert.Equal(t, []models.TaskID{ids[0]}, b.Ready)
	assert.Empty(t, b.Blocked)
	assert.Empty(t, b.Completed)
}

func TestBoardRebuildClearsStaleState(t *testing.T) {
	d, ids := buildDocument(t, 2, nil)

	b := NewBoard()
	b.Rebuild(d, SortNone, Filter{})
	require.Len(t, b.Ready, 2)

	d.Remove(ids[0])
	b.Rebuild(d, SortNone, Filter{})
	assert.Equal(t, []models.TaskID{ids[1]}, b.Ready)
}
