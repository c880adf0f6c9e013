package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/taskgraph/internal/models"
)

func TestSortByName(t *testing.T) {
	d, ids := buildDocument(t, 3, nil)
	for i, name := range []string{"charlie", "alpha", "bravo"} {
		task, _ := d.Task(ids[i])
		task.Name = name
		d.Replace(task)
	}

	order := append([]models.TaskID(nil), ids...)
	SortName.Apply(d, order)
	assert.Equal(t, []models.TaskID{ids[1], ids[2], ids[0]}, order)
}

func TestSortNoneLeavesOrderUntouched(t *testing.T) {
	d, ids := buildDocument(t, 3, nil)
	order := []models.TaskID{ids[2], ids[0], ids[1]}
	SortNone.Apply(d, order)
	assert.Equal(t, []models.TaskID{ids[2], ids[0], ids[1]}, order)
}

func TestSortCompletedLastPushesCompletedDown(t *testing.T) {
	d, ids := buildDocument(t, 3, nil)
	d.ToggleCompleted(ids[0])

	order := append([]models.TaskID(nil), ids...)
	SortCompletedLast(d, order)
	assert.Equal(t, ids[0], order[len(order)-1])
}

func TestSortCompletedOrdersByCompletionTime(t *testing.T) {
	d, ids := buildDocument(t, 3, nil)
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	setCompleted := func(i int, at time.Time) {
		task, _ := d.Task(ids[i])
		task.Completed = &at
		d.Replace(task)
	}
	setCompleted(0, late)
	setCompleted(2, early)

	order := append([]models.TaskID(nil), ids...)
	SortCompleted.Apply(d, order)
	assert.Equal(t, []models.TaskID{ids[1], ids[2], ids[0]}, order)
}

func TestSortToleratesStaleIDs(t *testing.T) {
	d, ids := buildDocument(t, 2, nil)
	stale := models.TaskID(999)
	order := []models.TaskID{stale, ids[1], ids[0]}
	SortID.Apply(d, order)
	assert.Equal(t, []models.TaskID{ids[0], ids[1], stale}, order)
}
