package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddDependencyStaysSortedAndDeduped(t *testing.T) {
	task := Task{ID: 1}
	task.AddDependency(9)
	task.AddDependency(3)
	task.AddDependency(9)
	task.AddDependency(5)

	assert.Equal(t, []TaskID{3, 5, 9}, task.DependsOn)
	assert.True(t, task.DependsOnTask(5))
	assert.False(t, task.DependsOnTask(4))
}

func TestRemoveDependency(t *testing.T) {
	task := Task{DependsOn: []TaskID{2, 4, 6}}

	assert.True(t, task.RemoveDependency(4))
	assert.Equal(t, []TaskID{2, 6}, task.DependsOn)
	assert.False(t, task.RemoveDependency(4))
}

func TestTags(t *testing.T) {
	task := Task{}
	task.AddTag("urgent")
	task.AddTag("urgent")
	task.AddTag("design")

	assert.Equal(t, []string{"urgent", "design"}, task.Tags)
	assert.True(t, task.HasTag("design"))
	assert.False(t, task.HasTag("Urgent"))
}

func TestSearchTextCoversAllFields(t *testing.T) {
	task := Task{
		Name:        "Deploy service",
		Description: "ship it to staging",
		Category:    "infra",
		Priority:    "High",
		Tags:        []string{"release", "q3"},
	}

	blob := task.SearchText()
	for _, want := range []string{"Deploy service", "ship it to staging", "infra", "High", "release", "q3"} {
		assert.Contains(t, blob, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	done := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	start := done.Add(-time.Hour)
	task := Task{
		ID:        7,
		Name:      "original",
		Completed: &done,
		Tags:      []string{"a"},
		DependsOn: []TaskID{1, 2},
		TimeLog:   []TimeEntry{{Start: &start, End: &done}},
	}

	clone := task.Clone()
	clone.Name = "changed"
	clone.Tags[0] = "b"
	clone.DependsOn[0] = 99
	*clone.Completed = done.Add(time.Hour)
	*clone.TimeLog[0].Start = start.Add(time.Minute)

	assert.Equal(t, "original", task.Name)
	assert.Equal(t, []string{"a"}, task.Tags)
	assert.Equal(t, []TaskID{1, 2}, task.DependsOn)
	assert.Equal(t, done, *task.Completed)
	assert.Equal(t, start, *task.TimeLog[0].Start)
}

func TestIsCompleted(t *testing.T) {
	task := Task{}
	assert.False(t, task.IsCompleted())

	now := time.Now()
	task.Completed = &now
	assert.True(t, task.IsCompleted())
}
