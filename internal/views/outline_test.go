package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

func TestOutlineTopLevelIsNobodysDependency(t *testing.T) {
	d, ids := buildDocument(t, 4, map[int][]int{0: {1}, 1: {2}})

	o := NewOutline()
	o.Rebuild(d, SortNone, Filter{})

	assert.ElementsMatch(t, []models.TaskID{ids[0], ids[3]}, o.TopLevel)
}

func TestOutlineRowsCarryDepth(t *testing.T) {
	d, ids := buildDocument(t, 3, map[int][]int{0: {1}, 1: {2}})

	o := NewOutline()
	o.Rebuild(d, SortID, Filter{})

	require.Equal(t, []OutlineRow{
		{ID: ids[0], Depth: 0},
		{ID: ids[1], Depth: 1},
		{ID: ids[2], Depth: 2},
	}, o.Rows)
}

func TestOutlineEmitsSharedDependencyOnce(t *testing.T) {
	// Diamond: 0 -> {1,2}, both -> 3.
	d, ids := buildDocument(t, 4, map[int][]int{0: {1, 2}, 1: {3}, 2: {3}})

	o := NewOutline()
	o.Rebuild(d, SortID, Filter{})

	require.Len(t, o.Rows, 4)
	seen := map[models.TaskID]int{}
	for _, row := range o.Rows {
		seen[row.ID]++
	}
	assert.Equal(t, 1, seen[ids[3]])
}

func TestOutlineFilterDropsWholeSubtree(t *testing.T) {
	d, ids := buildDocument(t, 4, map[int][]int{0: {1}, 1: {2}})
	d.ToggleCompleted(ids[1])

	o := NewOutline()
	o.Rebuild(d, SortNone, Filter{Kind: FilterCompletion, Completed: false})

	var got []models.TaskID
	for _, row := range o.Rows {
		got = append(got, row.ID)
	}
	// Hiding completed drops the completed task and everything under it.
	assert.ElementsMatch(t, []models.TaskID{ids[0], ids[3]}, got)
}

func TestOutlineSortsSiblingsPerLevel(t *testing.T) {
	d := buildNamedForest(t)

	o := NewOutline()
	o.Rebuild(d, SortName, Filter{})

	names := rowNames(t, d, o.Rows)
	assert.Equal(t, []string{"apples", "zebras", "maintenance", "migration"}, names)
}

func TestOutlineFocusRestrictsToSubtree(t *testing.T) {
	d, ids := buildDocument(t, 4, map[int][]int{0: {1}, 1: {2}})

	o := NewOutline()
	o.SetFocus(ids[1])
	o.Rebuild(d, SortNone, Filter{})

	require.Equal(t, []OutlineRow{
		{ID: ids[1], Depth: 0},
		{ID: ids[2], Depth: 1},
	}, o.Rows)

	o.ClearFocus()
	o.Rebuild(d, SortNone, Filter{})
	assert.Len(t, o.Rows, 4)
}

// buildNamedForest wires two roots with one dependency each, named so
// alphabetical ordering differs from id ordering.
func buildNamedForest(t *testing.T) *document.Document {
	t.Helper()
	d, ids := buildDocument(t, 4, map[int][]int{0: {2}, 1: {3}})
	rename := func(i int, name string) {
		task, _ := d.Task(ids[i])
		task.Name = name
		d.Replace(task)
	}
	rename(0, "zebras")
	rename(1, "apples")
	rename(2, "migration")
	rename(3, "maintenance")
	return d
}

func rowNames(t *testing.T, d *document.Document, rows []OutlineRow) []string {
	t.Helper()
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		task, ok := d.Task(row.ID)
		require.True(t, ok)
		names = append(names, task.Name)
	}
	return names
}

func TestRowHeightsIgnoresMinorWobble(t *testing.T) {
	var r RowHeights
	assert.Zero(t, r.Average(), "no estimate before any measurement")

	r.Record(50)
	assert.InDelta(t, 50, r.Average(), 0.01)

	// Within 20% of the mean: the estimate must not move.
	r.Record(55)
	assert.InDelta(t, 50, r.Average(), 0.01)

	// A divergent measurement nudges the mean.
	r.Record(100)
	assert.InDelta(t, 75, r.Average(), 0.01)
}
