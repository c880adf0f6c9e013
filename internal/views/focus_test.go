package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/taskgraph/internal/models"
)

func TestFocusBucketsNeighborhood(t *testing.T) {
	// 0 -> 1 -> 2, 3 unrelated. Focusing on 1: 0 depends on it,
	// it depends on 2.
	d, ids := buildDocument(t, 4, map[int][]int{0: {1}, 1: {2}})

	f := NewFocus(ids[1])
	f.Rebuild(d, SortNone, Filter{})

	assert.Equal(t, []models.TaskID{ids[0]}, f.Dependents)
	assert.Equal(t, []models.TaskID{ids[2]}, f.DependsOn)
}

func TestFocusSeesTransitiveRelations(t *testing.T) {
	d, ids := buildDocument(t, 4, map[int][]int{0: {1}, 1: {2}, 2: {3}})

	f := NewFocus(ids[2])
	f.Rebuild(d, SortNone, Filter{})

	assert.ElementsMatch(t, []models.TaskID{ids[0], ids[1]}, f.Dependents)
	assert.ElementsMatch(t, []models.TaskID{ids[3]}, f.DependsOn)
}

func TestFocusOnStaleIDProducesEmptyBuckets(t *testing.T) {
	d, ids := buildDocument(t, 2, map[int][]int{0: {1}})
	d.Remove(ids[1])

	f := NewFocus(ids[1])
	f.Rebuild(d, SortNone, Filter{})

	assert.Empty(t, f.Dependents)
	assert.Empty(t, f.DependsOn)
}
