package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

func testFilterDocument(t *testing.T) (*document.Document, models.Task, models.Task, models.Task) {
	t.Helper()
	d := document.New()
	a, _ := d.Create("Name")
	a.Tags = []string{"the-tag"}
	b, _ := d.Create("second")
	b.Description = "hey there"
	a.AddDependency(b.ID)
	d.Replace(a)
	d.Replace(b)
	c, _ := d.Create("third")
	c.Category = "Category"
	d.Replace(c)
	a, _ = d.Task(a.ID)
	return d, a, b, c
}

func countMatches(d *document.Document, f Filter) int {
	n := 0
	for _, task := range d.Tasks() {
		if f.Matches(d, task) {
			n++
		}
	}
	return n
}

func TestFilterAllMatchesEverything(t *testing.T) {
	d, _, _, _ := testFilterDocument(t)
	assert.Equal(t, 3, countMatches(d, Filter{}))
}

func TestFilterContainsSearchesWholeBlob(t *testing.T) {
	d, a, b, c := testFilterDocument(t)

	cases := []struct {
		text string
		want models.TaskID
	}{
		{"Name", a.ID},
		{"the-tag", a.ID},
		{"hey", b.ID},
		{"Category", c.ID},
	}
	for _, tc := range cases {
		f := Filter{Kind: FilterContains, Text: tc.text}
		matched := []models.TaskID{}
		for _, task := range d.Tasks() {
			if f.Matches(d, task) {
				matched = append(matched, task.ID)
			}
		}
		assert.Contains(t, matched, tc.want, "text %q", tc.text)
	}
}

func TestFilterCategory(t *testing.T) {
	d, _, _, c := testFilterDocument(t)
	f := Filter{Kind: FilterCategory, Text: "Category"}
	assert.Equal(t, 1, countMatches(d, f))
	assert.True(t, f.Matches(d, c))
}

func TestFilterRelatedToCountsBothDirectionsAndSelf(t *testing.T) {
	d, a, b, _ := testFilterDocument(t)

	assert.Equal(t, 2, countMatches(d, Filter{Kind: FilterRelatedTo, RelatedTo: a.ID}))
	assert.Equal(t, 2, countMatches(d, Filter{Kind: FilterRelatedTo, RelatedTo: b.ID}))
}

func TestFilterRelatedToStalePivotMatchesNothing(t *testing.T) {
	d, _, _, _ := testFilterDocument(t)
	assert.Equal(t, 0, countMatches(d, Filter{Kind: FilterRelatedTo, RelatedTo: 999}))
}

func TestFilterCompletion(t *testing.T) {
	d, a, _, _ := testFilterDocument(t)
	now := time.Now()
	a.Completed = &now
	d.Replace(a)

	assert.Equal(t, 1, countMatches(d, Filter{Kind: FilterCompletion, Completed: true}))
	assert.Equal(t, 2, countMatches(d, Filter{Kind: FilterCompletion, Completed: false}))
}
