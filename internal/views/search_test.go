package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskgraph/internal/models"
)

// substringMatcher scores by match position so tests control ordering
// deterministically: earlier occurrences score higher.
type substringMatcher struct{}

func (substringMatcher) Score(query, text string) (int, bool) {
	if query == "" {
		return 0, false
	}
	idx := strings.Index(text, query)
	if idx < 0 {
		return 0, false
	}
	return len(text) - idx, true
}

func TestSearchOrdersHighestRelevanceFirst(t *testing.T) {
	d, _ := buildDocument(t, 0, nil)
	deploy, _ := d.Create("deploy service")
	redeploy, _ := d.Create("write deploy notes")
	unrelated, _ := d.Create("water plants")
	d.Replace(deploy)
	d.Replace(redeploy)
	d.Replace(unrelated)

	s := NewSearch(substringMatcher{})
	s.Query = "deploy"
	s.Rebuild(d, SortNone, Filter{})

	require.Equal(t, []models.TaskID{deploy.ID, redeploy.ID}, s.Matched,
		"earlier (higher scored) match comes first, non-matches dropped")
}

func TestSearchIdenticalQueryIsIdempotent(t *testing.T) {
	d, _ := buildDocument(t, 0, nil)
	a, _ := d.Create("alpha item")
	b, _ := d.Create("another alpha")
	_ = a
	_ = b

	s := NewSearch(substringMatcher{})
	s.Query = "alpha"
	s.Rebuild(d, SortNone, Filter{})
	first := append([]models.TaskID(nil), s.Matched...)

	s.Rebuild(d, SortNone, Filter{})
	assert.Equal(t, first, s.Matched)
}

func TestSearchSkipsRecomputeUntilForced(t *testing.T) {
	d, _ := buildDocument(t, 0, nil)
	d.Create("alpha one")

	s := NewSearch(substringMatcher{})
	s.Query = "alpha"
	s.Rebuild(d, SortNone, Filter{})
	require.Len(t, s.Matched, 1)

	// The task set changed but the query did not: the stale cache wins
	// until the caller forces an invalidation.
	d.Create("alpha two")
	s.Rebuild(d, SortNone, Filter{})
	assert.Len(t, s.Matched, 1, "unchanged query with non-empty results skips recompute")

	s.ForceInvalidate()
	s.Rebuild(d, SortNone, Filter{})
	assert.Len(t, s.Matched, 2)
}

func TestSearchQueryChangeTriggersRecompute(t *testing.T) {
	d, _ := buildDocument(t, 0, nil)
	d.Create("alpha")
	d.Create("beta")

	s := NewSearch(substringMatcher{})
	s.Query = "alpha"
	s.Rebuild(d, SortNone, Filter{})
	require.Len(t, s.Matched, 1)

	s.Query = "beta"
	s.Rebuild(d, SortNone, Filter{})
	require.Len(t, s.Matched, 1)

	// Reverting to a previous query still recomputes: the cache only
	// remembers the immediately preceding query.
	s.Query = "alpha"
	s.Rebuild(d, SortNone, Filter{})
	require.Len(t, s.Matched, 1)
}

func TestSearchMatchesFullBlob(t *testing.T) {
	d, _ := buildDocument(t, 0, nil)
	task, _ := d.Create("opaque name")
	task.Tags = []string{"networking"}
	task.Category = "infra"
	d.Replace(task)

	s := NewSearch(substringMatcher{})
	for _, query := range []string{"networking", "infra"} {
		s.Query = query
		s.ForceInvalidate()
		s.Rebuild(d, SortNone, Filter{})
		assert.Equal(t, []models.TaskID{task.ID}, s.Matched, "query %q", query)
	}
}

func TestDefaultMatcherFindsFuzzyMatches(t *testing.T) {
	m := NewMatcher()
	score, ok := m.Score("dply", "deploy the service")
	assert.True(t, ok)
	better, ok2 := m.Score("deploy", "deploy the service")
	assert.True(t, ok2)
	assert.Greater(t, better, score, "a fuller match scores higher")

	_, ok = m.Score("zzz", "deploy the service")
	assert.False(t, ok)
}
