package views

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/tgienger/taskgraph/internal/document"
	"github.com/tgienger/taskgraph/internal/models"
)

// Matcher scores a query string against a candidate text blob. A higher
// score means a better match; ok is false when the candidate does not
// match at all.
type Matcher interface {
	Score(query, text string) (score int, ok bool)
}

// NewMatcher returns the default fuzzy matcher.
func NewMatcher() Matcher { return fuzzyMatcher{} }

type fuzzyMatcher struct{}

func (fuzzyMatcher) Score(query, text string) (int, bool) {
	matches := fuzzy.Find(query, []string{text})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}

// Search caches the ids matching the current query, best match first.
//
// Rebuild is skipped when the query is unchanged and the cached result
// set is non-empty; equality of query alone cannot detect that the
// underlying task set changed, so callers must ForceInvalidate after
// mutations that add or remove tasks.
type Search struct {
	Query   string
	Matched []models.TaskID

	lastQuery string
	matcher   Matcher
}

// NewSearch returns a search view using the given matcher, or the
// default fuzzy matcher when nil.
func NewSearch(m Matcher) *Search {
	if m == nil {
		m = NewMatcher()
	}
	return &Search{matcher: m}
}

func (s *Search) Kind() Kind { return KindSearch }

// ForceInvalidate empties the cached result set so the next Rebuild
// recomputes even under an unchanged query.
func (s *Search) ForceInvalidate() {
	s.Matched = s.Matched[:0]
}

// Rebuild scores every task's searchable blob against the query, drops
// non-matches and orders the rest by ascending score, then reverses so
// the highest relevance comes first.
func (s *Search) Rebuild(doc *document.Document, _ Sort, _ Filter) {
	if s.Query == s.lastQuery && len(s.Matched) > 0 {
		return
	}

	type scored struct {
		id    models.TaskID
		score int
	}
	var hits []scored
	for _, task := range doc.Tasks() {
		if score, ok := s.matcher.Score(s.Query, task.SearchText()); ok {
			hits = append(hits, scored{id: task.ID, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	s.Matched = s.Matched[:0]
	for i := len(hits) - 1; i >= 0; i-- {
		s.Matched = append(s.Matched, hits[i].id)
	}
	s.lastQuery = s.Query
}
