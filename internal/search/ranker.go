// Package search implements the search relevance ranker: a pure, deterministic
// scoring pass over catalog search results for a user's free-text query.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/stoodlemayer/gameshelf/pkg/models"
)

// Component weights of the final score. Relevance dominates so that the
// match-specificity ladder can never be overturned by popularity alone.
const (
	weightRelevance  = 0.6
	weightPopularity = 0.25
	weightRecency    = 0.10
	weightRating     = 0.05
)

// addonPenalty scales the relevance component of likely add-on content when
// the query itself does not mention add-on terms.
const addonPenalty = 0.3

// DefaultMaxResults caps the ranked result list.
const DefaultMaxResults = 20

// classicExpansionCutoff: expansions released before this year were sold and
// catalogued as standalone products, so the add-on prefilter keeps them.
const classicExpansionCutoff = 2010

// addonKeywords matches names that likely denote add-on content rather than a
// base game. Tested as whole words.
var addonKeywords = regexp.MustCompile(`\b(pack|dlc|season|episode|bundle|expansion|toolkit|goodie|add[- ]?ons?)\b`)

// strongAddonKeywords is the narrower pattern used by the prefilter: names
// matching it are dropped outright instead of merely penalized.
var strongAddonKeywords = regexp.MustCompile(`\b(dlc|season pass|add[- ]?ons?|expansion)\b`)

// serialPattern marks season/episode/volume naming, which disqualifies a name
// from the classic-expansion exemption.
var serialPattern = regexp.MustCompile(`\b(season|episode|volume)\b`)

// Ranker scores and orders catalog search results. The zero value is not
// usable; construct with NewRanker.
type Ranker struct {
	maxResults int
	now        func() time.Time
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithMaxResults overrides the ranked-list cap.
func WithMaxResults(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.maxResults = n
		}
	}
}

// WithClock overrides the time source used for the recency component.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) { r.now = now }
}

// NewRanker creates a Ranker with the default result cap.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		maxResults: DefaultMaxResults,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank filters likely add-on content, scores the remaining candidates against
// the query, and returns them ordered by descending final score. Ties keep
// their original relative order. The input slice is never mutated.
func (r *Ranker) Rank(query string, candidates []models.CatalogEntry) []models.CatalogEntry {
	scored := r.RankScored(query, candidates)
	out := make([]models.CatalogEntry, len(scored))
	for i := range scored {
		out[i] = scored[i].Entry
	}
	return out
}

// RankScored is Rank with the per-entry score breakdown attached.
func (r *Ranker) RankScored(query string, candidates []models.CatalogEntry) []models.ScoredEntry {
	if len(candidates) == 0 {
		return []models.ScoredEntry{}
	}

	kept := r.prefilter(candidates)

	maxPop := 0
	for i := range kept {
		if kept[i].Popularity > maxPop {
			maxPop = kept[i].Popularity
		}
	}

	scored := make([]models.ScoredEntry, len(kept))
	for i := range kept {
		scored[i] = models.ScoredEntry{
			Entry: kept[i],
			Score: r.Score(query, &kept[i], maxPop),
		}
	}

	// Relevance is the primary key: a higher-specificity match can never be
	// overtaken by popularity, recency, or rating. The weighted final score
	// orders candidates of equal relevance.
	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Score.Relevance != scored[b].Score.Relevance {
			return scored[a].Score.Relevance > scored[b].Score.Relevance
		}
		return scored[a].Score.Final > scored[b].Score.Final
	})

	if len(scored) > r.maxResults {
		scored = scored[:r.maxResults]
	}
	return scored
}

// Score computes the component breakdown for one candidate. maxPopularity is
// the largest popularity count in the batch (popularity is batch-relative).
func (r *Ranker) Score(query string, e *models.CatalogEntry, maxPopularity int) models.SearchScore {
	s := models.SearchScore{
		Relevance:  relevance(query, e.Name),
		Popularity: popularityScore(e.Popularity, maxPopularity),
		Recency:    r.recencyScore(e.ReleaseDate),
		Rating:     ratingScore(e.Rating),
	}

	// Penalize likely add-on content unless the user is explicitly searching
	// for it. Keeps "Collector's Pack" entries below the base game.
	if matchesAddon(e.Name) && !matchesAddon(query) {
		s.Relevance *= addonPenalty
	}

	s.Final = weightRelevance*s.Relevance +
		weightPopularity*s.Popularity +
		weightRecency*s.Recency +
		weightRating*s.Rating
	return s
}

// prefilter drops candidates whose name strongly indicates downloadable
// add-on content. Pre-2010 "classic" expansions are kept: they were sold and
// catalogued as standalone products.
func (r *Ranker) prefilter(candidates []models.CatalogEntry) []models.CatalogEntry {
	kept := make([]models.CatalogEntry, 0, len(candidates))
	for i := range candidates {
		if r.isFilteredAddon(&candidates[i]) {
			filteredAddons.Inc()
			continue
		}
		kept = append(kept, candidates[i])
	}
	return kept
}

// isFilteredAddon reports whether the entry should be dropped before scoring.
func (r *Ranker) isFilteredAddon(e *models.CatalogEntry) bool {
	name := strings.ToLower(e.Name)
	if !strongAddonKeywords.MatchString(name) {
		return false
	}
	if isClassicExpansion(name, e.ReleaseYear()) {
		return false
	}
	return true
}

// isClassicExpansion reports whether a name/year pair looks like a standalone
// retail expansion from before the DLC era.
func isClassicExpansion(lowerName string, year int) bool {
	if !strings.Contains(lowerName, "expansion") {
		return false
	}
	if year == 0 || year >= classicExpansionCutoff {
		return false
	}
	return !serialPattern.MatchString(lowerName)
}

// matchesAddon reports whether s contains an add-on keyword as a whole word.
func matchesAddon(s string) bool {
	return addonKeywords.MatchString(strings.ToLower(s))
}

// relevance walks the match-specificity ladder: exact > prefix > word
// boundary > substring > per-word overlap. Both sides are normalized first so
// "zelda 2" and "Zelda II" compare equal.
func relevance(query, name string) float64 {
	q := normalizeTitle(query)
	n := normalizeTitle(name)
	if q == "" || n == "" {
		return 0
	}

	switch {
	case n == q:
		return 1.0
	case strings.HasPrefix(n, q):
		return 0.9
	case strings.Contains(n, " "+q):
		return 0.8
	case strings.Contains(n, q):
		return 0.6
	}

	// Fraction of query words that appear inside some candidate word.
	queryWords := strings.Fields(q)
	nameWords := strings.Fields(n)
	matched := 0
	for _, qw := range queryWords {
		for _, nw := range nameWords {
			if strings.Contains(nw, qw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords)) * 0.4
}

// popularityScore is batch-relative: the most popular candidate in the batch
// scores 1.0.
func popularityScore(popularity, maxPopularity int) float64 {
	if maxPopularity <= 0 || popularity <= 0 {
		return 0
	}
	return float64(popularity) / float64(maxPopularity)
}

// recencyScore is a step function of age in years. Missing release dates
// score 0.
func (r *Ranker) recencyScore(released *time.Time) float64 {
	if released == nil {
		return 0
	}
	age := r.now().Sub(*released).Hours() / (24 * 365.25)
	switch {
	case age <= 1:
		return 1.0
	case age <= 3:
		return 0.9
	case age <= 5:
		return 0.7
	case age <= 10:
		return 0.5
	case age <= 20:
		return 0.3
	default:
		return 0.1
	}
}

// ratingScore maps a 0–5 rating onto [0,1]. Absent ratings score 0.
func ratingScore(rating float64) float64 {
	if rating <= 0 {
		return 0
	}
	if rating > 5 {
		rating = 5
	}
	return rating / 5
}

// Explain returns a short human-readable breakdown for debugging and UI
// tooltips.
func Explain(s models.SearchScore) string {
	return fmt.Sprintf("relevance %.2f, popularity %.2f, recency %.2f, rating %.2f = %.3f",
		s.Relevance, s.Popularity, s.Recency, s.Rating, s.Final)
}
