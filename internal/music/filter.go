package music

import "strings"

// FilterState is the ephemeral, UI-driven filter input. Zero value means
// no filtering.
type FilterState struct {
	Query      string
	Starred    bool
	Collection string
}

// Engine applies filter predicates over a release list using the star and
// collection registries for membership checks.
type Engine struct {
	starred     *StarRegistry
	collections *CollectionRegistry
}

func NewEngine(starred *StarRegistry, collections *CollectionRegistry) *Engine {
	return &Engine{starred: starred, collections: collections}
}

// Filter AND-combines three predicates in fixed order: title substring,
// star membership, collection membership. A collection filter naming a
// collection that does not exist is a no-op and leaves the running result
// untouched, so a stale collection reference never empties the list. That
// asymmetry with the other two predicates is deliberate.
func (e *Engine) Filter(releases []Release, state FilterState) []Release {
	result := releases

	if q := strings.ToLower(strings.TrimSpace(state.Query)); q != "" {
		var kept []Release
		for _, r := range result {
			if strings.Contains(strings.ToLower(r.Title), q) {
				kept = append(kept, r)
			}
		}
		result = kept
	}

	if state.Starred {
		var kept []Release
		for _, r := range result {
			if e.starred.IsStarred(r.Path) {
				kept = append(kept, r)
			}
		}
		result = kept
	}

	if state.Collection != "" && e.collections.Exists(state.Collection) {
		var kept []Release
		for _, r := range result {
			if e.collections.Contains(state.Collection, r.Path) {
				kept = append(kept, r)
			}
		}
		result = kept
	}

	return result
}

// AdvancedSearch matches field-qualified tokens, AND-combined. Only
// "title:" is meaningful; a token with an unknown field matches
// everything. Bare tokens are treated as title terms.
func (e *Engine) AdvancedSearch(releases []Release, query string) []Release {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return releases
	}

	result := releases
	for _, token := range tokens {
		field, value := "title", token
		if idx := strings.Index(token, ":"); idx >= 0 {
			field = strings.ToLower(token[:idx])
			value = token[idx+1:]
		}

		if field != "title" {
			continue
		}

		needle := strings.ToLower(value)
		var kept []Release
		for _, r := range result {
			if strings.Contains(strings.ToLower(r.Title), needle) {
				kept = append(kept, r)
			}
		}
		result = kept
	}
	return result
}

// FuzzySearch keeps releases whose title scores at or above threshold
// (in [0,1]) against the query under normalized edit distance, with a
// containment shortcut: when one string contains the other the score is
// their length ratio.
func (e *Engine) FuzzySearch(releases []Release, query string, threshold float64) []Release {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return releases
	}

	var kept []Release
	for _, r := range releases {
		if similarity(q, strings.ToLower(r.Title)) >= threshold {
			kept = append(kept, r)
		}
	}
	return kept
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(longer, shorter) {
		return float64(len(shorter)) / float64(len(longer))
	}

	dist := levenshtein(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1 - float64(dist)/float64(maxLen)
}

// levenshtein computes edit distance with the two-row rolling table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
