package music

import (
	"testing"

	"github.com/nmelis/beacon/internal/logger"
)

func newTestEngine(t *testing.T) (*Engine, *StarRegistry, *CollectionRegistry) {
	t.Helper()
	store, _, _ := newTestStore(t)
	starred := NewStarRegistry(store, logger.Discard())
	collections := NewCollectionRegistry(store, logger.Discard())
	return NewEngine(starred, collections), starred, collections
}

func testReleases() []Release {
	return []Release{
		{Title: "Abbey Road", Path: "/music/Abbey Road", TrackCount: 17},
		{Title: "Dark Side of the Moon", Path: "/music/Dark Side of the Moon", TrackCount: 10},
		{Title: "Kind of Blue", Path: "/music/Kind of Blue", TrackCount: 5},
	}
}

func titles(releases []Release) []string {
	out := make([]string, len(releases))
	for i, r := range releases {
		out[i] = r.Title
	}
	return out
}

func TestFilterEmptyStateReturnsAll(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	releases := testReleases()

	result := engine.Filter(releases, FilterState{})
	if len(result) != 3 {
		t.Fatalf("Expected all releases, got %d", len(result))
	}
	for i := range releases {
		if result[i].Title != releases[i].Title {
			t.Errorf("Expected order preserved, got %v", titles(result))
			break
		}
	}
}

func TestFilterQuery(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	result := engine.Filter(testReleases(), FilterState{Query: "abbey"})
	if len(result) != 1 || result[0].Title != "Abbey Road" {
		t.Errorf("Expected case-insensitive title match, got %v", titles(result))
	}

	result = engine.Filter(testReleases(), FilterState{Query: "  of  "})
	if len(result) != 2 {
		t.Errorf("Expected trimmed substring match, got %v", titles(result))
	}
}

func TestFilterStarred(t *testing.T) {
	engine, starred, _ := newTestEngine(t)
	starred.Add("/music/Kind of Blue")

	result := engine.Filter(testReleases(), FilterState{Starred: true})
	if len(result) != 1 || result[0].Title != "Kind of Blue" {
		t.Errorf("Expected only starred release, got %v", titles(result))
	}
}

func TestFilterCollection(t *testing.T) {
	engine, _, collections := newTestEngine(t)
	collections.Add("jazz", "/music/Kind of Blue")

	result := engine.Filter(testReleases(), FilterState{Collection: "jazz"})
	if len(result) != 1 || result[0].Title != "Kind of Blue" {
		t.Errorf("Expected only jazz release, got %v", titles(result))
	}
}

func TestFilterMissingCollectionIsNoOp(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	result := engine.Filter(testReleases(), FilterState{Collection: "nonexistent"})
	if len(result) != 3 {
		t.Errorf("Expected missing collection to leave result untouched, got %v", titles(result))
	}
}

func TestFilterCombined(t *testing.T) {
	engine, starred, collections := newTestEngine(t)
	starred.Add("/music/Abbey Road")
	starred.Add("/music/Kind of Blue")
	collections.Add("favorites", "/music/Abbey Road")

	result := engine.Filter(testReleases(), FilterState{
		Query:      "road",
		Starred:    true,
		Collection: "favorites",
	})
	if len(result) != 1 || result[0].Title != "Abbey Road" {
		t.Errorf("Expected AND of all predicates, got %v", titles(result))
	}
}

func TestFilterStarToggleInvolution(t *testing.T) {
	engine, starred, _ := newTestEngine(t)
	state := FilterState{Starred: true}

	before := titles(engine.Filter(testReleases(), state))
	starred.Toggle("/music/Abbey Road")
	starred.Toggle("/music/Abbey Road")
	after := titles(engine.Filter(testReleases(), state))

	if len(before) != len(after) {
		t.Fatalf("Expected double toggle to restore filter output: %v vs %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("Expected identical output, got %v vs %v", before, after)
		}
	}
}

func TestAdvancedSearch(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	releases := testReleases()

	result := engine.AdvancedSearch(releases, "title:dark")
	if len(result) != 1 || result[0].Title != "Dark Side of the Moon" {
		t.Errorf("Expected title token match, got %v", titles(result))
	}

	result = engine.AdvancedSearch(releases, "blue")
	if len(result) != 1 || result[0].Title != "Kind of Blue" {
		t.Errorf("Expected bare token treated as title term, got %v", titles(result))
	}

	result = engine.AdvancedSearch(releases, "genre:rock")
	if len(result) != 3 {
		t.Errorf("Expected unknown field to match everything, got %v", titles(result))
	}

	result = engine.AdvancedSearch(releases, "title:of title:kind")
	if len(result) != 1 || result[0].Title != "Kind of Blue" {
		t.Errorf("Expected tokens AND-combined, got %v", titles(result))
	}

	result = engine.AdvancedSearch(releases, "   ")
	if len(result) != 3 {
		t.Errorf("Expected empty query to return all, got %v", titles(result))
	}
}

func TestFuzzySearch(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	releases := testReleases()

	result := engine.FuzzySearch(releases, "abbey", 0.5)
	if len(result) != 1 || result[0].Title != "Abbey Road" {
		t.Errorf("Expected containment shortcut to find Abbey Road, got %v", titles(result))
	}

	result = engine.FuzzySearch(releases, "abbey rode", 0.8)
	if len(result) != 1 || result[0].Title != "Abbey Road" {
		t.Errorf("Expected near-miss spelling to match, got %v", titles(result))
	}

	result = engine.FuzzySearch(releases, "zzzzzzzz", 0.5)
	if len(result) != 0 {
		t.Errorf("Expected no matches, got %v", titles(result))
	}

	result = engine.FuzzySearch(releases, "", 0.5)
	if len(result) != 3 {
		t.Errorf("Expected empty query to return all, got %v", titles(result))
	}
}

func TestSimilarity(t *testing.T) {
	if s := similarity("abbey road", "abbey road"); s != 1 {
		t.Errorf("Expected identical strings to score 1, got %f", s)
	}
	if s := similarity("abbey", "abbey road"); s != 0.5 {
		t.Errorf("Expected containment length ratio 0.5, got %f", s)
	}
	if s := similarity("", "abbey"); s != 0 {
		t.Errorf("Expected empty string to score 0, got %f", s)
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"abbey", "abbey", 0},
		{"road", "rode", 2},
	}
	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
