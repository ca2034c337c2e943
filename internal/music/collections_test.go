package music

import (
	"testing"
	"unicode/utf8"

	"github.com/nmelis/beacon/internal/logger"
)

func TestCollectionRegistryAddContains(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewCollectionRegistry(store, logger.Discard())

	reg.Add("jazz", "/music/Kind of Blue")

	if !reg.Exists("jazz") {
		t.Error("Expected collection created on first add")
	}
	if !reg.Contains("jazz", "/music/Kind of Blue") {
		t.Error("Expected membership after add")
	}
	if !reg.Contains("jazz", "/elsewhere/kind_of_blue") {
		t.Error("Expected membership check to normalize the path")
	}
	if reg.Contains("rock", "/music/Kind of Blue") {
		t.Error("Expected unknown collection not to contain anything")
	}
}

func TestCollectionRegistryToggle(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewCollectionRegistry(store, logger.Discard())

	if !reg.Toggle("jazz", "/music/Kind of Blue") {
		t.Error("Expected first toggle to add")
	}
	if reg.Toggle("jazz", "/music/Kind of Blue") {
		t.Error("Expected second toggle to remove")
	}
	if !reg.Exists("jazz") {
		t.Error("Expected collection to remain after emptying")
	}
}

func TestCollectionRegistryDelete(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewCollectionRegistry(store, logger.Discard())

	reg.Add("jazz", "/music/Kind of Blue")
	reg.Delete("jazz")

	if reg.Exists("jazz") {
		t.Error("Expected collection gone after delete")
	}
	if _, ok := store.LoadCollections()["jazz"]; ok {
		t.Error("Expected backing file removed")
	}

	// Unknown names are a no-op.
	reg.Delete("nonexistent")
}

func TestCollectionRegistryLookup(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewCollectionRegistry(store, logger.Discard())

	reg.Add("jazz", "/music/Kind of Blue")
	reg.Add("favorites", "/music/Kind of Blue")
	reg.Add("rock", "/music/Abbey Road")

	names := reg.Lookup("/music/Kind of Blue")
	if len(names) != 2 || names[0] != "favorites" || names[1] != "jazz" {
		t.Errorf("Expected sorted cross-references, got %v", names)
	}
}

func TestCollectionRegistryPersistence(t *testing.T) {
	store, _, _ := newTestStore(t)

	reg := NewCollectionRegistry(store, logger.Discard())
	reg.Add("jazz", "/music/Kind of Blue")

	reloaded := NewCollectionRegistry(store, logger.Discard())
	if !reloaded.Contains("jazz", "/music/Kind of Blue") {
		t.Error("Expected collection to survive reload")
	}
}

func TestCollectionRegistryAutoGenerate(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewCollectionRegistry(store, logger.Discard())

	releases := []Release{
		{Title: "Kind of Blue", Path: "/music/Kind of Blue"},
		{Title: "A Love Supreme", Path: "/music/A Love Supreme"},
		{Title: "Abbey Road", Path: "/music/Abbey Road"},
		{Title: "Unknown", Path: "/music/Unknown"},
	}
	genres := map[string]string{
		"Kind of Blue":   "JAZZ",
		"A Love Supreme": "jazz",
		"Abbey Road":     "Rock",
	}

	reg.AutoGenerate(releases, func(r Release) string {
		return genres[r.Title]
	})

	if paths, _ := reg.Get("Jazz"); len(paths) != 2 {
		t.Errorf("Expected genre casing folded into one collection, got %v", paths)
	}
	if !reg.Exists("Rock") {
		t.Error("Expected Rock collection")
	}
	if reg.Exists("") {
		t.Error("Expected releases without a genre to be excluded")
	}
	if names := reg.Lookup("/music/Unknown"); len(names) != 0 {
		t.Errorf("Expected untagged release in no collection, got %v", names)
	}
}

func TestCollectionRegistryAutoGenerateMultibyteGenre(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewCollectionRegistry(store, logger.Discard())

	releases := []Release{{Title: "Trans Europe Express", Path: "/music/TEE"}}
	reg.AutoGenerate(releases, func(Release) string { return "électro" })

	names := reg.Names()
	if len(names) != 1 || names[0] != "Électro" {
		t.Fatalf("Expected Électro collection, got %v", names)
	}
	if !utf8.ValidString(names[0]) {
		t.Errorf("Expected valid UTF-8 collection name, got %q", names[0])
	}
	if _, ok := store.LoadCollections()["Électro"]; !ok {
		t.Error("Expected backing file named after the capitalized genre")
	}
}
