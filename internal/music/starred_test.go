package music

import (
	"testing"

	"github.com/nmelis/beacon/internal/logger"
)

func TestStarRegistryToggle(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewStarRegistry(store, logger.Discard())

	if !reg.Toggle("/music/Abbey Road") {
		t.Error("Expected first toggle to star")
	}
	if !reg.IsStarred("/music/Abbey Road") {
		t.Error("Expected path starred after toggle")
	}
	if reg.Toggle("/music/Abbey Road") {
		t.Error("Expected second toggle to unstar")
	}
	if reg.IsStarred("/music/Abbey Road") {
		t.Error("Expected path unstarred after second toggle")
	}
}

func TestStarRegistryNormalizesKeys(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewStarRegistry(store, logger.Discard())

	reg.Add("/music/Abbey Road")

	// A rescan can hand back the same release under a different parent.
	if !reg.IsStarred("/mnt/nas/Abbey Road") {
		t.Error("Expected star to survive a path prefix change")
	}
	if !reg.IsStarred("/music/abbey_road") {
		t.Error("Expected star lookup to normalize case and whitespace")
	}
}

func TestStarRegistryAddRemoveIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t)
	reg := NewStarRegistry(store, logger.Discard())

	reg.Add("/music/Animals")
	reg.Add("/music/Animals")
	if got := reg.All(); len(got) != 1 {
		t.Errorf("Expected 1 starred key, got %v", got)
	}

	reg.Remove("/music/Animals")
	reg.Remove("/music/Animals")
	if got := reg.All(); len(got) != 0 {
		t.Errorf("Expected no starred keys, got %v", got)
	}
}

func TestStarRegistryPersistence(t *testing.T) {
	store, _, _ := newTestStore(t)

	reg := NewStarRegistry(store, logger.Discard())
	reg.Add("/music/Abbey Road")
	reg.Add("/music/Kind of Blue")

	reloaded := NewStarRegistry(store, logger.Discard())
	if !reloaded.IsStarred("/music/Abbey Road") || !reloaded.IsStarred("/music/Kind of Blue") {
		t.Errorf("Expected stars to survive reload, got %v", reloaded.All())
	}
}
