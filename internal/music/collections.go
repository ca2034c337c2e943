package music

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/nmelis/beacon/internal/logger"
)

// CollectionRegistry holds named sets of normalized path keys, each backed
// 1:1 by a JSON file. Collection names double as filename stems, so they
// are unique by construction.
type CollectionRegistry struct {
	mu          sync.Mutex
	collections map[string]map[string]bool
	store       *Store
	logger      *logger.Logger
}

func NewCollectionRegistry(store *Store, lg *logger.Logger) *CollectionRegistry {
	r := &CollectionRegistry{
		collections: make(map[string]map[string]bool),
		store:       store,
		logger:      lg,
	}
	for name, paths := range store.LoadCollections() {
		set := make(map[string]bool, len(paths))
		for _, p := range paths {
			set[NormalizePath(p)] = true
		}
		r.collections[name] = set
	}
	return r
}

// Names returns all collection names, sorted.
func (r *CollectionRegistry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the member keys of a collection and whether it exists.
func (r *CollectionRegistry) Get(name string) ([]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.collections[name]
	if !ok {
		return nil, false
	}
	return sortedKeys(set), true
}

// Exists reports whether a collection with the given name exists.
func (r *CollectionRegistry) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.collections[name]
	return ok
}

// Contains reports whether the collection exists and holds the given path.
func (r *CollectionRegistry) Contains(name, path string) bool {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.collections[name]
	return ok && set[key]
}

// Add puts a path into a collection, creating the collection if needed.
func (r *CollectionRegistry) Add(name, path string) {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.collections[name]
	if !ok {
		set = make(map[string]bool)
		r.collections[name] = set
	}
	if set[key] {
		return
	}
	set[key] = true
	r.persistLocked(name)
}

// Remove drops a path from a collection. Unknown collections are a no-op.
func (r *CollectionRegistry) Remove(name, path string) {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.collections[name]
	if !ok || !set[key] {
		return
	}
	delete(set, key)
	r.persistLocked(name)
}

// Toggle flips membership and returns the new state, creating the
// collection on first add.
func (r *CollectionRegistry) Toggle(name, path string) bool {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.collections[name]
	if !ok {
		set = make(map[string]bool)
		r.collections[name] = set
	}
	if set[key] {
		delete(set, key)
	} else {
		set[key] = true
	}
	r.persistLocked(name)
	return set[key]
}

// Delete removes a collection and its backing file.
func (r *CollectionRegistry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[name]; !ok {
		return
	}
	delete(r.collections, name)
	if err := r.store.DeleteCollection(name); err != nil {
		r.logger.Errorf("collections: failed to delete %s: %v", name, err)
	}
}

// Lookup returns every collection containing the given path, sorted.
// Used for cross-references in the UI.
func (r *CollectionRegistry) Lookup(path string) []string {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	var names []string
	for name, set := range r.collections {
		if set[key] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// AutoGenerate groups release paths by genre, creating or extending one
// collection per genre. The collection name is the capitalized lowercase
// genre; releases without a genre are silently excluded. genreOf is
// typically ProbeGenre.
func (r *CollectionRegistry) AutoGenerate(releases []Release, genreOf func(Release) string) {
	byName := make(map[string][]string)
	for _, rel := range releases {
		genre := strings.TrimSpace(genreOf(rel))
		if genre == "" {
			continue
		}
		name := capitalize(strings.ToLower(genre))
		byName[name] = append(byName[name], rel.Path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, paths := range byName {
		set, ok := r.collections[name]
		if !ok {
			set = make(map[string]bool)
			r.collections[name] = set
		}
		changed := false
		for _, p := range paths {
			key := NormalizePath(p)
			if !set[key] {
				set[key] = true
				changed = true
			}
		}
		if changed || !ok {
			r.persistLocked(name)
		}
	}
}

func (r *CollectionRegistry) persistLocked(name string) {
	if err := r.store.SaveCollection(name, sortedKeys(r.collections[name])); err != nil {
		r.logger.Errorf("collections: failed to persist %s: %v", name, err)
	}
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
