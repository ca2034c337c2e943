package music

import (
	"sort"
	"sync"

	"github.com/nmelis/beacon/internal/logger"
)

// StarRegistry is the set of starred path keys. Keys are normalized before
// storage or comparison, so stars survive rescans that replace the Release
// objects. Every mutation rewrites the backing file in full.
type StarRegistry struct {
	mu     sync.Mutex
	paths  map[string]bool
	store  *Store
	logger *logger.Logger
}

func NewStarRegistry(store *Store, lg *logger.Logger) *StarRegistry {
	r := &StarRegistry{
		paths:  make(map[string]bool),
		store:  store,
		logger: lg,
	}
	for _, p := range store.LoadStarred() {
		r.paths[NormalizePath(p)] = true
	}
	return r
}

// Toggle flips membership for path and returns the new state.
func (r *StarRegistry) Toggle(path string) bool {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paths[key] {
		delete(r.paths, key)
	} else {
		r.paths[key] = true
	}
	r.persistLocked()
	return r.paths[key]
}

// Add stars a path.
func (r *StarRegistry) Add(path string) {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.paths[key] {
		return
	}
	r.paths[key] = true
	r.persistLocked()
}

// Remove unstars a path.
func (r *StarRegistry) Remove(path string) {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.paths[key] {
		return
	}
	delete(r.paths, key)
	r.persistLocked()
}

// IsStarred reports membership for a path (normalized before the check).
func (r *StarRegistry) IsStarred(path string) bool {
	key := NormalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paths[key]
}

// All returns the starred keys, sorted for stable output.
func (r *StarRegistry) All() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked()
}

func (r *StarRegistry) sortedLocked() []string {
	keys := make([]string, 0, len(r.paths))
	for k := range r.paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *StarRegistry) persistLocked() {
	if err := r.store.SaveStarred(r.sortedLocked()); err != nil {
		r.logger.Errorf("starred: failed to persist: %v", err)
	}
}
