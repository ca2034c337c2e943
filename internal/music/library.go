package music

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
)

// ErrScanInProgress is returned when a rescan is requested while another
// one is still running. Timer-driven refreshes use it to avoid piling up.
var ErrScanInProgress = errors.New("music: scan already in progress")

// Library ties the pipeline together: it loads the cached release list at
// construction and serves reads from memory until a rescan replaces the
// set wholesale.
type Library struct {
	cfg    config.MusicConfig
	store  *Store
	logger *logger.Logger

	Starred     *StarRegistry
	Collections *CollectionRegistry
	engine      *Engine

	mu       sync.RWMutex
	releases []Release

	scanMu   sync.Mutex
	scanning bool
	progress ScanProgress

	watcher *Watcher
}

func NewLibrary(cfg config.MusicConfig, store *Store, lg *logger.Logger) *Library {
	starred := NewStarRegistry(store, lg)
	collections := NewCollectionRegistry(store, lg)

	return &Library{
		cfg:         cfg,
		store:       store,
		logger:      lg,
		Starred:     starred,
		Collections: collections,
		engine:      NewEngine(starred, collections),
		releases:    store.LoadReleases(),
	}
}

// Releases returns the current in-memory release list.
func (l *Library) Releases() []Release {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Release, len(l.releases))
	copy(out, l.releases)
	return out
}

// Filter applies the filter state to the current release list.
func (l *Library) Filter(state FilterState) []Release {
	return l.engine.Filter(l.Releases(), state)
}

// AdvancedSearch runs a field-qualified search over the current list.
func (l *Library) AdvancedSearch(query string) []Release {
	return l.engine.AdvancedSearch(l.Releases(), query)
}

// FuzzySearch runs an edit-distance search over the current list.
func (l *Library) FuzzySearch(query string, threshold float64) []Release {
	return l.engine.FuzzySearch(l.Releases(), query, threshold)
}

// Rescan walks the music root, replaces the cached release set and
// persists it. Only one scan runs at a time; a second caller gets
// ErrScanInProgress instead of a queued duplicate.
func (l *Library) Rescan(ctx context.Context) ([]Release, error) {
	l.scanMu.Lock()
	if l.scanning {
		l.scanMu.Unlock()
		return nil, ErrScanInProgress
	}
	l.scanning = true
	l.progress = ScanProgress{}
	l.scanMu.Unlock()

	defer func() {
		l.scanMu.Lock()
		l.scanning = false
		l.scanMu.Unlock()
	}()

	scanner := NewScanner(l.cfg.RootDir, l.logger)
	started := time.Now()

	var releases []Release
	scanner.Run(ctx, func(r Release) {
		releases = append(releases, r)
	}, func(p ScanProgress) {
		l.scanMu.Lock()
		l.progress = p
		l.scanMu.Unlock()
	})

	sortReleases(releases)

	l.mu.Lock()
	l.releases = releases
	l.mu.Unlock()

	if err := l.store.SaveReleases(releases); err != nil {
		l.logger.Errorf("music: failed to persist releases: %v", err)
	}
	l.logger.Infof("music: scanned %d releases in %v", len(releases), time.Since(started).Round(time.Millisecond))

	return releases, nil
}

// ScanStatus reports whether a scan is running and its latest progress.
func (l *Library) ScanStatus() (bool, ScanProgress) {
	l.scanMu.Lock()
	defer l.scanMu.Unlock()
	return l.scanning, l.progress
}

// GenerateGenreCollections builds auto-collections from tag metadata for
// the current release set.
func (l *Library) GenerateGenreCollections() {
	l.Collections.AutoGenerate(l.Releases(), ProbeGenre)
}

// Watch starts the fsnotify watcher, scheduling background rescans when
// the music root changes. No-op when already watching.
func (l *Library) Watch() error {
	if l.watcher != nil {
		return nil
	}

	delay := time.Duration(l.cfg.RescanDelay) * time.Second
	w, err := NewWatcher(l.cfg.RootDir, delay, func() {
		if _, err := l.Rescan(context.Background()); err != nil && !errors.Is(err, ErrScanInProgress) {
			l.logger.Errorf("music: watch rescan failed: %v", err)
		}
	}, l.logger)
	if err != nil {
		return err
	}
	l.watcher = w
	return nil
}

// Close stops the watcher, if any.
func (l *Library) Close() error {
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}
