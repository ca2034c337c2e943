package music

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nmelis/beacon/internal/logger"
)

const (
	// maxScanDepth bounds recursion relative to the scan root.
	maxScanDepth = 10
	// precountCap bounds the pre-count pass used for progress estimates.
	precountCap = 10000
	// progressEvery controls how often progress is reported, in directories.
	progressEvery = 10
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
	".ape":  true,
	".alac": true,
}

// Release is one directory of audio files discovered by a scan. Identity
// is Path; a new scan fully replaces the previous result set.
type Release struct {
	Title      string `json:"title"`
	Path       string `json:"path"`
	TrackCount int    `json:"track_count"`
}

// ScanProgress is reported periodically while a scan runs.
type ScanProgress struct {
	Dirs      int
	Estimated int
}

// Fraction returns directories-processed over directories-estimated,
// clamped to [0,1]. Zero estimate yields zero.
func (p ScanProgress) Fraction() float64 {
	if p.Estimated <= 0 {
		return 0
	}
	f := float64(p.Dirs) / float64(p.Estimated)
	if f > 1 {
		f = 1
	}
	return f
}

// Scanner walks a music root and emits one Release per directory.
type Scanner struct {
	root   string
	logger *logger.Logger
}

func NewScanner(root string, lg *logger.Logger) *Scanner {
	return &Scanner{root: root, logger: lg}
}

// Scan is the convenience wrapper: it collects every Release and returns
// them sorted by title, case-insensitive. A top-level failure yields an
// empty list rather than an error.
func (s *Scanner) Scan(ctx context.Context) []Release {
	var releases []Release
	s.Run(ctx, func(r Release) {
		releases = append(releases, r)
	}, nil)

	sortReleases(releases)
	return releases
}

// sortReleases orders by title, case-insensitive ascending.
func sortReleases(releases []Release) {
	sort.Slice(releases, func(i, j int) bool {
		return strings.ToLower(releases[i].Title) < strings.ToLower(releases[j].Title)
	})
}

// Run performs the walk, calling emit for each Release in traversal order
// and progress (when non-nil) every few directories. Cancellation is
// cooperative: the context is checked before each directory, and an
// in-flight directory read always completes. Releases emitted before
// cancellation remain valid.
func (s *Scanner) Run(ctx context.Context, emit func(Release), progress func(ScanProgress)) {
	estimated := s.countDirs()

	w := &walker{
		scanner:   s,
		ctx:       ctx,
		visited:   make(map[string]bool),
		estimated: estimated,
		emit:      emit,
		progress:  progress,
	}
	w.walk(s.root, 0)

	if progress != nil {
		progress(ScanProgress{Dirs: w.processed, Estimated: estimated})
	}
}

// countDirs estimates the directory count for progress reporting. The
// count is capped so a pathological tree cannot stall the scan before it
// starts.
func (s *Scanner) countDirs() int {
	count := 0
	filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			count++
			if count >= precountCap {
				return filepath.SkipAll
			}
		}
		return nil
	})
	return count
}

type walker struct {
	scanner   *Scanner
	ctx       context.Context
	visited   map[string]bool
	processed int
	estimated int
	emit      func(Release)
	progress  func(ScanProgress)
}

func (w *walker) walk(dir string, depth int) {
	if w.ctx != nil && w.ctx.Err() != nil {
		return
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.scanner.logger.Warnf("scan: cannot resolve %s: %v", dir, err)
		return
	}
	if w.visited[resolved] {
		return
	}
	w.visited[resolved] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.scanner.logger.Warnf("scan: cannot read %s: %v", dir, err)
		return
	}

	tracks := 0
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if !isDir && entry.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				w.scanner.logger.Warnf("scan: broken symlink %s: %v", path, err)
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if strings.HasPrefix(name, ".") {
				continue
			}
			if depth+1 > maxScanDepth {
				continue
			}
			w.walk(path, depth+1)
			continue
		}

		if audioExtensions[strings.ToLower(filepath.Ext(name))] {
			tracks++
		}
	}

	w.processed++
	if w.progress != nil && w.processed%progressEvery == 0 {
		w.progress(ScanProgress{Dirs: w.processed, Estimated: w.estimated})
	}

	if w.ctx != nil && w.ctx.Err() != nil {
		return
	}

	// The root itself is never a release.
	if depth > 0 {
		w.emit(Release{
			Title:      CleanTitle(filepath.Base(dir)),
			Path:       dir,
			TrackCount: tracks,
		})
	}
}
