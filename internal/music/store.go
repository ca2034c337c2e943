package music

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmelis/beacon/internal/filelock"
	"github.com/nmelis/beacon/internal/logger"
)

// Store persists the three library resources as JSON files: releases under
// the cache dir, starred paths and collections under the config dir. Loads
// never fail to the caller; a missing or malformed file degrades to the
// empty state with a log line.
type Store struct {
	releasesFile   string
	starredFile    string
	collectionsDir string
	logger         *logger.Logger
}

func NewStore(configDir, cacheDir string, lg *logger.Logger) *Store {
	return &Store{
		releasesFile:   filepath.Join(cacheDir, "releases.json"),
		starredFile:    filepath.Join(configDir, "starred.json"),
		collectionsDir: filepath.Join(configDir, "collections"),
		logger:         lg,
	}
}

// releaseRecord tolerates the legacy camelCase track count key.
type releaseRecord struct {
	Title            string `json:"title"`
	Path             string `json:"path"`
	TrackCount       *int   `json:"track_count"`
	LegacyTrackCount *int   `json:"trackCount"`
}

// LoadReleases reads the cached release list. Missing file or malformed
// JSON both yield an empty slice.
func (s *Store) LoadReleases() []Release {
	data, err := os.ReadFile(s.releasesFile)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("store: cannot read %s: %v", s.releasesFile, err)
		}
		return []Release{}
	}

	var records []releaseRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warnf("store: malformed releases cache %s: %v", s.releasesFile, err)
		return []Release{}
	}

	releases := make([]Release, 0, len(records))
	for _, rec := range records {
		count := 0
		switch {
		case rec.TrackCount != nil:
			count = *rec.TrackCount
		case rec.LegacyTrackCount != nil:
			count = *rec.LegacyTrackCount
		}
		releases = append(releases, Release{
			Title:      rec.Title,
			Path:       rec.Path,
			TrackCount: count,
		})
	}
	return releases
}

// SaveReleases replaces the release cache atomically (temp file + rename).
func (s *Store) SaveReleases(releases []Release) error {
	if releases == nil {
		releases = []Release{}
	}
	data, err := json.MarshalIndent(releases, "", "  ")
	if err != nil {
		return err
	}
	return filelock.LockAndWrite(s.releasesFile, data)
}

type starredFile struct {
	Paths []string `json:"paths"`
}

// LoadStarred reads the starred path keys. Missing file, missing paths
// field and malformed JSON all resolve to an empty list.
func (s *Store) LoadStarred() []string {
	data, err := os.ReadFile(s.starredFile)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("store: cannot read %s: %v", s.starredFile, err)
		}
		return []string{}
	}

	var f starredFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warnf("store: malformed starred file %s: %v", s.starredFile, err)
		return []string{}
	}
	if f.Paths == nil {
		return []string{}
	}
	return f.Paths
}

// SaveStarred rewrites the starred file in full.
func (s *Store) SaveStarred(paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	data, err := json.MarshalIndent(starredFile{Paths: paths}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.starredFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.starredFile, data, 0644)
}

// LoadCollections enumerates <config>/collections/*.json. A file that
// fails to parse is skipped; non-array content yields an empty collection
// rather than an error.
func (s *Store) LoadCollections() map[string][]string {
	collections := make(map[string][]string)

	entries, err := os.ReadDir(s.collectionsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("store: cannot read collections dir %s: %v", s.collectionsDir, err)
		}
		return collections
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(s.collectionsDir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warnf("store: cannot read collection %s: %v", path, err)
			continue
		}

		var paths []string
		if err := json.Unmarshal(data, &paths); err != nil {
			var probe interface{}
			if json.Unmarshal(data, &probe) == nil {
				// Valid JSON, wrong shape: keep the collection, empty.
				collections[name] = []string{}
			} else {
				s.logger.Warnf("store: skipping unparseable collection %s: %v", path, err)
			}
			continue
		}
		if paths == nil {
			paths = []string{}
		}
		collections[name] = paths
	}
	return collections
}

// SaveCollection rewrites one collection file in full.
func (s *Store) SaveCollection(name string, paths []string) error {
	if paths == nil {
		paths = []string{}
	}
	data, err := json.MarshalIndent(paths, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.collectionsDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.collectionsDir, name+".json"), data, 0644)
}

// DeleteCollection removes a collection's backing file.
func (s *Store) DeleteCollection(name string) error {
	err := os.Remove(filepath.Join(s.collectionsDir, name+".json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
