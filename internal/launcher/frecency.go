package launcher

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nmelis/beacon/internal/logger"
)

// frecencyHalfLife is how long it takes a launch's recency weight to halve.
const frecencyHalfLife = 7 * 24 * time.Hour

// usageRecord tracks how often and how recently one item was launched.
type usageRecord struct {
	LaunchCount  int       `json:"launch_count"`
	LastLaunched time.Time `json:"last_launched"`
}

// Frecency ranks general palette results by combined launch frequency and
// recency, persisted as a JSON file under the config dir.
type Frecency struct {
	mu      sync.RWMutex
	records map[string]*usageRecord
	file    string
	logger  *logger.Logger
}

func NewFrecency(dataDir string, lg *logger.Logger) (*Frecency, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	f := &Frecency{
		records: make(map[string]*usageRecord),
		file:    filepath.Join(dataDir, "frecency.json"),
		logger:  lg,
	}
	f.load()
	return f, nil
}

// RecordLaunch notes that the item behind key was just activated.
func (f *Frecency) RecordLaunch(key string) {
	if key == "" {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	record, exists := f.records[key]
	if !exists {
		record = &usageRecord{}
		f.records[key] = record
	}
	record.LaunchCount++
	record.LastLaunched = time.Now()

	if err := f.save(); err != nil {
		f.logger.Warnf("frecency: failed to save: %v", err)
	}
}

// Score returns the frecency weight for key; zero for never-launched keys.
func (f *Frecency) Score(key string) float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	record, exists := f.records[key]
	if !exists {
		return 0
	}

	halfLives := float64(time.Since(record.LastLaunched)) / float64(frecencyHalfLife)
	decay := math.Pow(0.5, halfLives)
	return float64(record.LaunchCount) * decay
}

// Forget drops the record for key.
func (f *Frecency) Forget(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.records, key)
	if err := f.save(); err != nil {
		f.logger.Warnf("frecency: failed to save: %v", err)
	}
}

func (f *Frecency) load() {
	data, err := os.ReadFile(f.file)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warnf("frecency: failed to load: %v", err)
		}
		return
	}

	var records map[string]*usageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		f.logger.Warnf("frecency: malformed data file: %v", err)
		return
	}
	f.records = records
}

func (f *Frecency) save() error {
	data, err := json.MarshalIndent(f.records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.file, data, 0644)
}
