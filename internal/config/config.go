package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	ConfigDir string          `toml:"config_dir"`
	CacheDir  string          `toml:"cache_dir"`
	LogFile   string          `toml:"log_file"`
	LogLevel  string          `toml:"log_level"`
	Launcher  LauncherConfig  `toml:"launcher"`
	Music     MusicConfig     `toml:"music"`
	Wifi      WifiConfig      `toml:"wifi"`
	Processes ProcessesConfig `toml:"processes"`
	Bookmarks BookmarksConfig `toml:"bookmarks"`
}

type LauncherConfig struct {
	MaxResults      int  `toml:"max_results"`
	SearchCacheSize int  `toml:"search_cache_size"`
	FuzzySearch     bool `toml:"fuzzy_search"`
}

type MusicConfig struct {
	RootDir     string `toml:"root_dir"`
	Watch       bool   `toml:"watch"`
	RescanDelay int    `toml:"rescan_delay"` // seconds between an fs event and the rescan it schedules
}

type WifiConfig struct {
	Interface string `toml:"interface"`
}

type ProcessesConfig struct {
	RefreshInterval int `toml:"refresh_interval"` // seconds
}

type BookmarksConfig struct {
	PlacesPath string `toml:"places_path"`
	MaxResults int    `toml:"max_results"`
}

var DefaultConfig = Config{
	ConfigDir: "~/.config/beacon",
	CacheDir:  "~/.cache/beacon",
	LogFile:   "~/.cache/beacon/beacon.log",
	LogLevel:  "info",
	Launcher: LauncherConfig{
		MaxResults:      50,
		SearchCacheSize: 100,
		FuzzySearch:     true,
	},
	Music: MusicConfig{
		RootDir:     "~/Music",
		Watch:       true,
		RescanDelay: 5,
	},
	Wifi: WifiConfig{
		Interface: "wlan0",
	},
	Processes: ProcessesConfig{
		RefreshInterval: 5,
	},
	Bookmarks: BookmarksConfig{
		PlacesPath: "",
		MaxResults: 100,
	},
}

// LoadConfig reads a TOML config from path, falling back to DefaultConfig
// when the file does not exist. Paths are tilde-expanded and environment
// overrides (optionally sourced from <config_dir>/beacon.env) applied.
func LoadConfig(path string) (*Config, error) {
	expandedPath := expandPath(path)

	cfg := DefaultConfig
	if _, err := os.Stat(expandedPath); err == nil {
		data, err := os.ReadFile(expandedPath)
		if err != nil {
			return nil, err
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.ConfigDir = expandPath(cfg.ConfigDir)
	cfg.CacheDir = expandPath(cfg.CacheDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.Music.RootDir = expandPath(cfg.Music.RootDir)
	cfg.Bookmarks.PlacesPath = expandPath(cfg.Bookmarks.PlacesPath)

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// LoadAndValidateConfig loads and validates in one step.
func LoadAndValidateConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the config file. An env
// file alongside the config is loaded first so overrides survive restarts.
func applyEnvOverrides(cfg *Config) {
	_ = godotenv.Load(filepath.Join(cfg.ConfigDir, "beacon.env"))

	if v := os.Getenv("BEACON_MUSIC_DIR"); v != "" {
		cfg.Music.RootDir = expandPath(v)
	}
	if v := os.Getenv("BEACON_PLACES_PATH"); v != "" {
		cfg.Bookmarks.PlacesPath = expandPath(v)
	}
	if v := os.Getenv("BEACON_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c *Config) Validate() error {
	if err := c.validateLauncher(); err != nil {
		return err
	}
	if err := c.validateMusic(); err != nil {
		return err
	}
	if err := c.validateProcesses(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLauncher() error {
	l := c.Launcher
	if l.MaxResults < 1 || l.MaxResults > 1000 {
		return fmt.Errorf("invalid max_results: %d (must be 1-1000)", l.MaxResults)
	}
	if l.SearchCacheSize < 10 || l.SearchCacheSize > 10000 {
		return fmt.Errorf("invalid search_cache_size: %d (must be 10-10000)", l.SearchCacheSize)
	}
	return nil
}

func (c *Config) validateMusic() error {
	m := c.Music
	if m.RootDir == "" {
		return fmt.Errorf("music root_dir must not be empty")
	}
	if m.RescanDelay < 1 || m.RescanDelay > 3600 {
		return fmt.Errorf("invalid rescan_delay: %d (must be 1-3600s)", m.RescanDelay)
	}
	return nil
}

func (c *Config) validateProcesses() error {
	p := c.Processes
	if p.RefreshInterval < 1 || p.RefreshInterval > 300 {
		return fmt.Errorf("invalid refresh_interval: %d (must be 1-300s)", p.RefreshInterval)
	}
	return nil
}

// ValidateConfig loads the config at path and validates it.
func ValidateConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		usr, err := user.Current()
		if err == nil {
			return filepath.Join(usr.HomeDir, path[1:])
		}
	}
	return path
}
