package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/launcher"
	"github.com/nmelis/beacon/internal/logger"
	"github.com/nmelis/beacon/internal/music"
	"github.com/nmelis/beacon/internal/tui"
)

// NewRunCommand creates the run subcommand, the default interactive mode.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive launcher palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLauncher()
		},
		SilenceUsage: true,
	}
	return cmd
}

func runLauncher() error {
	cfg, err := config.LoadAndValidateConfig(configPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// The palette owns the terminal, so logs go to a file.
	lg, err := logger.NewFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer lg.Close()

	store := music.NewStore(cfg.ConfigDir, cfg.CacheDir, lg)
	library := music.NewLibrary(cfg.Music, store, lg)
	defer library.Close()

	if cfg.Music.Watch {
		if err := library.Watch(); err != nil {
			lg.Warnf("run: music watcher unavailable: %v", err)
		}
	}

	registry := launcher.NewRegistry(cfg, lg)
	defer registry.Cleanup()

	plugins := []launcher.Plugin{
		launcher.NewMusicPlugin(library, lg),
		launcher.NewWifiPlugin(cfg.Wifi, lg),
		launcher.NewBluetoothPlugin(lg),
		launcher.NewKillPlugin(cfg.Processes, lg),
	}
	if cfg.Bookmarks.PlacesPath != "" {
		plugins = append(plugins, launcher.NewBookmarksPlugin(cfg.Bookmarks, lg))
	}
	for _, p := range plugins {
		if err := registry.Register(p); err != nil {
			return fmt.Errorf("register plugin %s: %w", p.Name(), err)
		}
	}

	lg.Infof("run: starting palette with %d plugins", len(plugins))
	return tui.Run(registry)
}
