package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
	"github.com/nmelis/beacon/internal/music"
)

// NewScanCommand creates the scan subcommand, a one-shot library rescan.
func NewScanCommand() *cobra.Command {
	var genres bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Rescan the music directory and update the release cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(genres)
		},
		SilenceUsage: true,
	}
	cmd.Flags().BoolVar(&genres, "genres", false,
		"regenerate genre collections from audio tags after scanning")
	return cmd
}

func runScan(genres bool) error {
	cfg, err := config.LoadAndValidateConfig(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	lg := logger.New(os.Stderr, cfg.LogLevel)
	store := music.NewStore(cfg.ConfigDir, cfg.CacheDir, lg)
	library := music.NewLibrary(cfg.Music, store, lg)
	defer library.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go reportProgress(library, done)

	releases, err := library.Rescan(ctx)
	close(done)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("\r%s %d releases under %s\n",
		color.GreenString("scanned"), len(releases), cfg.Music.RootDir)

	if genres {
		library.GenerateGenreCollections()
		names := library.Collections.Names()
		fmt.Printf("%s %d genre collections\n",
			color.GreenString("generated"), len(names))
	}
	return nil
}

func reportProgress(library *music.Library, done <-chan struct{}) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if scanning, p := library.ScanStatus(); scanning {
				fmt.Printf("\rscanning... %d directories (%.0f%%)   ", p.Dirs, p.Fraction()*100)
			}
		}
	}
}
