// Package cmd wires the beacon CLI together.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var configPath string

// NewRootCommand creates and returns the root cobra command for beacon.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "beacon",
		Short: "Keyboard-driven launcher with a music library",
		Long: `Beacon is a terminal launcher palette. A plain query searches across
plugin entries; trigger prefixes (wifi, bt, kill, bm, music) open a
plugin's own view. The music plugin maintains a scanned library of
releases with stars and collections.`,
		Version:      Version,
		SilenceUsage: true,
		// Bare "beacon" opens the palette.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLauncher()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		"~/.config/beacon/config.toml", "path to the config file")

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewLibraryCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
