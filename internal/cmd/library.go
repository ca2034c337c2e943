package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
	"github.com/nmelis/beacon/internal/music"
)

// NewLibraryCommand creates the library subcommand group for inspecting
// and editing the music library from the shell.
func NewLibraryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and edit the music library",
	}
	cmd.AddCommand(newLibraryListCommand())
	cmd.AddCommand(newLibraryStarCommand())
	cmd.AddCommand(newLibraryCollectionsCommand())
	return cmd
}

func openLibrary() (*music.Library, error) {
	cfg, err := config.LoadAndValidateConfig(configPath)
	if err != nil {
		return nil, err
	}
	lg := logger.Discard()
	store := music.NewStore(cfg.ConfigDir, cfg.CacheDir, lg)
	return music.NewLibrary(cfg.Music, store, lg), nil
}

func newLibraryListCommand() *cobra.Command {
	var starredOnly bool
	var collection string
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List cached releases, optionally filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			var releases []music.Release
			switch {
			case fuzzy && query != "":
				releases = library.FuzzySearch(query, 0.5)
			case strings.Contains(query, ":"):
				releases = library.AdvancedSearch(query)
			default:
				releases = library.Filter(music.FilterState{
					Query:      query,
					Starred:    starredOnly,
					Collection: collection,
				})
			}

			for _, r := range releases {
				marker := " "
				if library.Starred.IsStarred(r.Path) {
					marker = color.YellowString("★")
				}
				fmt.Printf("%s %-50s %3d tracks  %s\n", marker, r.Title, r.TrackCount, r.Path)
			}
			fmt.Printf("%d releases\n", len(releases))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&starredOnly, "starred", false, "only starred releases")
	cmd.Flags().StringVar(&collection, "collection", "", "only releases in this collection")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "use fuzzy title matching")
	return cmd
}

func newLibraryStarCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "star <path>",
		Short: "Toggle the star on a release path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			if library.Starred.Toggle(args[0]) {
				fmt.Printf("starred %s\n", args[0])
			} else {
				fmt.Printf("unstarred %s\n", args[0])
			}
			return nil
		},
		SilenceUsage: true,
	}
}

func newLibraryCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage release collections",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List collections and their sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			for _, name := range library.Collections.Names() {
				paths, _ := library.Collections.Get(name)
				fmt.Printf("%-30s %d releases\n", name, len(paths))
			}
			return nil
		},
		SilenceUsage: true,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <path>",
		Short: "Add a release path to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			library.Collections.Add(args[0], args[1])
			return nil
		},
		SilenceUsage: true,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name> <path>",
		Short: "Remove a release path from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			library.Collections.Remove(args[0], args[1])
			return nil
		},
		SilenceUsage: true,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "of <path>",
		Short: "List the collections containing a release path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			for _, name := range library.Collections.Lookup(args[0]) {
				fmt.Println(name)
			}
			return nil
		},
		SilenceUsage: true,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			library, err := openLibrary()
			if err != nil {
				return err
			}
			defer library.Close()

			if !library.Collections.Exists(args[0]) {
				return fmt.Errorf("no collection named %q", args[0])
			}
			library.Collections.Delete(args[0])
			return nil
		},
		SilenceUsage: true,
	})

	return cmd
}
