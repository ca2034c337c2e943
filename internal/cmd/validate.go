package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nmelis/beacon/internal/config"
)

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config file for errors",
		Long: `Load the config file and run the same validation the launcher does
at startup. Exit code: 0 if valid, 1 if errors found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateConfig(configPath); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", color.GreenString("valid"), configPath)
			return nil
		},
		SilenceUsage: true,
	}
}
