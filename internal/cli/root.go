// Package cli implements the flaresentinel command line: `serve` runs the
// detection API and `classify` runs the classifier over image files offline.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"flaresentinel/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "flaresentinel",
		Short:   "Flame and smoke detection service for flare stack cameras",
		Version: config.NewBuildInfo().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewClassifyCommand(opts))

	return cmd
}
