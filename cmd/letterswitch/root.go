package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/output"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	format     string
}

func (o *options) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "letterswitch",
		Short: "Switch windows by holding a modifier and pressing the app's first letter",
		Long: "letterswitch runs in the tray and intercepts modifier + letter chords system-wide.\n" +
			"Each chord activates a window whose process name starts with that letter, cycling on repeats.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := output.ParseFormat(opts.format)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}

	root.Version = fmt.Sprintf("%s (commit: %s)", Version, Commit)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: per-user config directory)")
	root.PersistentFlags().StringVar(&opts.format, "format", "yaml", "Output format: yaml, json")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}
