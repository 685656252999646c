package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/output"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), opts.path())
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate the config file and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.path())
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), format, cfg)
		},
	})

	cmd.AddCommand(newExcludeCmd(opts))
	cmd.AddCommand(newCaptureCmd(opts))
	return cmd
}

func newExcludeCmd(opts *options) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "exclude <process>",
		Short: "Exclude a process from switching, or include it again with --remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := updateConfig(opts, func(c *config.Config) error {
				c.SetExcluded(args[0], !remove)
				return nil
			})
			if err != nil {
				return err
			}
			return printSetting(cmd, opts, "excluded_processes", cfg.ExcludedProcesses)
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the process from the exclusion list")
	return cmd
}

func newCaptureCmd(opts *options) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "capture <letter>",
		Short: "Capture chords on a letter, or pass them to the OS with --off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			letter, size := utf8.DecodeRuneInString(args[0])
			if size != len(args[0]) {
				return fmt.Errorf("%w: %q is not a single letter", config.ErrInvalid, args[0])
			}
			cfg, err := updateConfig(opts, func(c *config.Config) error {
				return c.SetKeyCaptured(letter, !off)
			})
			if err != nil {
				return err
			}
			return printSetting(cmd, opts, "disabled_keys", cfg.DisabledKeys)
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Let chords on the letter through to the OS")
	return cmd
}

// updateConfig edits the config file through a store so the edit is
// validated before it is written. A running switcher picks it up on reload.
func updateConfig(opts *options, fn func(*config.Config) error) (*config.Config, error) {
	store, err := config.NewStore(opts.path(), zerolog.Nop())
	if err != nil {
		return nil, err
	}
	if err := store.Update(fn); err != nil {
		return nil, err
	}
	return store.Current(), nil
}

func printSetting(cmd *cobra.Command, opts *options, key string, value interface{}) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), format, map[string]interface{}{key: value})
}
