package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/letters"
	"github.com/petems/letterswitch/internal/output"
	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/registry"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List switchable windows grouped by letter",
		Long: "List every visible titled window with the letter that reaches it.\n" +
			"Windows of excluded processes are flagged, letters passed to the OS are not captured.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.path())
			if err != nil {
				return err
			}
			desktop, err := platform.New()
			if err != nil {
				return err
			}
			return printList(cmd, opts, desktop, cfg)
		},
	}
}

func printList(cmd *cobra.Command, opts *options, desktop platform.Desktop, cfg *config.Config) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	resolver := letters.New(config.Static(cfg))
	reg := registry.New(registry.Config{
		Desktop: desktop,
		Letters: resolver,
		Logger:  zerolog.Nop(),
	})
	if err := reg.Refresh(); err != nil {
		return err
	}

	groups := output.GroupByLetter(reg.Entries(), resolver.IsCaptured)
	return output.Print(cmd.OutOrStdout(), format, groups)
}
