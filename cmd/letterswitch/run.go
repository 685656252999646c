package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petems/letterswitch/internal/actuator"
	"github.com/petems/letterswitch/internal/app"
	"github.com/petems/letterswitch/internal/assign"
	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/hook"
	"github.com/petems/letterswitch/internal/letters"
	"github.com/petems/letterswitch/internal/logging"
	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/registry"
	"github.com/petems/letterswitch/internal/settings"
	"github.com/petems/letterswitch/internal/singleinstance"
	"github.com/petems/letterswitch/internal/tray"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the switcher in the tray (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), opts)
		},
	}
}

func runDaemon(parent context.Context, opts *options) error {
	// Load config from AppData / Library / XDG
	cfg, err := config.Load(opts.path())
	if err != nil {
		log := logging.New()
		log.Error().Err(err).Str("path", opts.path()).Msg("Failed to load config")
		return err
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)
	store, err := config.NewStore(opts.path(), log.With().Str("component", "config").Logger())
	if err != nil {
		return err
	}

	guard, err := singleinstance.Acquire()
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		log.Warn().Msg("letterswitch is already running")
		return err
	}
	if err != nil {
		log.Warn().Err(err).Msg("Single instance check failed, continuing")
	}
	defer guard.Release()

	desktop, err := platform.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize desktop access")
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	resolver := letters.New(store)
	windows := registry.New(registry.Config{
		Desktop: desktop,
		Letters: resolver,
		Logger:  log.With().Str("component", "registry").Logger(),
	})
	act := actuator.New(actuator.Config{
		Desktop: desktop,
		Logger:  log.With().Str("component", "actuator").Logger(),
	})
	opener := settings.New(store.Path(), log)

	// Create tray UI first, the engine draws its overlay through it
	trayUI := tray.New(tray.Config{
		Settings: store,
		Windows:  windows,
		Letters:  resolver,
		Opener:   opener,
		Logger:   log.With().Str("component", "tray").Logger(),
		Version:  Version,
		Commit:   Commit,
	})

	application := app.New(app.Config{
		Windows:        windows,
		Letters:        resolver,
		Actuator:       act,
		Settings:       store,
		Logger:         log.With().Str("component", "app").Logger(),
		Overlay:        trayUI,
		Assigner:       assign.New(store, log),
		SettingsOpener: opener,
	})

	hooks, err := hook.New(hook.NewDecoder(store), log.With().Str("component", "hook").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize keyboard hook")
	}
	if err := hooks.Start(func(ev hook.Event) { application.Submit(ev) }); err != nil {
		log.Fatal().Err(err).Msg("Failed to install keyboard hook")
	}
	defer func() {
		if err := hooks.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to remove keyboard hook")
		}
	}()

	go func() {
		if err := application.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Switch engine stopped")
		}
	}()
	go func() {
		if err := store.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("Config watcher stopped")
		}
	}()

	log.Info().Str("config", store.Path()).Str("version", Version).Msg("letterswitch starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			log.Info().Msg("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Tray error")
		return err
	}
	log.Info().Msg("letterswitch stopped")
	return nil
}
