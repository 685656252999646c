// Package settings opens the configuration and log files in the user's
// default application.
package settings

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/petems/letterswitch/internal/config"
)

type Opener struct {
	configPath string
	log        zerolog.Logger
	// start launches a command without waiting for it.
	start func(name string, args ...string) error
}

func New(configPath string, log zerolog.Logger) *Opener {
	return &Opener{configPath: configPath, log: log, start: startDetached}
}

// Open shows the config file, writing the defaults first if it does not
// exist yet.
func (o *Opener) Open() {
	if _, err := os.Stat(o.configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Default().Save(o.configPath); err != nil {
			o.log.Error().Err(err).Str("path", o.configPath).Msg("Failed to create config file")
			return
		}
	}

	if err := o.OpenPath(o.configPath); err != nil {
		o.log.Error().Err(err).Msg("Failed to open settings")
	}
}

// OpenPath opens path with the OS default handler.
func (o *Opener) OpenPath(path string) error {
	name, args := openCommand(runtime.GOOS, path)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	o.log.Info().Str("path", path).Msg("Opened")
	return nil
}

func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	hideWindow(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
