// Package assign changes process letters from a keyboard chord.
package assign

import (
	"github.com/rs/zerolog"

	"github.com/petems/letterswitch/internal/config"
)

// Updater applies a validated, persisted edit to the configuration.
type Updater interface {
	Update(fn func(*config.Config) error) error
}

// ChordAssigner gives the pressed letter to a process. Pressing the letter
// the process already has removes the assignment, so it falls back to its
// first character.
type ChordAssigner struct {
	store Updater
	log   zerolog.Logger
}

func New(store Updater, log zerolog.Logger) *ChordAssigner {
	return &ChordAssigner{store: store, log: log}
}

func (c *ChordAssigner) Assign(processName string, letter rune) {
	if processName == "" {
		return
	}

	reset := false
	err := c.store.Update(func(cfg *config.Config) error {
		if cur, ok := cfg.LetterAssignment(processName); ok {
			if l, valid := config.NormalizeLetter(letter); valid && l == cur {
				reset = true
				cfg.RemoveLetter(processName)
				return nil
			}
		}
		return cfg.SetLetter(processName, letter)
	})
	if err != nil {
		c.log.Error().Err(err).Str("process", processName).Msg("Failed to assign letter")
		return
	}

	if reset {
		c.log.Info().Str("process", processName).Msg("Reset letter mapping")
		return
	}
	c.log.Info().Str("process", processName).Str("letter", string(letter)).Msg("Assigned letter")
}
