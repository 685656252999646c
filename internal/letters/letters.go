// Package letters resolves which letter a process answers to.
package letters

import (
	"unicode"
	"unicode/utf8"

	"github.com/petems/letterswitch/internal/config"
)

// Unknown is returned for processes without a name.
const Unknown = '?'

// Resolver reads the current configuration on every call.
type Resolver struct {
	cfg config.Source
}

func New(cfg config.Source) *Resolver {
	return &Resolver{cfg: cfg}
}

// LetterFor returns the configured letter for processName, or the
// uppercased first character of the name.
func (r *Resolver) LetterFor(processName string) rune {
	if processName == "" {
		return Unknown
	}
	if l, ok := r.cfg.Current().LetterAssignment(processName); ok {
		return l
	}
	first, _ := utf8.DecodeRuneInString(processName)
	return unicode.ToUpper(first)
}

func (r *Resolver) IsExcluded(processName string) bool {
	return r.cfg.Current().IsExcluded(processName)
}

// IsCaptured reports whether the hook should swallow chords on letter.
func (r *Resolver) IsCaptured(letter rune) bool {
	return !r.cfg.Current().IsDisabled(letter)
}
