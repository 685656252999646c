// Package registry keeps a short-lived cache of switchable windows.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/petems/letterswitch/internal/platform"
)

// DefaultTTL is how long an enumeration is reused.
const DefaultTTL = 500 * time.Millisecond

// LetterResolver maps processes to letters.
type LetterResolver interface {
	LetterFor(processName string) rune
	IsExcluded(processName string) bool
}

type Config struct {
	Desktop platform.Desktop
	Letters LetterResolver
	Logger  zerolog.Logger
	// TTL defaults to DefaultTTL.
	TTL time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Registry is safe for concurrent use.
type Registry struct {
	desktop platform.Desktop
	letters LetterResolver
	log     zerolog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu          sync.Mutex
	windows     []platform.Window
	refreshedAt time.Time
}

func New(cfg Config) *Registry {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		desktop: cfg.Desktop,
		letters: cfg.Letters,
		log:     cfg.Logger,
		ttl:     cfg.TTL,
		now:     cfg.Now,
	}
}

// Refresh re-enumerates windows unconditionally. On failure the previous
// cache and its timestamp are kept.
func (r *Registry) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshLocked()
}

func (r *Registry) refreshLocked() error {
	handles, err := r.desktop.EnumWindows()
	if err != nil {
		return fmt.Errorf("enumerate windows: %w", err)
	}

	seen := make(map[platform.Handle]struct{}, len(handles))
	windows := make([]platform.Window, 0, len(handles))
	for _, h := range handles {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		if !r.desktop.IsVisible(h) {
			continue
		}
		w, err := platform.Describe(r.desktop, h)
		if err != nil {
			if !errors.Is(err, platform.ErrBlankTitle) {
				r.log.Debug().Err(err).Stringer("hwnd", h).Msg("Skipping window")
			}
			continue
		}
		windows = append(windows, w)
	}

	r.windows = windows
	r.refreshedAt = r.now()
	return nil
}

func (r *Registry) ensureFreshLocked() {
	if !r.refreshedAt.IsZero() && r.now().Sub(r.refreshedAt) < r.ttl {
		return
	}
	if err := r.refreshLocked(); err != nil {
		r.log.Warn().Err(err).Msg("Window refresh failed, using cached list")
	}
}

// All returns every switchable window in enumeration order.
func (r *Registry) All() []platform.Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureFreshLocked()
	return append([]platform.Window(nil), r.windows...)
}

// ByLetter returns the non-excluded windows whose process resolves to
// letter, in enumeration order.
func (r *Registry) ByLetter(letter rune) []platform.Window {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureFreshLocked()

	letter = unicode.ToUpper(letter)
	var out []platform.Window
	for _, w := range r.windows {
		if r.letters.IsExcluded(w.ProcessName) {
			continue
		}
		if unicode.ToUpper(r.letters.LetterFor(w.ProcessName)) == letter {
			out = append(out, w)
		}
	}
	return out
}

// Entry is a window together with its resolved letter.
type Entry struct {
	platform.Window `yaml:",inline"`
	Letter          string `json:"letter" yaml:"letter"`
	Excluded        bool   `json:"excluded" yaml:"excluded"`
}

// Entries returns every cached window with its letter, excluded ones
// included and flagged.
func (r *Registry) Entries() []Entry {
	windows := r.All()

	out := make([]Entry, 0, len(windows))
	for _, w := range windows {
		out = append(out, Entry{
			Window:   w,
			Letter:   string(r.letters.LetterFor(w.ProcessName)),
			Excluded: r.letters.IsExcluded(w.ProcessName),
		})
	}
	return out
}
