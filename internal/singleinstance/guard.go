// Package singleinstance keeps one switcher running per user session.
package singleinstance

import (
	"errors"
	"os"
	"os/user"
	"strings"
	"sync"
	"unicode"
)

// ErrAlreadyRunning is returned when another process holds the guard.
var ErrAlreadyRunning = errors.New("letterswitch is already running")

// Guard is held for the lifetime of the process. The OS drops it when the
// process exits.
type Guard struct {
	mu      sync.Mutex
	release func() error
}

// Acquire takes the guard of the current user.
func Acquire() (*Guard, error) {
	return AcquireNamed(Name(currentUser()))
}

func AcquireNamed(name string) (*Guard, error) {
	if name == "" {
		return nil, errors.New("guard name is required")
	}
	release, err := acquire(name)
	if err != nil {
		return nil, err
	}
	return &Guard{release: release}, nil
}

// Release gives the guard up. Further calls, and calls on nil, do nothing.
func (g *Guard) Release() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.release == nil {
		return nil
	}
	err := g.release()
	g.release = nil
	return err
}

// Name is the guard name for user: lowercase letters and digits, anything
// else replaced by '_'.
func Name(user string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, strings.TrimSpace(user))
	if clean == "" {
		clean = "default"
	}
	return "letterswitch-" + clean
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USERNAME", "USER"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
