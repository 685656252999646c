// Package hook intercepts keyboard input system-wide and reports chord
// events.
package hook

import "errors"

// ErrUnsupported is returned by New on platforms without a keyboard hook.
var ErrUnsupported = errors.New("keyboard hook is not supported on this platform")

// Manager owns the OS keyboard hook.
type Manager interface {
	// Start installs the hook and delivers decoded events to h until Stop.
	Start(h Handler) error
	// Stop removes the hook and resets the decoder.
	Stop() error
}
