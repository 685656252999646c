//go:build windows

package singleinstance

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// acquire owns the session-local mutex called name.
func acquire(name string) (func() error, error) {
	ptr, err := windows.UTF16PtrFromString(`Local\` + name)
	if err != nil {
		return nil, fmt.Errorf("guard name %q: %w", name, err)
	}

	h, err := windows.CreateMutex(nil, true, ptr)
	switch {
	case errors.Is(err, windows.ERROR_ALREADY_EXISTS):
		if h != 0 {
			windows.CloseHandle(h)
		}
		return nil, ErrAlreadyRunning
	case err != nil:
		return nil, fmt.Errorf("CreateMutex %s: %w", name, err)
	}

	return func() error { return windows.CloseHandle(h) }, nil
}
