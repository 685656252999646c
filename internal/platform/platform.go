// Package platform wraps the OS window primitives the switcher needs behind
// the Desktop interface.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported is returned by New on platforms without a Desktop.
	ErrUnsupported = errors.New("window switching is not supported on this platform")
	// ErrWindowGone means the handle no longer names a live window.
	ErrWindowGone = errors.New("window no longer exists")
	// ErrProcessGone means the owning process exited or cannot be opened.
	ErrProcessGone = errors.New("process no longer exists")
	// ErrBlankTitle marks windows that are never offered for switching.
	ErrBlankTitle = errors.New("window has no title")
)

// Handle identifies a top-level window. It may go stale at any time.
type Handle uintptr

func (h Handle) String() string { return fmt.Sprintf("0x%x", uintptr(h)) }

// Window is an immutable snapshot of one switchable window.
type Window struct {
	Handle      Handle `json:"hwnd" yaml:"hwnd"`
	Title       string `json:"title" yaml:"title"`
	PID         uint32 `json:"pid" yaml:"pid"`
	ProcessName string `json:"process" yaml:"process"`
}

// ShowCmd is a ShowWindow command.
type ShowCmd int32

const (
	ShowNormal   ShowCmd = 5 // SW_SHOW
	ShowMinimize ShowCmd = 6 // SW_MINIMIZE
	ShowRestore  ShowCmd = 9 // SW_RESTORE
)

// Desktop is the set of OS calls used to find, raise and minimize windows.
// Boolean results report whether the OS accepted the call.
type Desktop interface {
	// EnumWindows lists top-level windows in z-order.
	EnumWindows() ([]Handle, error)
	IsVisible(h Handle) bool
	Title(h Handle) (string, error)
	// ThreadProcessID returns the owning thread and process.
	ThreadProcessID(h Handle) (tid uint32, pid uint32, err error)
	ProcessName(pid uint32) (string, error)

	Foreground() (Handle, bool)
	SetForeground(h Handle) bool
	IsMinimized(h Handle) bool
	Show(h Handle, cmd ShowCmd) bool
	BringToTop(h Handle) bool

	CurrentThreadID() uint32
	AttachThreadInput(from, to uint32, attach bool) bool
}

// Describe resolves a handle into a Window.
func Describe(d Desktop, h Handle) (Window, error) {
	title, err := d.Title(h)
	if err != nil {
		return Window{}, err
	}
	if strings.TrimSpace(title) == "" {
		return Window{}, ErrBlankTitle
	}

	_, pid, err := d.ThreadProcessID(h)
	if err != nil {
		return Window{}, err
	}

	name, err := d.ProcessName(pid)
	if err != nil {
		return Window{}, err
	}

	return Window{Handle: h, Title: title, PID: pid, ProcessName: name}, nil
}
