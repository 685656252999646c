//go:build windows

package platform

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procIsIconic             = user32.NewProc("IsIconic")
	procShowWindow           = user32.NewProc("ShowWindow")
	procBringWindowToTop     = user32.NewProc("BringWindowToTop")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
	procAttachThreadInput    = user32.NewProc("AttachThreadInput")
)

// The runtime caps the number of callbacks a process may create, so the
// enumeration callback is built once and fed through enumHandles.
var (
	enumMu      sync.Mutex
	enumHandles []Handle
	enumProc    = windows.NewCallback(func(hwnd windows.HWND, _ uintptr) uintptr {
		enumHandles = append(enumHandles, Handle(hwnd))
		return 1
	})
)

type winDesktop struct{}

// New returns the Win32 desktop.
func New() (Desktop, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	return winDesktop{}, nil
}

func (winDesktop) EnumWindows() ([]Handle, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumHandles = nil
	if err := windows.EnumWindows(enumProc, nil); err != nil {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}

	out := enumHandles
	enumHandles = nil
	return out, nil
}

func (winDesktop) IsVisible(h Handle) bool {
	return windows.IsWindowVisible(windows.HWND(h))
}

func (winDesktop) Title(h Handle) (string, error) {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if int32(n) <= 0 {
		if !windows.IsWindow(windows.HWND(h)) {
			return "", ErrWindowGone
		}
		return "", nil
	}

	buf := make([]uint16, n+1)
	got, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if got == 0 && !windows.IsWindow(windows.HWND(h)) {
		return "", fmt.Errorf("GetWindowTextW %s: %w", h, ErrWindowGone)
	}
	return windows.UTF16ToString(buf[:got]), nil
}

func (winDesktop) ThreadProcessID(h Handle) (uint32, uint32, error) {
	var pid uint32
	tid, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid)
	if tid == 0 {
		return 0, 0, fmt.Errorf("GetWindowThreadProcessId %s: %v: %w", h, err, ErrWindowGone)
	}
	return tid, pid, nil
}

func (winDesktop) ProcessName(pid uint32) (string, error) {
	return processName(pid)
}

func (winDesktop) Foreground() (Handle, bool) {
	h := windows.GetForegroundWindow()
	return Handle(h), h != 0
}

func (winDesktop) SetForeground(h Handle) bool {
	r, _, _ := procSetForegroundWindow.Call(uintptr(h))
	return r != 0
}

func (winDesktop) IsMinimized(h Handle) bool {
	r, _, _ := procIsIconic.Call(uintptr(h))
	return r != 0
}

// Show returns true when the call reached a live window. ShowWindow's own
// result is the previous visibility, not success.
func (winDesktop) Show(h Handle, cmd ShowCmd) bool {
	procShowWindow.Call(uintptr(h), uintptr(cmd))
	return windows.IsWindow(windows.HWND(h))
}

func (winDesktop) BringToTop(h Handle) bool {
	r, _, _ := procBringWindowToTop.Call(uintptr(h))
	return r != 0
}

func (winDesktop) CurrentThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

func (winDesktop) AttachThreadInput(from, to uint32, attach bool) bool {
	var flag uintptr
	if attach {
		flag = 1
	}
	r, _, _ := procAttachThreadInput.Call(uintptr(from), uintptr(to), flag)
	return r != 0
}
