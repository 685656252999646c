//go:build windows

package hook

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"

	"github.com/petems/letterswitch/internal/vkey"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
)

const (
	whKeyboardLL = 13

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
	wmQuit       = 0x0012

	pmNoRemove = 0x0000
)

// kbdllHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type point struct {
	x int32
	y int32
}

// winMsg mirrors MSG.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

// installed is the hook the shared callback dispatches to. Only one
// keyboard hook exists per process.
type installed struct {
	hhook   uintptr
	decoder *Decoder
	handler Handler
}

var (
	active   atomic.Pointer[installed]
	hookProc = windows.NewCallback(lowLevelKeyboardProc)
)

func lowLevelKeyboardProc(nCode uintptr, wParam uintptr, lParam uintptr) uintptr {
	h := active.Load()
	if h == nil {
		r, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
		return r
	}

	if int32(nCode) >= 0 {
		kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		var down bool
		switch wParam {
		case wmKeyDown, wmSysKeyDown:
			down = true
		case wmKeyUp, wmSysKeyUp:
			down = false
		default:
			r, _, _ := procCallNextHookEx.Call(h.hhook, nCode, wParam, lParam)
			return r
		}

		ev, emit, consume := h.decoder.Decode(vkey.Code(kb.vkCode), down)
		if emit {
			h.handler(ev)
		}
		if consume {
			return 1
		}
	}

	r, _, _ := procCallNextHookEx.Call(h.hhook, nCode, wParam, lParam)
	return r
}

type loopReady struct {
	threadID uint32
	err      error
}

type winManager struct {
	decoder *Decoder
	log     zerolog.Logger

	mu       sync.Mutex
	threadID uint32
	doneCh   chan struct{}
}

// New returns the WH_KEYBOARD_LL hook manager.
func New(dec *Decoder, log zerolog.Logger) (Manager, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	if err := kernel32.Load(); err != nil {
		return nil, fmt.Errorf("kernel32.dll is unavailable: %w", err)
	}
	return &winManager{decoder: dec, log: log}, nil
}

func (m *winManager) Start(handler Handler) error {
	if handler == nil {
		return errors.New("hook handler is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doneCh != nil {
		return errors.New("keyboard hook already installed")
	}

	readyCh := make(chan loopReady, 1)
	doneCh := make(chan struct{})
	go m.loop(handler, readyCh, doneCh)

	ready := <-readyCh
	if ready.err != nil {
		return fmt.Errorf("install keyboard hook: %w", ready.err)
	}

	m.threadID = ready.threadID
	m.doneCh = doneCh
	m.log.Info().Msg("Keyboard hook installed")
	return nil
}

func (m *winManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doneCh == nil {
		return nil
	}
	defer func() {
		m.doneCh = nil
		m.threadID = 0
		m.decoder.Reset()
	}()

	r, _, err := procPostThreadMessageW.Call(uintptr(m.threadID), wmQuit, 0, 0)
	if r == 0 {
		return fmt.Errorf("post WM_QUIT: %w", err)
	}

	select {
	case <-m.doneCh:
		m.log.Info().Msg("Keyboard hook removed")
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("keyboard hook loop stop timed out")
	}
}

// loop runs on a locked OS thread: the hook is delivered to the thread
// that installed it and only while that thread pumps messages.
func (m *winManager) loop(handler Handler, readyCh chan<- loopReady, doneCh chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(doneCh)

	threadID := windows.GetCurrentThreadId()

	// Creates the thread message queue so WM_QUIT can be posted to it.
	var qmsg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&qmsg)), 0, 0, 0, pmNoRemove)

	module, _, _ := procGetModuleHandleW.Call(0)
	hhook, _, err := procSetWindowsHookExW.Call(whKeyboardLL, hookProc, module, 0)
	if hhook == 0 {
		readyCh <- loopReady{err: err}
		return
	}

	active.Store(&installed{hhook: hhook, decoder: m.decoder, handler: handler})
	defer func() {
		active.Store(nil)
		if r, _, err := procUnhookWindowsHookEx.Call(hhook); r == 0 {
			m.log.Error().Err(err).Msg("UnhookWindowsHookEx failed")
		}
	}()

	readyCh <- loopReady{threadID: threadID}

	for {
		var msg winMsg
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			m.log.Error().Err(err).Msg("GetMessageW failed, keyboard hook stopped")
			return
		case 0:
			return
		}
	}
}
