// Package actuator raises, focuses and minimizes windows.
package actuator

import (
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/petems/letterswitch/internal/platform"
)

type Config struct {
	Desktop platform.Desktop
	Logger  zerolog.Logger
}

// Actuator turns switch decisions into OS calls. Failures are logged and
// reported as bool or count results.
type Actuator struct {
	desktop platform.Desktop
	log     zerolog.Logger
}

func New(cfg Config) *Actuator {
	return &Actuator{desktop: cfg.Desktop, log: cfg.Logger}
}

// FocusedWindow returns the foreground window. It reports false when there
// is none, its title is blank or its process has exited.
func (a *Actuator) FocusedWindow() (platform.Window, bool) {
	h, ok := a.desktop.Foreground()
	if !ok {
		return platform.Window{}, false
	}

	w, err := platform.Describe(a.desktop, h)
	if err != nil {
		a.log.Debug().Err(err).Stringer("hwnd", h).Msg("No usable focused window")
		return platform.Window{}, false
	}
	return w, true
}

// ForegroundWindow returns the foreground window without requiring a title
// or a live process. Fields that cannot be resolved are left zero.
func (a *Actuator) ForegroundWindow() (platform.Window, bool) {
	h, ok := a.desktop.Foreground()
	if !ok {
		return platform.Window{}, false
	}

	w := platform.Window{Handle: h}
	if title, err := a.desktop.Title(h); err == nil {
		w.Title = title
	}
	if _, pid, err := a.desktop.ThreadProcessID(h); err == nil {
		w.PID = pid
		if name, err := a.desktop.ProcessName(pid); err == nil {
			w.ProcessName = name
		}
	}
	return w, true
}

// Activate restores w if needed and makes it the foreground window.
func (a *Actuator) Activate(w platform.Window) bool {
	// Thread input attachment is per OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if a.desktop.IsMinimized(w.Handle) {
		a.desktop.Show(w.Handle, platform.ShowRestore)
	}

	current := a.desktop.CurrentThreadID()
	var foregroundTID uint32
	if fg, ok := a.desktop.Foreground(); ok {
		foregroundTID, _, _ = a.desktop.ThreadProcessID(fg)
	}

	attached := false
	if foregroundTID != 0 && foregroundTID != current {
		attached = a.desktop.AttachThreadInput(current, foregroundTID, true)
	}

	a.desktop.BringToTop(w.Handle)
	a.desktop.Show(w.Handle, platform.ShowNormal)
	ok := a.desktop.SetForeground(w.Handle)

	if attached {
		a.desktop.AttachThreadInput(current, foregroundTID, false)
	}

	if !ok {
		a.log.Warn().
			Stringer("hwnd", w.Handle).
			Str("process", w.ProcessName).
			Msg("Failed to set foreground window")
		return false
	}

	a.log.Info().Str("process", w.ProcessName).Str("title", w.Title).Msg("Switched")
	return true
}

// ActivateAllOfProcess raises every visible window of primary's process,
// then activates primary so it ends up on top.
func (a *Actuator) ActivateAllOfProcess(primary platform.Window) bool {
	for _, h := range a.visible() {
		if h == primary.Handle {
			continue
		}
		_, pid, err := a.desktop.ThreadProcessID(h)
		if err != nil || pid != primary.PID {
			continue
		}
		if a.desktop.IsMinimized(h) {
			a.desktop.Show(h, platform.ShowRestore)
		}
		a.desktop.BringToTop(h)
		a.desktop.Show(h, platform.ShowNormal)
	}

	return a.Activate(primary)
}

func (a *Actuator) Minimize(w platform.Window) bool {
	if !a.desktop.Show(w.Handle, platform.ShowMinimize) {
		a.log.Warn().Stringer("hwnd", w.Handle).Str("process", w.ProcessName).Msg("Failed to minimize window")
		return false
	}
	a.log.Debug().Str("process", w.ProcessName).Msg("Minimized window")
	return true
}

// MinimizeAllVisible minimizes every visible titled window.
func (a *Actuator) MinimizeAllVisible() int {
	n := a.minimizeWhere(func(uint32) bool { return true })
	a.log.Info().Int("count", n).Msg("Minimized all windows")
	return n
}

// MinimizeAllOfProcess minimizes every visible window owned by pid.
func (a *Actuator) MinimizeAllOfProcess(pid uint32) int {
	n := a.minimizeWhere(func(p uint32) bool { return p == pid })
	a.log.Info().Uint32("pid", pid).Int("count", n).Msg("Minimized windows of focused app")
	return n
}

// HideAllExcept minimizes every visible window not owned by pid.
func (a *Actuator) HideAllExcept(pid uint32) int {
	n := a.minimizeWhere(func(p uint32) bool { return p != pid })
	a.log.Info().Uint32("pid", pid).Int("count", n).Msg("Hid other apps")
	return n
}

func (a *Actuator) minimizeWhere(match func(pid uint32) bool) int {
	n := 0
	for _, h := range a.visible() {
		_, pid, err := a.desktop.ThreadProcessID(h)
		if err != nil || !match(pid) {
			continue
		}
		if a.desktop.Show(h, platform.ShowMinimize) {
			n++
		}
	}
	return n
}

// visible returns handles of visible windows that have a title, without
// resolving their processes.
func (a *Actuator) visible() []platform.Handle {
	handles, err := a.desktop.EnumWindows()
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to enumerate windows")
		return nil
	}

	out := handles[:0]
	for _, h := range handles {
		if !a.desktop.IsVisible(h) {
			continue
		}
		if title, err := a.desktop.Title(h); err != nil || strings.TrimSpace(title) == "" {
			continue
		}
		out = append(out, h)
	}
	return out
}
