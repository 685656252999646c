// Package platformtest provides an in-memory platform.Desktop for tests.
package platformtest

import (
	"sync"

	"github.com/petems/letterswitch/internal/platform"
)

// Win describes one fake window.
type Win struct {
	Handle    platform.Handle
	Title     string
	PID       uint32
	TID       uint32
	Visible   bool
	Minimized bool
}

// Desktop is a scriptable platform.Desktop. Zero value is usable.
type Desktop struct {
	mu sync.Mutex

	Windows   []*Win
	Processes map[uint32]string
	// EnumErr, when set, is returned by EnumWindows.
	EnumErr error

	ForegroundHandle platform.Handle
	ThreadID         uint32
	// RefuseForeground makes SetForeground fail.
	RefuseForeground bool

	EnumCalls int
	Calls     []string
	Attached  [][2]uint32
	Detached  [][2]uint32
}

// Add appends a visible window owned by process name.
func (d *Desktop) Add(h platform.Handle, title string, pid uint32, name string) *Win {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Processes == nil {
		d.Processes = map[uint32]string{}
	}
	d.Processes[pid] = name
	w := &Win{Handle: h, Title: title, PID: pid, TID: pid * 10, Visible: true}
	d.Windows = append(d.Windows, w)
	return w
}

// Window returns the fake window for h.
func (d *Desktop) Window(h platform.Handle) *Win {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.find(h)
}

// Record returns the calls seen so far.
func (d *Desktop) Record() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Calls...)
}

func (d *Desktop) find(h platform.Handle) *Win {
	for _, w := range d.Windows {
		if w.Handle == h {
			return w
		}
	}
	return nil
}

func (d *Desktop) EnumWindows() ([]platform.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.EnumCalls++
	if d.EnumErr != nil {
		return nil, d.EnumErr
	}
	out := make([]platform.Handle, 0, len(d.Windows))
	for _, w := range d.Windows {
		out = append(out, w.Handle)
	}
	return out, nil
}

func (d *Desktop) IsVisible(h platform.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(h)
	return w != nil && w.Visible
}

func (d *Desktop) Title(h platform.Handle) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(h)
	if w == nil {
		return "", platform.ErrWindowGone
	}
	return w.Title, nil
}

func (d *Desktop) ThreadProcessID(h platform.Handle) (uint32, uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(h)
	if w == nil {
		return 0, 0, platform.ErrWindowGone
	}
	return w.TID, w.PID, nil
}

func (d *Desktop) ProcessName(pid uint32) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	name, ok := d.Processes[pid]
	if !ok {
		return "", platform.ErrProcessGone
	}
	return name, nil
}

func (d *Desktop) Foreground() (platform.Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ForegroundHandle, d.ForegroundHandle != 0
}

func (d *Desktop) SetForeground(h platform.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, "foreground "+h.String())
	if d.RefuseForeground || d.find(h) == nil {
		return false
	}
	d.ForegroundHandle = h
	return true
}

func (d *Desktop) IsMinimized(h platform.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(h)
	return w != nil && w.Minimized
}

func (d *Desktop) Show(h platform.Handle, cmd platform.ShowCmd) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.find(h)
	switch cmd {
	case platform.ShowMinimize:
		d.Calls = append(d.Calls, "minimize "+h.String())
	case platform.ShowRestore:
		d.Calls = append(d.Calls, "restore "+h.String())
	default:
		d.Calls = append(d.Calls, "show "+h.String())
	}
	if w == nil {
		return false
	}

	switch cmd {
	case platform.ShowMinimize:
		w.Minimized = true
		if d.ForegroundHandle == h {
			d.ForegroundHandle = 0
		}
	case platform.ShowRestore:
		w.Minimized = false
	}
	w.Visible = true
	return true
}

func (d *Desktop) BringToTop(h platform.Handle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, "top "+h.String())
	return d.find(h) != nil
}

func (d *Desktop) CurrentThreadID() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ThreadID == 0 {
		return 1
	}
	return d.ThreadID
}

func (d *Desktop) AttachThreadInput(from, to uint32, attach bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if attach {
		d.Attached = append(d.Attached, [2]uint32{from, to})
	} else {
		d.Detached = append(d.Detached, [2]uint32{from, to})
	}
	return true
}

var _ platform.Desktop = (*Desktop)(nil)
