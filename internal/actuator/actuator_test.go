package actuator

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/platform/platformtest"
)

func newTestActuator(d *platformtest.Desktop) *Actuator {
	return New(Config{Desktop: d, Logger: zerolog.Nop()})
}

func window(t *testing.T, d *platformtest.Desktop, h platform.Handle) platform.Window {
	t.Helper()
	w, err := platform.Describe(d, h)
	require.NoError(t, err)
	return w
}

func TestFocusedWindow(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Editor", 10, "code")
	d.Add(2, "", 11, "splash")
	d.Add(3, "Dying", 12, "crashy")

	a := newTestActuator(d)

	_, ok := a.FocusedWindow()
	assert.False(t, ok, "no foreground window")

	d.ForegroundHandle = 1
	w, ok := a.FocusedWindow()
	require.True(t, ok)
	assert.Equal(t, "code", w.ProcessName)

	d.ForegroundHandle = 2
	_, ok = a.FocusedWindow()
	assert.False(t, ok, "blank title")

	d.ForegroundHandle = 3
	delete(d.Processes, 12)
	_, ok = a.FocusedWindow()
	assert.False(t, ok, "process exited")
}

func TestForegroundWindowAcceptsUntitled(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(2, "", 11, "splash")
	d.Add(3, "Dying", 12, "crashy")
	delete(d.Processes, 12)

	a := newTestActuator(d)

	_, ok := a.ForegroundWindow()
	assert.False(t, ok)

	d.ForegroundHandle = 2
	w, ok := a.ForegroundWindow()
	require.True(t, ok)
	assert.Equal(t, platform.Window{Handle: 2, PID: 11, ProcessName: "splash"}, w)

	d.ForegroundHandle = 3
	w, ok = a.ForegroundWindow()
	require.True(t, ok)
	assert.Equal(t, platform.Window{Handle: 3, Title: "Dying", PID: 12}, w)

	d.ForegroundHandle = 99
	w, ok = a.ForegroundWindow()
	require.True(t, ok, "a handle the desktop no longer knows")
	assert.Equal(t, platform.Window{Handle: 99}, w)
}

func TestActivateAttachesToForegroundThread(t *testing.T) {
	d := &platformtest.Desktop{ThreadID: 7}
	d.Add(1, "Browser", 10, "chrome")
	target := d.Add(2, "Editor", 20, "code")
	target.Minimized = true
	d.ForegroundHandle = 1

	a := newTestActuator(d)
	ok := a.Activate(window(t, d, 2))

	require.True(t, ok)
	assert.Equal(t, platform.Handle(2), d.ForegroundHandle)
	assert.False(t, target.Minimized)
	assert.Equal(t, []string{"restore 0x2", "top 0x2", "show 0x2", "foreground 0x2"}, d.Record())
	assert.Equal(t, [][2]uint32{{7, 100}}, d.Attached)
	assert.Equal(t, [][2]uint32{{7, 100}}, d.Detached)
}

func TestActivateSkipsAttachWithoutForeground(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Editor", 10, "code")

	a := newTestActuator(d)
	assert.True(t, a.Activate(window(t, d, 1)))
	assert.Empty(t, d.Attached)
	assert.Empty(t, d.Detached)
	assert.Equal(t, []string{"top 0x1", "show 0x1", "foreground 0x1"}, d.Record())
}

func TestActivateSameThreadDoesNotAttach(t *testing.T) {
	d := &platformtest.Desktop{ThreadID: 100}
	d.Add(1, "Browser", 10, "chrome")
	d.Add(2, "Editor", 20, "code")
	d.ForegroundHandle = 1

	a := newTestActuator(d)
	assert.True(t, a.Activate(window(t, d, 2)))
	assert.Empty(t, d.Attached)
}

func TestActivateFailureDetachesAndReportsFalse(t *testing.T) {
	d := &platformtest.Desktop{RefuseForeground: true}
	d.Add(1, "Browser", 10, "chrome")
	d.Add(2, "Editor", 20, "code")
	d.ForegroundHandle = 1

	a := newTestActuator(d)
	assert.False(t, a.Activate(window(t, d, 2)))
	assert.Len(t, d.Attached, 1)
	assert.Len(t, d.Detached, 1)
}

func TestActivateAllOfProcess(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Doc 1", 10, "word")
	d.Add(2, "Mail", 20, "outlook")
	d.Add(3, "Doc 2", 10, "word").Minimized = true
	d.Add(4, "Hidden doc", 10, "word").Visible = false

	a := newTestActuator(d)
	ok := a.ActivateAllOfProcess(window(t, d, 1))

	require.True(t, ok)
	assert.Equal(t, []string{
		"restore 0x3", "top 0x3", "show 0x3",
		"top 0x1", "show 0x1", "foreground 0x1",
	}, d.Record())
	assert.Equal(t, platform.Handle(1), d.ForegroundHandle)
}

func TestMinimize(t *testing.T) {
	d := &platformtest.Desktop{}
	w := d.Add(1, "Doc", 10, "word")

	a := newTestActuator(d)
	assert.True(t, a.Minimize(window(t, d, 1)))
	assert.True(t, w.Minimized)

	assert.False(t, a.Minimize(platform.Window{Handle: 99}))
}

func TestMinimizeFamilies(t *testing.T) {
	setup := func() *platformtest.Desktop {
		d := &platformtest.Desktop{}
		d.Add(1, "Doc 1", 10, "word")
		d.Add(2, "Mail", 20, "outlook")
		d.Add(3, "Doc 2", 10, "word")
		d.Add(4, "", 30, "tooltip")
		d.Add(5, "Hidden", 20, "outlook").Visible = false
		return d
	}

	t.Run("all visible", func(t *testing.T) {
		d := setup()
		n := newTestActuator(d).MinimizeAllVisible()
		assert.Equal(t, 3, n)
		assert.Equal(t, []string{"minimize 0x1", "minimize 0x2", "minimize 0x3"}, d.Record())
	})

	t.Run("all of process", func(t *testing.T) {
		d := setup()
		n := newTestActuator(d).MinimizeAllOfProcess(10)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"minimize 0x1", "minimize 0x3"}, d.Record())
	})

	t.Run("all except process", func(t *testing.T) {
		d := setup()
		n := newTestActuator(d).HideAllExcept(10)
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"minimize 0x2"}, d.Record())
	})
}
