package tray

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/letters"
	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/registry"
)

type fakeLister struct{ entries []registry.Entry }

func (f *fakeLister) Entries() []registry.Entry { return f.entries }

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open()                      { f.opened = append(f.opened, "settings") }
func (f *fakeOpener) OpenPath(path string) error { f.opened = append(f.opened, path); return nil }

func newTestUI(t *testing.T) (*UI, *config.Store, *[]string) {
	t.Helper()
	store, err := config.NewStore(filepath.Join(t.TempDir(), "config.json"), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Update(func(c *config.Config) error {
		c.SetExcluded("explorer", true)
		return nil
	}))

	u := New(Config{
		Settings: store,
		Windows:  &fakeLister{},
		Letters:  letters.New(store),
		Opener:   &fakeOpener{},
		Logger:   zerolog.Nop(),
		Version:  "test",
		Commit:   "abc",
	})

	titles := &[]string{}
	u.setTitle = func(s string) { *titles = append(*titles, s) }
	u.ready.Store(true)
	return u, store, titles
}

func TestOverlayTitle(t *testing.T) {
	tests := []struct {
		name      string
		visible   bool
		letters   []rune
		highlight rune
		want      string
	}{
		{"idle", false, []rune{'C'}, 0, "⌨️"},
		{"no windows", true, nil, 0, "⌨️ -"},
		{"letters", true, []rune{'C', 'S'}, 0, "⌨️ C S"},
		{"highlighted", true, []rune{'C', 'S'}, 'S', "⌨️ C [S]"},
		{"highlight without window", true, []rune{'C'}, 'Z', "⌨️ C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlayTitle(tt.visible, tt.letters, tt.highlight))
		})
	}
}

func TestOverlayLifecycle(t *testing.T) {
	u, _, titles := newTestUI(t)

	u.Show([]platform.Window{
		{Handle: 1, ProcessName: "slack"},
		{Handle: 2, ProcessName: "chrome"},
		{Handle: 3, ProcessName: "Code"},
		{Handle: 4, ProcessName: "explorer"},
	})
	u.Highlight('S')
	u.Hide()
	u.Highlight(0)

	assert.Equal(t, []string{"⌨️ C S", "⌨️ C [S]", "⌨️", "⌨️"}, *titles)
}

func TestOverlayBeforeReadyDoesNothing(t *testing.T) {
	u, _, titles := newTestUI(t)
	u.ready.Store(false)

	u.Show([]platform.Window{{Handle: 1, ProcessName: "slack"}})
	assert.Empty(t, *titles)
}

func TestFlipPersistsSetting(t *testing.T) {
	u, store, _ := newTestUI(t)

	enabled, err := u.flip(func(c *config.Config) *bool { return &c.SingleAppMode })
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.True(t, store.Current().SingleAppMode)

	onDisk, err := config.Load(store.Path())
	require.NoError(t, err)
	assert.True(t, onDisk.SingleAppMode)

	enabled, err = u.flip(func(c *config.Config) *bool { return &c.SingleAppMode })
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestCopyLetters(t *testing.T) {
	u, _, _ := newTestUI(t)
	u.windows = &fakeLister{entries: []registry.Entry{
		{Window: platform.Window{Title: "Inbox", ProcessName: "outlook"}, Letter: "O"},
		{Window: platform.Window{Title: "Files", ProcessName: "explorer"}, Letter: "E", Excluded: true},
	}}

	var copied string
	u.writeClip = func(s string) error { copied = s; return nil }
	u.copyLetters()
	assert.Equal(t, "O\toutlook\tInbox\n", copied)

	u.writeClip = func(string) error { return errors.New("no clipboard") }
	assert.NotPanics(t, u.copyLetters)
}

func TestOpenLogsUsesLogPath(t *testing.T) {
	u, _, _ := newTestUI(t)
	op := &fakeOpener{}
	u.opener = op

	u.openLogs()
	require.Len(t, op.opened, 1)
	assert.Equal(t, "letterswitch.log", filepath.Base(op.opened[0]))
}
