package registry

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/letterswitch/internal/config"
	"github.com/petems/letterswitch/internal/letters"
	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/platform/platformtest"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(t *testing.T, d *platformtest.Desktop, cfg *config.Config) (*Registry, *fakeClock) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	r := New(Config{
		Desktop: d,
		Letters: letters.New(config.Static(cfg)),
		Logger:  zerolog.Nop(),
		Now:     clock.Now,
	})
	return r, clock
}

func handles(ws []platform.Window) []platform.Handle {
	out := make([]platform.Handle, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Handle)
	}
	return out
}

func TestRefreshFiltersWindows(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Chrome", 10, "chrome")
	d.Add(2, "", 10, "chrome")
	d.Add(3, "  \t", 10, "chrome")
	d.Add(4, "Hidden", 11, "code").Visible = false
	d.Add(5, "Gone", 12, "ghost")
	delete(d.Processes, 12)
	d.Add(6, "Code", 11, "code")

	r, _ := newTestRegistry(t, d, nil)
	require.NoError(t, r.Refresh())

	assert.Equal(t, []platform.Handle{1, 6}, handles(r.All()))
}

func TestRefreshDropsDuplicateHandles(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "One", 10, "chrome")
	d.Add(1, "One again", 10, "chrome")

	r, _ := newTestRegistry(t, d, nil)
	all := r.All()
	require.Len(t, all, 1)
	assert.Equal(t, "One", all[0].Title)
}

func TestAllUsesCacheWithinTTL(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Chrome", 10, "chrome")

	r, clock := newTestRegistry(t, d, nil)
	r.All()
	d.Add(2, "Code", 11, "code")

	clock.Advance(499 * time.Millisecond)
	assert.Len(t, r.All(), 1)
	assert.Equal(t, 1, d.EnumCalls)

	clock.Advance(time.Millisecond)
	assert.Len(t, r.All(), 2)
	assert.Equal(t, 2, d.EnumCalls)
}

func TestEnumerationFailureKeepsCache(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Chrome", 10, "chrome")

	r, clock := newTestRegistry(t, d, nil)
	require.Len(t, r.All(), 1)

	d.EnumErr = errors.New("access denied")
	clock.Advance(time.Second)
	assert.Error(t, r.Refresh())
	assert.Len(t, r.All(), 1)

	// timestamp was not advanced, so the next call retries
	d.EnumErr = nil
	d.Add(2, "Code", 11, "code")
	assert.Len(t, r.All(), 2)
}

func TestByLetter(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.SetLetter("WindowsTerminal", 't'))
	cfg.SetExcluded("Explorer", true)

	d := &platformtest.Desktop{}
	d.Add(1, "Chrome 1", 10, "chrome")
	d.Add(2, "Terminal", 11, "WindowsTerminal")
	d.Add(3, "Files", 12, "explorer")
	d.Add(4, "Chrome 2", 10, "chrome")
	d.Add(5, "Calculator", 13, "CalculatorApp")
	d.Add(6, "Tab", 14, "teams")

	r, _ := newTestRegistry(t, d, cfg)

	assert.Equal(t, []platform.Handle{1, 4, 5}, handles(r.ByLetter('C')))
	assert.Equal(t, []platform.Handle{1, 4, 5}, handles(r.ByLetter('c')))
	assert.Equal(t, []platform.Handle{2, 6}, handles(r.ByLetter('T')))
	// W is not the derived letter any more
	assert.Empty(t, r.ByLetter('W'))
	// excluded processes never match
	assert.Empty(t, r.ByLetter('E'))
}

func TestEntriesFlagsExcluded(t *testing.T) {
	cfg := config.Default()
	cfg.SetExcluded("explorer", true)

	d := &platformtest.Desktop{}
	d.Add(1, "Files", 12, "explorer")
	d.Add(2, "Slack", 15, "slack")

	r, _ := newTestRegistry(t, d, cfg)
	entries := r.Entries()
	require.Len(t, entries, 2)

	assert.Equal(t, "E", entries[0].Letter)
	assert.True(t, entries[0].Excluded)
	assert.Equal(t, "S", entries[1].Letter)
	assert.False(t, entries[1].Excluded)
}

func TestAllReturnsCopy(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Chrome", 10, "chrome")

	r, _ := newTestRegistry(t, d, nil)
	all := r.All()
	all[0].Title = "changed"

	assert.Equal(t, "Chrome", r.All()[0].Title)
}
