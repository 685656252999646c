package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/letterswitch/internal/config"
)

type recorder struct {
	name string
	args []string
	err  error
}

func (r *recorder) start(name string, args ...string) error {
	r.name, r.args = name, args
	return r.err
}

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{"windows", "rundll32", []string{"url.dll,FileProtocolHandler", "f.json"}},
		{"darwin", "open", []string{"f.json"}},
		{"linux", "xdg-open", []string{"f.json"}},
		{"freebsd", "xdg-open", []string{"f.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := openCommand(tt.goos, "f.json")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpenCreatesMissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "letterswitch", "config.json")
	rec := &recorder{}
	o := New(path, zerolog.Nop())
	o.start = rec.start

	o.Open()

	require.NotEmpty(t, rec.name)
	assert.Equal(t, path, rec.args[len(rec.args)-1])

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestOpenPathError(t *testing.T) {
	rec := &recorder{err: errors.New("no handler")}
	o := New("unused", zerolog.Nop())
	o.start = rec.start

	err := o.OpenPath("/tmp/x.log")
	assert.ErrorContains(t, err, "no handler")
}
