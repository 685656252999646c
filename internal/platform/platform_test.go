package platform_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petems/letterswitch/internal/platform"
	"github.com/petems/letterswitch/internal/platform/platformtest"
)

func TestDescribe(t *testing.T) {
	d := &platformtest.Desktop{}
	d.Add(1, "Inbox - Outlook", 100, "OUTLOOK")
	d.Add(2, "   ", 100, "OUTLOOK")
	d.Add(3, "Orphan", 200, "ghost")
	delete(d.Processes, 200)

	w, err := platform.Describe(d, 1)
	require.NoError(t, err)
	assert.Equal(t, platform.Window{Handle: 1, Title: "Inbox - Outlook", PID: 100, ProcessName: "OUTLOOK"}, w)

	_, err = platform.Describe(d, 2)
	assert.ErrorIs(t, err, platform.ErrBlankTitle)

	_, err = platform.Describe(d, 3)
	assert.ErrorIs(t, err, platform.ErrProcessGone)

	_, err = platform.Describe(d, 99)
	assert.ErrorIs(t, err, platform.ErrWindowGone)
}

func TestTrimExe(t *testing.T) {
	tests := []struct{ in, want string }{
		{"chrome.exe", "chrome"},
		{"Code.EXE", "Code"},
		{`C:\Program Files\app\tool.exe`, "tool"},
		{"bash", "bash"},
		{"archive.tar", "archive.tar"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, platform.TrimExe(tt.in), tt.in)
	}
}

func TestHandleString(t *testing.T) {
	assert.Equal(t, "0x1a2b", platform.Handle(0x1a2b).String())
}

func TestNewOnThisPlatform(t *testing.T) {
	d, err := platform.New()
	if errors.Is(err, platform.ErrUnsupported) {
		assert.Nil(t, d)
		return
	}
	require.NoError(t, err)
	assert.NotNil(t, d)
}
