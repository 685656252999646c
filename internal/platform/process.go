package platform

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// processName returns the executable base name of pid without an .exe
// suffix.
func processName(pid uint32) (string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", fmt.Errorf("pid %d: %w", pid, ErrProcessGone)
	}

	name, err := p.Name()
	if err != nil || name == "" {
		return "", fmt.Errorf("pid %d name: %w", pid, ErrProcessGone)
	}

	return TrimExe(name), nil
}

// TrimExe strips any directory and a trailing .exe.
func TrimExe(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".exe") {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
