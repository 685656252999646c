//go:build !windows

package settings

import "os/exec"

func hideWindow(_ *exec.Cmd) {}
