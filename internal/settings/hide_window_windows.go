//go:build windows

package settings

import (
	"os/exec"
	"syscall"
)

// hideWindow suppresses the console window flash of cmd.
func hideWindow(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
}
