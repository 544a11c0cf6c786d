//go:build windows

package gpu

import (
	"os/exec"
	"syscall"
)

// hideWindow stops a console window from flashing up when the tray build
// launches a diagnostic tool.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
