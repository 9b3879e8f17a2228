//go:build !windows

package bash

import (
	"os/exec"
	"syscall"
	"time"
)

// setProcessGroup places the child in its own process group so killProcessGroup
// can signal the whole tree rather than just the direct child.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGTERM to the command's process group, then SIGKILL
// after a short grace period if it hasn't exited.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		cmd.Process.Kill()
		return
	}
	syscall.Kill(-pgid, syscall.SIGTERM)
	time.Sleep(killGrace)
	syscall.Kill(-pgid, syscall.SIGKILL)
}
