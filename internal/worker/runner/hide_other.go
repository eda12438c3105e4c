//go:build !windows

package runner

import "os/exec"

// hideWindow is a no-op: children never get a console window here.
func hideWindow(*exec.Cmd) {}
