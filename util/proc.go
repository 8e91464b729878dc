package util

import (
	"os/exec"
	"strconv"
)

// IsProcessAlive reports whether a process with the given pid exists.
// Zombies count as alive until their parent reaps them.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	// ps exits non-zero when no process matches
	return exec.Command("ps", "-p", strconv.Itoa(pid)).Run() == nil
}
