package supervisor

import (
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

func killProcess(cmd *exec.Cmd, _ bool) error {
	return cmd.Process.Kill()
}

func initCmd(cmd *exec.Cmd) {
	// No-op on Windows.
}

func isExecutable(path string, _ fs.FileInfo) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".bat", ".cmd", ".com":
		return true
	}
	return false
}
