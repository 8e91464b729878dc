package supervisor

import (
	"fmt"
	"io"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultOutputMaxSizeMB  = 10
	DefaultOutputMaxBackups = 3
	DefaultOutputMaxAgeDays = 7
)

// OutputConfig describes optional capture files for the gateway output.
// When Dir is set, stdout and stderr are additionally written to
// Dir/<name>.stdout.log and Dir/<name>.stderr.log, rotated with
// lumberjack semantics.
type OutputConfig struct {
	Dir        string `conf:"dir"`
	MaxSizeMB  int    `conf:"max_size_mb"`
	MaxBackups int    `conf:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days"`
	Compress   bool   `conf:"compress"`
}

// Writers returns capture writers for the given process name. Both are
// nil if no output directory is configured.
func (c OutputConfig) Writers(name string) (stdout io.WriteCloser, stderr io.WriteCloser) {
	if c.Dir == "" {
		return nil, nil
	}

	return c.writer(name, "stdout"), c.writer(name, "stderr")
}

func (c OutputConfig) writer(name, stream string) io.WriteCloser {
	return &lj.Logger{
		Filename:   filepath.Join(c.Dir, fmt.Sprintf("%s.%s.log", name, stream)),
		MaxSize:    valOr(c.MaxSizeMB, DefaultOutputMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultOutputMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultOutputMaxAgeDays),
		Compress:   c.Compress,
	}
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
