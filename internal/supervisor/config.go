package supervisor

import "time"

const (
	DefaultName             = "gateway"
	DefaultExecutablePath   = "~/git/gateway/build/gateway"
	DefaultGracefulTimeout  = 5 * time.Second
	DefaultDrainTimeout     = 2 * time.Second
	DefaultSettingsEnv      = "HTTP_SETTINGS_FILE"
	DefaultSettingsFileName = "http_server.json"

	// one slot per output stream plus the health watcher
	poolSize = 3

	slotTimeout = time.Second
)

// Config describes how the gateway process is launched and stopped.
type Config struct {
	// Name identifies the gateway in logs, notifications and metrics.
	Name string `conf:"name"`

	// DefaultPath is used when the settings carry no executable path.
	DefaultPath string `conf:"default_path"`

	// Args are passed to the gateway executable.
	Args []string `conf:"args"`

	// GracefulTimeout is how long Stop waits after SIGTERM before it
	// sends SIGKILL.
	GracefulTimeout time.Duration `conf:"graceful_timeout"`

	// DrainTimeout bounds how long Stop waits for the output streams to
	// reach EOF once the process has exited.
	DrainTimeout time.Duration `conf:"drain_timeout"`

	// SettingsEnv is the environment variable pointing the gateway at its
	// own settings file.
	SettingsEnv string `conf:"settings_env"`

	// SettingsFileName is the name of the gateway settings file inside
	// the configured config path.
	SettingsFileName string `conf:"settings_file_name"`

	// Output configures optional capture files for stdout and stderr.
	Output OutputConfig `conf:"output"`
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.DefaultPath == "" {
		c.DefaultPath = DefaultExecutablePath
	}
	if c.GracefulTimeout <= 0 {
		c.GracefulTimeout = DefaultGracefulTimeout
	}
	if c.DrainTimeout <= 0 {
		c.DrainTimeout = DefaultDrainTimeout
	}
	if c.SettingsEnv == "" {
		c.SettingsEnv = DefaultSettingsEnv
	}
	if c.SettingsFileName == "" {
		c.SettingsFileName = DefaultSettingsFileName
	}

	return c
}
