package config

import (
	"github.com/lambda-feedback/warden/internal/notify"
	"github.com/lambda-feedback/warden/internal/server"
	"github.com/lambda-feedback/warden/internal/supervisor"
	"github.com/lambda-feedback/warden/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Settings seeds the gateway settings, or points to a settings file
	Settings SettingsConfig `conf:"settings"`

	// Gateway configures how the gateway process is run
	Gateway supervisor.Config `conf:"gateway"`

	// Notify configures user-facing notifications
	Notify NotifyConfig `conf:"notify"`

	// Http configures the status and control server
	Http server.HttpConfig `conf:"http"`

	// Auth protects the /api routes
	Auth AuthConfig `conf:"auth"`
}

type SettingsConfig struct {
	// File is a JSON or .env file re-read on every query. If empty, the
	// settings below are held in memory and can be changed over HTTP.
	File string `conf:"file"`

	EnableService  bool   `conf:"enable_service"`
	ExecutablePath string `conf:"executable_path"`
	ConfigPath     string `conf:"config_path"`
}

type NotifyConfig struct {
	// FeedSize is the number of notifications kept for the UI
	FeedSize int `conf:"feed_size"`
}

type AuthConfig struct {
	// Key is compared with the api-key header. Empty disables the check.
	Key string `conf:"key"`
}

var DefaultConfig = conf.Combine(
	conf.DefaultConfig{
		"log_level":  "info",
		"log_format": "production",
	},
	conf.MergeDefaults("settings", conf.DefaultConfig{
		"enable_service":  false,
		"executable_path": "",
		"config_path":     "",
		"file":            "",
	}),
	conf.MergeDefaults("gateway", conf.DefaultConfig{
		"name":               supervisor.DefaultName,
		"default_path":       supervisor.DefaultExecutablePath,
		"graceful_timeout":   supervisor.DefaultGracefulTimeout.String(),
		"drain_timeout":      supervisor.DefaultDrainTimeout.String(),
		"settings_env":       supervisor.DefaultSettingsEnv,
		"settings_file_name": supervisor.DefaultSettingsFileName,
		"output.dir":         "",
	}),
	conf.MergeDefaults("notify", conf.DefaultConfig{
		"feed_size": notify.DefaultFeedSize,
	}),
	conf.MergeDefaults("http", conf.DefaultConfig{
		"host": "localhost",
		"port": 8080,
		"h2c":  false,
	}),
)
