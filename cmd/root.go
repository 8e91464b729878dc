package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/config"
	"github.com/lambda-feedback/warden/internal/shell"
	"github.com/lambda-feedback/warden/util/conf"
	"github.com/lambda-feedback/warden/util/logging"
)

const envPrefix = "WARDEN_"

var (
	appName  = "warden"
	appUsage = `Supervises a local gateway process: starts it on boot and
on user login, streams its output into the log and reports crashes.`

	// maps cli flag names to config keys
	cliMap = map[string]string{
		"enable":           "settings.enable_service",
		"executable":       "settings.executable_path",
		"gateway-config":   "settings.config_path",
		"settings-file":    "settings.file",
		"graceful-timeout": "gateway.graceful_timeout",
		"output-dir":       "gateway.output.dir",
		"host":             "http.host",
		"port":             "http.port",
		"h2c":              "http.h2c",
	}

	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "set the log format. Options: production, development.",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from a JSON or .env file.",
				Aliases: []string{"c"},
				EnvVars: []string{"WARDEN_CONFIG"},
			},
			// gateway flags
			&cli.BoolFlag{
				Name:     "enable",
				Usage:    "enable the gateway service.",
				Category: "gateway",
			},
			&cli.StringFlag{
				Name:     "executable",
				Usage:    "the path to the gateway executable. May start with ~.",
				Aliases:  []string{"e"},
				Category: "gateway",
			},
			&cli.StringFlag{
				Name:     "gateway-config",
				Usage:    "the directory holding the gateway settings file.",
				Category: "gateway",
			},
			&cli.PathFlag{
				Name:     "settings-file",
				Usage:    "read the gateway settings from a JSON or .env file on every query.",
				Category: "gateway",
			},
			&cli.DurationFlag{
				Name:     "graceful-timeout",
				Usage:    "how long to wait for the gateway to exit after SIGTERM.",
				Category: "gateway",
			},
			&cli.PathFlag{
				Name:     "output-dir",
				Usage:    "also write the gateway output to rotated files in this directory.",
				Category: "gateway",
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			_ = log.Sync()

			return nil
		},
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time

	// OnExit runs before Execute exits the process itself
	OnExit func()
}

func Execute(params ExecuteParams) {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	run(context.Background(), os.Args, params.OnExit)
}

func run(ctx context.Context, args []string, onExit func()) {
	err := rootApp.RunContext(ctx, args)

	// if app exited without error, return
	if err == nil {
		return
	}

	// a plain error is reported, an ExitError carries its own code
	if !errors.As(err, new(*shell.ExitError)) {
		fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())
	}

	if onExit != nil {
		onExit()
	}

	os.Exit(shell.ExitCode(err))
}

// parseConfig builds the config from defaults, the config file, env vars
// and the flags of the current command, in that order.
func parseConfig(ctx *cli.Context) (config.Config, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Cli:       ctx,
		CliMap:    cliMap,
		Defaults:  config.DefaultConfig,
		EnvPrefix: envPrefix,
		FileName:  ctx.Path("config"),
		Log:       log,
	})
	if err != nil {
		return cfg, err
	}

	// inject the config into the cli context
	ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

	return cfg, nil
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": appName,
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
