package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/warden/app"
	"github.com/lambda-feedback/warden/util/logging"
)

var (
	runCmdDescription = `The run command supervises the gateway without a control
server. The gateway is started if it is enabled in the
settings, its output is forwarded to the log and crashes
are reported.

The command blocks until it receives SIGINT or SIGTERM and
stops the gateway before exiting.`
	runCmd = &cli.Command{
		Name:        "run",
		Usage:       "Supervise the gateway headless.",
		Description: runCmdDescription,
		Action:      runAction,
	}
)

func runAction(ctx *cli.Context) error {
	if _, err := parseConfig(ctx); err != nil {
		return err
	}

	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	log.Info("running headless")

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	return app.Run(ctx.Context)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, runCmd)
}
