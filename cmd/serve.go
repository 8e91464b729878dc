package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/warden/app"
	"github.com/lambda-feedback/warden/app/standalone"
)

var (
	serveCmdDescription = `The serve command supervises the gateway and starts a http
server next to it. The server reports the gateway status,
lets a client start, stop and restart it, and accepts user
login events that start the gateway if the user opted in.

The command blocks until it receives SIGINT or SIGTERM and
stops the gateway before exiting.`
	serveCmd = &cli.Command{
		Name:        "serve",
		Usage:       "Supervise the gateway and serve the control API.",
		Description: serveCmdDescription,
		Action:      serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Aliases:  []string{"H"},
				Usage:    "The host to listen on.",
				Value:    "localhost",
				Category: "http",
				EnvVars:  []string{"HTTP_HOST"},
			},
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"P"},
				Usage:    "The port to listen on.",
				Value:    8080,
				Category: "http",
				EnvVars:  []string{"HTTP_PORT"},
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "Enable HTTP/2 cleartext upgrade.",
				Value:    false,
				Category: "http",
				EnvVars:  []string{"HTTP_H2C"},
			},
		},
	}
)

func serveAction(ctx *cli.Context) error {
	cfg, err := parseConfig(ctx)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	return app.Run(ctx.Context, standalone.Module(cfg.Http))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, serveCmd)
}
