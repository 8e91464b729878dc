package app

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/lambda-feedback/warden/config"
	"github.com/lambda-feedback/warden/internal/shell"
	"github.com/lambda-feedback/warden/util/conf"
	"github.com/lambda-feedback/warden/util/logging"
)

// New builds the shell shared by all commands. It expects the logger and
// the parsed config in the cli context.
func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	return shell.New(log, Shared(config)), nil
}

// Shared provides the config and everything that supervises the gateway.
func Shared(config config.Config) fx.Option {
	return fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide gateway supervision
		GatewayModule(),
	)
}
