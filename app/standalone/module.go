package standalone

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/warden/handler"
	"github.com/lambda-feedback/warden/internal/server"
	"github.com/lambda-feedback/warden/util/logging"
)

// Module serves the status and control API next to the supervisor.
func Module(config server.HttpConfig) fx.Option {
	return fx.Module(
		"serve",
		// rename logger for module
		logging.DecorateLogger("serve"),
		// provide handlers
		handler.Module(),
		// provide server
		server.Module(config),
	)
}
