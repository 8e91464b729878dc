package handler

import "go.uber.org/fx"

func Module() fx.Option {
	return fx.Module("handler",
		fx.Provide(NewGatewayHandler),
		fx.Provide(NewSessionHandler),
		fx.Provide(NewSettingsHandler),
		fx.Provide(NewNotificationHandler),
		fx.Provide(NewAPIRoute),
		fx.Provide(NewMetricsRoute),
		fx.Provide(NewHealthRoute),
	)
}
