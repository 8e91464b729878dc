package app

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/config"
	"github.com/lambda-feedback/warden/handler"
	"github.com/lambda-feedback/warden/internal/metrics"
	"github.com/lambda-feedback/warden/internal/notify"
	"github.com/lambda-feedback/warden/internal/session"
	"github.com/lambda-feedback/warden/internal/settings"
	"github.com/lambda-feedback/warden/internal/supervisor"
	"github.com/lambda-feedback/warden/internal/trigger"
	"github.com/lambda-feedback/warden/util/logging"
)

func GatewayModule() fx.Option {
	return fx.Module(
		"gateway",
		logging.DecorateLogger("gateway"),
		fx.Provide(
			NewSettings,
			NewFeed,
			NewNotifier,
			NewMetrics,
			NewSupervisor,
			NewLogin,
			fx.Annotate(session.NewMemoryStore, fx.As(new(session.Store))),
			func(f *notify.Feed) handler.NotificationFeed { return f },
			func(s *supervisor.Supervisor) handler.Gateway { return s },
			func(s *supervisor.Supervisor) trigger.Controller { return s },
		),
		// start the gateway on boot and stop it on shutdown
		fx.Invoke(func(lc fx.Lifecycle, ctrl trigger.Controller, log *zap.Logger) {
			lc.Append(trigger.NewStartup(ctrl, log).Hook())
		}),
	)
}

// NewSettings reads the gateway settings from a file if one is
// configured, otherwise it keeps them in memory seeded from the config.
func NewSettings(cfg config.Config, log *zap.Logger) (settings.Provider, error) {
	seed := settings.Settings{
		EnableService:  cfg.Settings.EnableService,
		ExecutablePath: cfg.Settings.ExecutablePath,
		ConfigPath:     cfg.Settings.ConfigPath,
	}

	if cfg.Settings.File == "" {
		return settings.NewStore(seed), nil
	}

	return settings.NewFile(cfg.Settings.File, seed, log)
}

func NewFeed(cfg config.Config) *notify.Feed {
	return notify.NewFeed(cfg.Notify.FeedSize)
}

func NewNotifier(feed *notify.Feed, log *zap.Logger) notify.Notifier {
	return notify.NewDispatcher(
		log,
		notify.NewLogSink(log),
		feed,
		notify.NewSentrySink(nil),
	)
}

func NewMetrics(cfg config.Config) (*metrics.Metrics, error) {
	return metrics.New(cfg.Gateway.Name)
}

type SupervisorParams struct {
	fx.In

	Config   config.Config
	Settings settings.Provider
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

func NewSupervisor(params SupervisorParams) *supervisor.Supervisor {
	return supervisor.New(supervisor.Params{
		Config:   params.Config.Gateway,
		Settings: params.Settings,
		Notifier: params.Notifier,
		Observer: params.Metrics,
		Log:      params.Log,
	})
}

func NewLogin(
	cfg config.Config,
	ctrl trigger.Controller,
	sessions session.Store,
	notifier notify.Notifier,
	log *zap.Logger,
) handler.LoginTrigger {
	return trigger.NewLogin(cfg.Gateway.Name, ctrl, sessions, notifier, log)
}
