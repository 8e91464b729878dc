package trigger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Startup starts the gateway when the application boots and stops it
// when the application shuts down.
type Startup struct {
	ctrl Controller
	log  *zap.Logger
}

func NewStartup(ctrl Controller, log *zap.Logger) *Startup {
	return &Startup{
		ctrl: ctrl,
		log:  log.Named("trigger.startup"),
	}
}

// Hook returns the fx lifecycle hook for the trigger.
func (s *Startup) Hook() fx.Hook {
	return fx.Hook{
		OnStart: s.OnStart,
		OnStop:  s.OnStop,
	}
}

// OnStart calls StartIfEnabled once. A gateway that cannot be started
// does not prevent the application from starting.
func (s *Startup) OnStart(ctx context.Context) error {
	status := s.ctrl.StartIfEnabled(ctx)

	s.log.Info("startup trigger done",
		zap.Bool("enabled", status.Enabled),
		zap.Bool("running", status.Running),
		zap.String("message", status.Message))

	return nil
}

// OnStop stops the gateway, giving up once ctx is done.
func (s *Startup) OnStop(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.ctrl.Stop()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.log.Warn("gateway did not stop in time", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}
