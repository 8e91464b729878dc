package trigger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/notify"
	"github.com/lambda-feedback/warden/internal/session"
	"github.com/lambda-feedback/warden/internal/supervisor"
)

// Login starts the gateway after a user logged in, unless the user opted
// out of autostart for their session.
type Login struct {
	name     string
	ctrl     Controller
	sessions session.Store
	notifier notify.Notifier

	// serializes logins that find the gateway stopped
	mu sync.Mutex

	log *zap.Logger
}

func NewLogin(name string, ctrl Controller, sessions session.Store, notifier notify.Notifier, log *zap.Logger) *Login {
	return &Login{
		name:     name,
		ctrl:     ctrl,
		sessions: sessions,
		notifier: notifier,
		log:      log.Named("trigger.login"),
	}
}

// OnLogin runs the trigger for the session that just authenticated.
func (l *Login) OnLogin(ctx context.Context, sessionID string) Result {
	log := l.log.With(zap.String("session", sessionID))

	pref, err := session.Autostart(l.sessions, sessionID)
	if err != nil {
		log.Warn("failed to read autostart preference, assuming enabled", zap.Error(err))
	}

	if !pref.Or(true) {
		log.Debug("autostart disabled for session")
		return Result{Outcome: OutcomeSkipped}
	}

	if status := l.ctrl.CurrentStatus(); status.Running {
		return l.alreadyRunning(log, status)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// another login may have started it while we waited
	if status := l.ctrl.CurrentStatus(); status.Running {
		return l.alreadyRunning(log, status)
	}

	status := l.ctrl.StartIfEnabled(ctx)

	switch {
	case status.Running:
		log.Info("gateway started on login")
		l.notifier.Success(fmt.Sprintf("%s started", l.name))
		return result(OutcomeStarted, status)
	case !status.Enabled:
		log.Info("gateway not started on login", zap.String("reason", status.Message))
		l.notifier.Warning(fmt.Sprintf("%s not started: %s", l.name, status.Message))
		return result(OutcomeDisabled, status)
	default:
		log.Error("gateway failed to start on login", zap.String("reason", status.Message))
		reason := strings.TrimPrefix(status.Message, "failed to start: ")
		l.notifier.Error(fmt.Sprintf("%s failed to start: %s", l.name, reason))
		return result(OutcomeFailed, status)
	}
}

func (l *Login) alreadyRunning(log *zap.Logger, status supervisor.Status) Result {
	log.Debug("gateway already running")
	l.notifier.Info(fmt.Sprintf("%s already running for everyone", l.name))
	return result(OutcomeAlreadyRunning, status)
}
