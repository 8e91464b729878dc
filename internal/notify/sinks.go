package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// LogSink writes notifications to the application log.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("notification")}
}

func (s *LogSink) Deliver(_ context.Context, n Notification) error {
	switch n.Level {
	case LevelError:
		s.log.Error(n.Message)
	case LevelWarning:
		s.log.Warn(n.Message)
	default:
		s.log.Info(n.Message, zap.String("level", string(n.Level)))
	}

	return nil
}

// Feed keeps the most recent notifications in memory so that status
// pages can poll them.
type Feed struct {
	mu    sync.RWMutex
	items []Notification
	next  int
	full  bool
}

const DefaultFeedSize = 50

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}

	return &Feed{items: make([]Notification, size)}
}

func (f *Feed) Deliver(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}

	return nil
}

// Recent returns the buffered notifications, oldest first.
func (f *Feed) Recent() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if !f.full {
		return append([]Notification(nil), f.items[:f.next]...)
	}

	out := make([]Notification, 0, len(f.items))
	out = append(out, f.items[f.next:]...)
	out = append(out, f.items[:f.next]...)

	return out
}

var ErrNotCaptured = errors.New("sentry did not capture the event")

// SentrySink reports warnings and errors to Sentry. Lower levels are
// ignored.
type SentrySink struct {
	hub *sentry.Hub
}

// NewSentrySink creates a sink using the given hub, or the current hub
// if nil.
func NewSentrySink(hub *sentry.Hub) *SentrySink {
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	return &SentrySink{hub: hub}
}

func (s *SentrySink) Deliver(_ context.Context, n Notification) error {
	var level sentry.Level
	switch n.Level {
	case LevelError:
		level = sentry.LevelError
	case LevelWarning:
		level = sentry.LevelWarning
	default:
		return nil
	}

	// no client means sentry was not initialised (no DSN)
	if s.hub.Client() == nil {
		return nil
	}

	var id *sentry.EventID
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		scope.SetTag("source", "notification")
		scope.SetExtra("time", n.Time.Format(time.RFC3339))
		id = s.hub.CaptureMessage(n.Message)
	})

	if id == nil {
		return ErrNotCaptured
	}

	return nil
}
