package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Level is the severity of a user-facing notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a single user-facing message.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier delivers user-facing messages. Implementations never fail
// towards the caller.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// Sink receives notifications from a Dispatcher.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, n Notification) error

func (f SinkFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// Dispatcher fans notifications out to a set of sinks. Errors and panics
// raised by a sink are logged and otherwise dropped.
type Dispatcher struct {
	sinks []Sink
	now   func() time.Time
	log   *zap.Logger
}

var _ Notifier = (*Dispatcher)(nil)

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks: sinks,
		now:   time.Now,
		log:   log.Named("notify"),
	}
}

func (d *Dispatcher) Info(msg string) {
	d.dispatch(LevelInfo, msg)
}

func (d *Dispatcher) Success(msg string) {
	d.dispatch(LevelSuccess, msg)
}

func (d *Dispatcher) Warning(msg string) {
	d.dispatch(LevelWarning, msg)
}

func (d *Dispatcher) Error(msg string) {
	d.dispatch(LevelError, msg)
}

func (d *Dispatcher) dispatch(level Level, msg string) {
	n := Notification{
		Level:   level,
		Message: msg,
		Time:    d.now(),
	}

	for _, sink := range d.sinks {
		d.deliver(sink, n)
	}
}

func (d *Dispatcher) deliver(sink Sink, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification sink panicked",
				zap.String("sink", fmt.Sprintf("%T", sink)),
				zap.Any("panic", r),
			)
		}
	}()

	if err := sink.Deliver(context.Background(), n); err != nil {
		d.log.Warn("failed to deliver notification",
			zap.String("sink", fmt.Sprintf("%T", sink)),
			zap.String("level", string(n.Level)),
			zap.Error(err),
		)
	}
}

// Nop is a Notifier that discards every message.
type Nop struct{}

func (Nop) Info(string)    {}
func (Nop) Success(string) {}
func (Nop) Warning(string) {}
func (Nop) Error(string)   {}
