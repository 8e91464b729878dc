package notify_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lambda-feedback/warden/internal/notify"
)

func TestDispatcher_DeliversToAllSinks(t *testing.T) {
	a := notify.NewFeed(10)
	b := notify.NewFeed(10)

	d := notify.NewDispatcher(zap.NewNop(), a, b)
	d.Success("started")

	for _, feed := range []*notify.Feed{a, b} {
		recent := feed.Recent()
		if assert.Len(t, recent, 1) {
			assert.Equal(t, notify.LevelSuccess, recent[0].Level)
			assert.Equal(t, "started", recent[0].Message)
			assert.False(t, recent[0].Time.IsZero())
		}
	}
}

func TestDispatcher_SwallowsSinkErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	feed := notify.NewFeed(10)

	failing := notify.SinkFunc(func(context.Context, notify.Notification) error {
		return assert.AnError
	})

	d := notify.NewDispatcher(zap.New(core), failing, feed)

	assert.NotPanics(t, func() { d.Error("boom") })

	// later sinks still receive the message
	assert.Len(t, feed.Recent(), 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to deliver notification").Len())
}

func TestDispatcher_RecoversSinkPanics(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	feed := notify.NewFeed(10)

	panicking := notify.SinkFunc(func(context.Context, notify.Notification) error {
		panic("sink exploded")
	})

	d := notify.NewDispatcher(zap.New(core), panicking, feed)

	assert.NotPanics(t, func() { d.Warning("careful") })
	assert.Len(t, feed.Recent(), 1)
	assert.Equal(t, 1, logs.FilterMessage("notification sink panicked").Len())
}

func TestFeed_KeepsMostRecent(t *testing.T) {
	feed := notify.NewFeed(3)
	d := notify.NewDispatcher(zap.NewNop(), feed)

	for i := range 5 {
		d.Info(fmt.Sprintf("message %d", i))
	}

	recent := feed.Recent()
	if assert.Len(t, recent, 3) {
		assert.Equal(t, "message 2", recent[0].Message)
		assert.Equal(t, "message 3", recent[1].Message)
		assert.Equal(t, "message 4", recent[2].Message)
	}
}

func TestFeed_DefaultSize(t *testing.T) {
	feed := notify.NewFeed(0)
	d := notify.NewDispatcher(zap.NewNop(), feed)

	for range notify.DefaultFeedSize + 1 {
		d.Info("x")
	}

	assert.Len(t, feed.Recent(), notify.DefaultFeedSize)
}

func TestLogSink_UsesLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := notify.NewLogSink(zap.New(core))

	d := notify.NewDispatcher(zap.NewNop(), sink)
	d.Error("failure")
	d.Warning("warning")
	d.Info("info")

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, zap.InfoLevel, entries[2].Level)
	}
}

func TestSentrySink_NoClient_IsNoop(t *testing.T) {
	sink := notify.NewSentrySink(sentry.NewHub(nil, sentry.NewScope()))

	err := sink.Deliver(context.Background(), notify.Notification{
		Level:   notify.LevelError,
		Message: "crash",
	})
	assert.NoError(t, err)
}

func TestSentrySink_CapturesErrors(t *testing.T) {
	transport := &recordingTransport{}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:       "https://public@sentry.example.com/1",
		Transport: transport,
	})
	if !assert.NoError(t, err) {
		return
	}

	sink := notify.NewSentrySink(sentry.NewHub(client, sentry.NewScope()))

	assert.NoError(t, sink.Deliver(context.Background(), notify.Notification{
		Level:   notify.LevelError,
		Message: "gateway crashed",
	}))
	assert.NoError(t, sink.Deliver(context.Background(), notify.Notification{
		Level:   notify.LevelInfo,
		Message: "ignored",
	}))

	if assert.Len(t, transport.events, 1) {
		assert.Equal(t, "gateway crashed", transport.events[0].Message)
		assert.Equal(t, sentry.LevelError, transport.events[0].Level)
	}
}

type recordingTransport struct {
	events []*sentry.Event
}

func (t *recordingTransport) Configure(sentry.ClientOptions) {}
func (t *recordingTransport) Flush(time.Duration) bool       { return true }
func (t *recordingTransport) SendEvent(event *sentry.Event)  { t.events = append(t.events, event) }
func (t *recordingTransport) Close()                         {}
