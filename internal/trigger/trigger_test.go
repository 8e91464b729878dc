package trigger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/session"
	"github.com/lambda-feedback/warden/internal/supervisor"
)

// --- Mock controller ---
type MockController struct {
	mock.Mock
}

func (m *MockController) CurrentStatus() supervisor.Status {
	args := m.Called()
	return args.Get(0).(supervisor.Status)
}

func (m *MockController) StartIfEnabled(ctx context.Context) supervisor.Status {
	args := m.Called(ctx)
	return args.Get(0).(supervisor.Status)
}

func (m *MockController) Stop() {
	m.Called()
}

// --- Mock notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Info(msg string)    { m.Called(msg) }
func (m *MockNotifier) Success(msg string) { m.Called(msg) }
func (m *MockNotifier) Warning(msg string) { m.Called(msg) }
func (m *MockNotifier) Error(msg string)   { m.Called(msg) }

var (
	stopped = supervisor.NewStatus(true, false, supervisor.MessageStopped)
	running = supervisor.NewStatus(true, true, supervisor.MessageRunning)
)

func newLogin(ctrl Controller, sessions session.Store, notifier *MockNotifier) *Login {
	return NewLogin("gateway", ctrl, sessions, notifier, zap.NewNop())
}

func TestLogin_OptedOut(t *testing.T) {
	ctrl := new(MockController)
	notifier := new(MockNotifier)

	sessions := session.NewMemoryStore()
	require.NoError(t, session.SetAutostart(sessions, "s1", false))

	res := newLogin(ctrl, sessions, notifier).OnLogin(context.Background(), "s1")

	assert.Equal(t, Result{Outcome: OutcomeSkipped}, res)
	ctrl.AssertNotCalled(t, "CurrentStatus")
	ctrl.AssertNotCalled(t, "StartIfEnabled", mock.Anything)
	notifier.AssertExpectations(t)
}

func TestLogin_AlreadyRunning(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("CurrentStatus").Return(running).Once()

	notifier := new(MockNotifier)
	notifier.On("Info", "gateway already running for everyone")

	res := newLogin(ctrl, session.NewMemoryStore(), notifier).OnLogin(context.Background(), "s1")

	assert.Equal(t, OutcomeAlreadyRunning, res.Outcome)
	require.NotNil(t, res.Status)
	assert.Equal(t, running, *res.Status)
	ctrl.AssertNotCalled(t, "StartIfEnabled", mock.Anything)
	ctrl.AssertExpectations(t)
}

func TestLogin_Started(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("CurrentStatus").Return(stopped).Twice()
	ctrl.On("StartIfEnabled", mock.Anything).Return(running).Once()

	notifier := new(MockNotifier)
	notifier.On("Success", "gateway started")

	// absent preference means autostart
	res := newLogin(ctrl, session.NewMemoryStore(), notifier).OnLogin(context.Background(), "s1")

	assert.Equal(t, OutcomeStarted, res.Outcome)
	ctrl.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestLogin_Disabled(t *testing.T) {
	disabled := supervisor.NewStatus(false, false, supervisor.MessageDisabledInSettings)

	ctrl := new(MockController)
	ctrl.On("CurrentStatus").Return(supervisor.NewStatus(false, false, supervisor.MessageDisabled))
	ctrl.On("StartIfEnabled", mock.Anything).Return(disabled).Once()

	notifier := new(MockNotifier)
	notifier.On("Warning", "gateway not started: disabled in settings")

	res := newLogin(ctrl, session.NewMemoryStore(), notifier).OnLogin(context.Background(), "s1")

	assert.Equal(t, OutcomeDisabled, res.Outcome)
	assert.Equal(t, disabled, *res.Status)
	notifier.AssertExpectations(t)
}

func TestLogin_Failed(t *testing.T) {
	failed := supervisor.NewStatus(true, false, "failed to start: exec format error")

	ctrl := new(MockController)
	ctrl.On("CurrentStatus").Return(stopped)
	ctrl.On("StartIfEnabled", mock.Anything).Return(failed).Once()

	notifier := new(MockNotifier)
	notifier.On("Error", "gateway failed to start: exec format error")

	res := newLogin(ctrl, session.NewMemoryStore(), notifier).OnLogin(context.Background(), "s1")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	notifier.AssertExpectations(t)
}

func TestLogin_UnreadablePreference(t *testing.T) {
	sessions := session.NewMemoryStore()
	require.NoError(t, sessions.Set("s1", session.KeyAutostart, 42))

	ctrl := new(MockController)
	ctrl.On("CurrentStatus").Return(stopped)
	ctrl.On("StartIfEnabled", mock.Anything).Return(running).Once()

	notifier := new(MockNotifier)
	notifier.On("Success", "gateway started")

	res := newLogin(ctrl, sessions, notifier).OnLogin(context.Background(), "s1")

	assert.Equal(t, OutcomeStarted, res.Outcome)
}

// fakeController is slow to start, widening the window for racing logins.
type fakeController struct {
	running atomic.Bool
	starts  atomic.Int32
}

func (c *fakeController) CurrentStatus() supervisor.Status {
	return supervisor.NewStatus(true, c.running.Load(), "")
}

func (c *fakeController) StartIfEnabled(context.Context) supervisor.Status {
	c.starts.Add(1)
	time.Sleep(20 * time.Millisecond)
	c.running.Store(true)
	return running
}

func (c *fakeController) Stop() {
	c.running.Store(false)
}

func TestLogin_Concurrent(t *testing.T) {
	ctrl := &fakeController{}

	notifier := new(MockNotifier)
	notifier.On("Info", "gateway already running for everyone")
	notifier.On("Success", "gateway started").Once()

	login := newLogin(ctrl, session.NewMemoryStore(), notifier)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			login.OnLogin(context.Background(), "s1")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ctrl.starts.Load())
	notifier.AssertNumberOfCalls(t, "Success", 1)
}

func TestStartup_Hook(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("StartIfEnabled", mock.Anything).Return(running).Once()
	ctrl.On("Stop").Once()

	hook := NewStartup(ctrl, zap.NewNop()).Hook()

	require.NoError(t, hook.OnStart(context.Background()))
	require.NoError(t, hook.OnStop(context.Background()))

	ctrl.AssertExpectations(t)
}

func TestStartup_StartFailureDoesNotFailApp(t *testing.T) {
	ctrl := new(MockController)
	ctrl.On("StartIfEnabled", mock.Anything).Return(supervisor.NewStatus(true, false, "executable not found at: /x")).Once()

	startup := NewStartup(ctrl, zap.NewNop())

	assert.NoError(t, startup.OnStart(context.Background()))
}

func TestStartup_StopTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	ctrl := new(MockController)
	ctrl.On("Stop").Run(func(mock.Arguments) { <-release }).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := NewStartup(ctrl, zap.NewNop()).OnStop(ctx)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
