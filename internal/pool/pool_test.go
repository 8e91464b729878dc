package pool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/lambda-feedback/warden/internal/pool"
)

func TestPool_New_InvalidSize(t *testing.T) {
	_, err := pool.New(0, zap.NewNop())
	assert.ErrorIs(t, err, pool.ErrInvalidSize)
}

func TestPool_Go_RunsTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, err := pool.New(3, zap.NewNop())
	require.NoError(t, err)

	done := make(chan struct{})
	err = p.Go(context.Background(), "task", func() { close(done) })
	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_Go_OccupiesSlot(t *testing.T) {
	p, err := pool.New(3, zap.NewNop())
	require.NoError(t, err)

	release := make(chan struct{})
	for range 3 {
		require.NoError(t, p.Go(context.Background(), "blocker", func() { <-release }))
	}

	assert.Equal(t, int32(3), p.Busy())
	assert.Equal(t, int32(3), p.Size())

	// a fourth task cannot get a slot while all three are busy
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = p.Go(ctx, "extra", func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_Shutdown_WaitsForTasks(t *testing.T) {
	p, err := pool.New(3, zap.NewNop())
	require.NoError(t, err)

	var finished atomic.Bool
	release := make(chan struct{})

	require.NoError(t, p.Go(context.Background(), "slow", func() {
		<-release
		finished.Store(true)
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
	assert.True(t, p.IsShutdown())
	assert.False(t, finished.Load())

	close(release)

	assert.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, finished.Load())
}

func TestPool_Go_RejectsAfterShutdown(t *testing.T) {
	p, err := pool.New(3, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.Shutdown(context.Background()))

	err = p.Go(context.Background(), "late", func() {})
	assert.ErrorIs(t, err, pool.ErrPoolClosed)
}

func TestPool_Go_RecoversPanic(t *testing.T) {
	p, err := pool.New(1, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.Go(context.Background(), "panics", func() { panic("boom") }))

	// the slot is released even though the task panicked
	ran := make(chan struct{})
	require.NoError(t, p.Go(context.Background(), "after", func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("slot was not released after panic")
	}

	assert.NoError(t, p.Shutdown(context.Background()))
}
