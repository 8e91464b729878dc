//go:build unix

package supervisor_test

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/warden/internal/supervisor"
)

func TestSupervisor_Crash_KilledExternally(t *testing.T) {
	f := newScriptFixture(t, politeScript)

	require.True(t, f.sup.StartIfEnabled(context.Background()).Running)

	require.NoError(t, syscall.Kill(f.pid(t), syscall.SIGKILL))
	f.awaitCrash(t)

	assert.False(t, f.sup.IsRunning())
	assert.Equal(t, supervisor.NewStatus(true, false, "stopped"), f.sup.CurrentStatus())
	assert.Zero(t, f.observer.requestedExits.Load())

	errs := f.errorNotifications()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "terminated unexpectedly")
	assert.Contains(t, errs[0], "signal: killed")
}
