package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/warden/internal/metrics"
	"github.com/lambda-feedback/warden/internal/supervisor"
)

func TestMetrics_Lifecycle(t *testing.T) {
	m, err := metrics.New("gateway")
	require.NoError(t, err)

	m.Launched(100)
	m.Exited(100, supervisor.ExitEvent{}, false)
	m.LaunchFailed(errors.New("boom"))
	m.Launched(101)
	m.ForceKilled(101)
	m.Exited(101, supervisor.ExitEvent{}, true)

	mfs, err := m.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, label := range metric.GetLabel() {
				if label.GetName() == "reason" {
					name += "/" + label.GetValue()
				}
			}
			switch {
			case metric.GetCounter() != nil:
				values[name] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[name] = metric.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["warden_gateway_launches_total"])
	assert.Equal(t, 1.0, values["warden_gateway_launch_failures_total"])
	assert.Equal(t, 1.0, values["warden_gateway_exits_total/crash"])
	assert.Equal(t, 1.0, values["warden_gateway_exits_total/requested"])
	assert.Equal(t, 1.0, values["warden_gateway_force_kills_total"])
	assert.Equal(t, 0.0, values["warden_gateway_running"])
}

func TestMetrics_RunningGauge(t *testing.T) {
	m, err := metrics.New("gateway")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "warden_gateway_running")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	m.Launched(1)

	mfs, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "warden_gateway_running" {
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetGauge().GetValue())
			assert.Equal(t, "gateway", mf.GetMetric()[0].GetLabel()[0].GetValue())
		}
	}
}

func TestMetrics_Handler(t *testing.T) {
	m, err := metrics.New("gateway")
	require.NoError(t, err)

	m.Launched(1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `warden_gateway_launches_total{name="gateway"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
