package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lambda-feedback/warden/internal/supervisor"
)

const namespace = "warden"

// Metrics records gateway lifecycle events as Prometheus metrics. It
// implements supervisor.Observer.
type Metrics struct {
	name string

	launches       prometheus.Counter
	launchFailures prometheus.Counter
	exits          *prometheus.CounterVec
	forceKills     prometheus.Counter
	running        prometheus.Gauge

	registry *prometheus.Registry
}

var _ supervisor.Observer = (*Metrics)(nil)

// New creates the collectors for the named gateway and registers them,
// together with the Go runtime and process collectors, on a dedicated
// registry.
func New(name string) (*Metrics, error) {
	labels := prometheus.Labels{"name": name}

	m := &Metrics{
		name: name,
		launches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "gateway",
			Name:        "launches_total",
			Help:        "Number of successful gateway launches.",
			ConstLabels: labels,
		}),
		launchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "gateway",
			Name:        "launch_failures_total",
			Help:        "Number of gateway launches that failed to spawn.",
			ConstLabels: labels,
		}),
		exits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "gateway",
			Name:        "exits_total",
			Help:        "Number of gateway exits, by whether they were requested or crashes.",
			ConstLabels: labels,
		}, []string{"reason"}),
		forceKills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "gateway",
			Name:        "force_kills_total",
			Help:        "Number of stops that escalated to SIGKILL after the graceful timeout.",
			ConstLabels: labels,
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "gateway",
			Name:        "running",
			Help:        "Whether a gateway process is currently running (1) or not (0).",
			ConstLabels: labels,
		}),
		registry: prometheus.NewRegistry(),
	}

	cs := []prometheus.Collector{
		m.launches,
		m.launchFailures,
		m.exits,
		m.forceKills,
		m.running,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}

	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Launched(int) {
	m.launches.Inc()
	m.running.Set(1)
}

func (m *Metrics) LaunchFailed(error) {
	m.launchFailures.Inc()
}

func (m *Metrics) Exited(_ int, _ supervisor.ExitEvent, requested bool) {
	reason := "crash"
	if requested {
		reason = "requested"
	}

	m.exits.WithLabelValues(reason).Inc()
	m.running.Set(0)
}

func (m *Metrics) ForceKilled(int) {
	m.forceKills.Inc()
}
