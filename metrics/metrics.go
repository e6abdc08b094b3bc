package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricNamespace = "percona_lists"

// List kinds used as the "list" label value.
const (
	ExclusiveList = "exclusive"
	SharedList    = "shared"
)

// Counters.
var (
	//nolint:gochecknoglobals
	nodesAllocatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "nodes_allocated_total",
		Help:      "Total number of list nodes allocated.",
		Namespace: metricNamespace,
	}, []string{"list"})

	//nolint:gochecknoglobals
	nodesReleasedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "nodes_released_total",
		Help:      "Total number of list nodes released.",
		Namespace: metricNamespace,
	}, []string{"list"})

	//nolint:gochecknoglobals
	scenariosTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:      "scenarios_total",
		Help:      "Total number of scenario runs by result.",
		Namespace: metricNamespace,
	}, []string{"result"})
)

// Gauges.
var (
	//nolint:gochecknoglobals
	scenarioDurationSeconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:      "scenario_duration_seconds",
		Help:      "Duration of the last run of a scenario in seconds.",
		Namespace: metricNamespace,
	}, []string{"scenario"})
)

// Init initializes and registers the metrics.
func Init(reg prometheus.Registerer) {
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: metricNamespace,
	}))

	reg.MustRegister(
		nodesAllocatedTotal,
		nodesReleasedTotal,
		scenariosTotal,
		scenarioDurationSeconds,
	)
}

// AddNodesAllocated increments the allocated nodes counter for the list kind.
func AddNodesAllocated(kind string, v int) {
	nodesAllocatedTotal.WithLabelValues(kind).Add(float64(v))
}

// AddNodesReleased increments the released nodes counter for the list kind.
func AddNodesReleased(kind string, v int) {
	nodesReleasedTotal.WithLabelValues(kind).Add(float64(v))
}

// AddScenarioResult counts one scenario run as "ok" or "failed".
func AddScenarioResult(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}

	scenariosTotal.WithLabelValues(result).Inc()
}

// SetScenarioDuration sets the duration of the last run of the scenario.
func SetScenarioDuration(scenario string, dur time.Duration) {
	scenarioDurationSeconds.WithLabelValues(scenario).Set(dur.Seconds())
}
