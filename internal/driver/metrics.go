package driver

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the driver's Prometheus collectors.
type Metrics struct {
	SpikesApplied  prometheus.Counter
	SpikesRejected *prometheus.CounterVec
	Runs           prometheus.Counter
	SimulatedTime  prometheus.Counter
	Binds          *prometheus.CounterVec
	BoundNeurons   prometheus.Gauge
}

// NewMetrics creates the driver collectors and registers them with reg.
// A nil reg leaves them unregistered, which is what tests and one-shot
// CLI commands want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SpikesApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neurograph",
			Subsystem: "driver",
			Name:      "spikes_applied_total",
			Help:      "Spikes forwarded to the processor.",
		}),
		SpikesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neurograph",
			Subsystem: "driver",
			Name:      "spikes_rejected_total",
			Help:      "Spikes rejected before reaching the processor, by reason.",
		}, []string{"reason"}),
		Runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neurograph",
			Subsystem: "driver",
			Name:      "runs_total",
			Help:      "Completed processor runs.",
		}),
		SimulatedTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neurograph",
			Subsystem: "driver",
			Name:      "simulated_time_total",
			Help:      "Simulated time units requested across runs.",
		}),
		Binds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neurograph",
			Subsystem: "driver",
			Name:      "binds_total",
			Help:      "Bind attempts, by result.",
		}, []string{"result"}),
		BoundNeurons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neurograph",
			Subsystem: "driver",
			Name:      "bound_neurons",
			Help:      "Neurons in the currently bound network.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SpikesApplied, m.SpikesRejected, m.Runs, m.SimulatedTime, m.Binds, m.BoundNeurons)
	}
	return m
}
