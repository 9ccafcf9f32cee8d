// Package metrics exposes notifier telemetry as Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "notifier"

// Collector groups the notifier metrics. A nil *Collector is valid and
// records nothing, so callers never branch on "metrics enabled".
type Collector struct {
	produced       *prometheus.CounterVec
	delivered      *prometheus.CounterVec
	drained        prometheus.Counter
	drains         prometheus.Counter
	discarded      prometheus.Counter
	queueDepth     prometheus.Gauge
	running        prometheus.Gauge
	workerStarts   *prometheus.CounterVec
	workerFailures *prometheus.CounterVec
	drainBatch     prometheus.Histogram
}

// New creates the collectors and registers them on reg (nil: not registered).
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		produced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_produced_total",
			Help:      "Envelopes produced by the worker, per source.",
		}, []string{"source"}),
		delivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_delivered_total",
			Help:      "Envelopes handed to a delivery sink, per mode.",
		}, []string{"mode"}),
		drained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_drained_total",
			Help:      "Envelopes moved to the host by queue drains.",
		}),
		drains: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drains_total",
			Help:      "Queue drain calls.",
		}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_discarded_total",
			Help:      "Queued envelopes torn down by stop before being drained.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Envelopes waiting in the pull queue.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worker_running",
			Help:      "1 while a worker occupies the lifecycle slot.",
		}),
		workerStarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_starts_total",
			Help:      "Workers started, per delivery mode.",
		}, []string{"mode"}),
		workerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_failures_total",
			Help:      "Workers that ended abnormally, per error category.",
		}, []string{"category"}),
		drainBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "drain_batch_size",
			Help:      "Envelopes moved per drain call.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
		}),
	}

	if reg == nil {
		return c, nil
	}

	for _, col := range []prometheus.Collector{
		c.produced, c.delivered, c.drained, c.drains, c.discarded,
		c.queueDepth, c.running, c.workerStarts, c.workerFailures, c.drainBatch,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Produced counts one envelope from source.
func (c *Collector) Produced(source string) {
	if c == nil {
		return
	}
	c.produced.WithLabelValues(source).Inc()
}

// Delivered counts one envelope handed to a sink in mode.
func (c *Collector) Delivered(mode string) {
	if c == nil {
		return
	}
	c.delivered.WithLabelValues(mode).Inc()
}

// Drained records one drain call that moved n envelopes.
func (c *Collector) Drained(n int) {
	if c == nil {
		return
	}
	c.drains.Inc()
	c.drained.Add(float64(n))
	c.drainBatch.Observe(float64(n))
}

// Discarded counts envelopes dropped by stop.
func (c *Collector) Discarded(n int) {
	if c == nil || n == 0 {
		return
	}
	c.discarded.Add(float64(n))
}

// QueueDepth sets the current pull queue length.
func (c *Collector) QueueDepth(n int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(n))
}

// WorkerStarted records a successful start in mode.
func (c *Collector) WorkerStarted(mode string) {
	if c == nil {
		return
	}
	c.workerStarts.WithLabelValues(mode).Inc()
	c.running.Set(1)
}

// WorkerStopped records that the slot is empty again. category is empty for
// clean exits.
func (c *Collector) WorkerStopped(category string) {
	if c == nil {
		return
	}
	c.running.Set(0)
	if category != "" {
		c.workerFailures.WithLabelValues(category).Inc()
	}
}
