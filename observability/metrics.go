// Package observability exposes the container's activity as Prometheus metrics.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chatfeed"

// Metrics implements projection.Observer and the channel sampling observer of the workers.
type Metrics struct {
	appended        *prometheus.CounterVec
	filtered        prometheus.Gauge
	rebuildDuration prometheus.Histogram
	activeUsers     prometheus.Gauge
	bufferLength    *prometheus.GaugeVec
	bufferCapacity  *prometheus.GaugeVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		appended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_appended_total",
			Help:      "Messages appended to the source log, by whether they passed the filter.",
		}, []string{"included"}),
		filtered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filtered_messages",
			Help:      "Current length of the filtered view.",
		}),
		rebuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Time taken to rebuild the filtered view.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		activeUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_users",
			Help:      "Distinct users who commented within the activity window at the last estimation.",
		}),
		bufferLength: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_length",
			Help:      "Items waiting in a session channel.",
		}, []string{"channel"}),
		bufferCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channel_capacity",
			Help:      "Buffer size of a session channel.",
		}, []string{"channel"}),
	}
	reg.MustRegister(m.appended, m.filtered, m.rebuildDuration, m.activeUsers, m.bufferLength, m.bufferCapacity)
	return m
}

func (m *Metrics) MessageAppended(included bool, filtered int) {
	m.appended.WithLabelValues(strconv.FormatBool(included)).Inc()
	m.filtered.Set(float64(filtered))
}

func (m *Metrics) RebuildCompleted(duration time.Duration, filtered int) {
	m.rebuildDuration.Observe(duration.Seconds())
	m.filtered.Set(float64(filtered))
}

func (m *Metrics) ActiveUsersEstimated(users int) {
	m.activeUsers.Set(float64(users))
}

func (m *Metrics) BufferSampled(name string, length, capacity int) {
	m.bufferLength.WithLabelValues(name).Set(float64(length))
	m.bufferCapacity.WithLabelValues(name).Set(float64(capacity))
}
