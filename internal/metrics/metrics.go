package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Profile protocol metrics
var (
	CommandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsProcessed,
			Help: HelpTextCommandsProcessed,
		},
		[]string{LabelCommand},
	)

	ChangeRecordsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameChangeRecordsEmitted,
			Help: HelpTextChangeRecordsEmitted,
		},
		[]string{LabelCommand},
	)

	RevisionConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRevisionConflicts,
			Help: HelpTextRevisionConflicts,
		},
	)

	PersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePersistenceFailures,
			Help: HelpTextPersistenceFailures,
		},
	)
)

// Event and storage metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	SettingsUploads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSettingsUploads,
			Help: HelpTextSettingsUploads,
		},
	)
)
