package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"

	MetricNameCommandsProcessed    = "profile_commands_processed_total"
	MetricNameChangeRecordsEmitted = "profile_change_records_total"
	MetricNameRevisionConflicts    = "profile_revision_conflicts_total"
	MetricNamePersistenceFailures  = "profile_persistence_failures_total"
	MetricNameEventsPublished      = "events_published_total"
	MetricNameSettingsUploads      = "settings_uploads_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests processed"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Number of HTTP requests currently being served"

	HelpTextCommandsProcessed    = "Total number of profile commands processed"
	HelpTextChangeRecordsEmitted = "Total number of change records emitted in command responses"
	HelpTextRevisionConflicts    = "Total number of profile commits rejected by the optimistic revision check"
	HelpTextPersistenceFailures  = "Total number of profile persistence failures after response delivery"
	HelpTextEventsPublished      = "Total number of events published on the internal bus"
	HelpTextSettingsUploads      = "Total number of client settings files stored"
)

// Label names
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelCommand = "command"
	LabelType    = "type"
)

// HTTPLatencyBuckets are the histogram buckets for request latency.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
