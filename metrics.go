package authgate

import (
	internalmetrics "github.com/authgate/authgate/internal/metrics"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricSignUpSuccess counts successful account creations.
	MetricSignUpSuccess = internalmetrics.MetricSignUpSuccess
	// MetricSignUpDuplicate counts sign-up attempts on taken emails.
	MetricSignUpDuplicate = internalmetrics.MetricSignUpDuplicate
	// MetricSignUpFailure counts sign-ups rejected for invalid input or
	// backend failure.
	MetricSignUpFailure = internalmetrics.MetricSignUpFailure
	// MetricSignInSuccess counts successful credential verifications.
	MetricSignInSuccess = internalmetrics.MetricSignInSuccess
	// MetricSignInFailure counts rejected credential verifications.
	MetricSignInFailure = internalmetrics.MetricSignInFailure
	// MetricRefreshSuccess counts completed token rotations.
	MetricRefreshSuccess = internalmetrics.MetricRefreshSuccess
	// MetricRefreshFailure counts refreshes rejected for invalid tokens,
	// missing sessions, or lost rotation races.
	MetricRefreshFailure = internalmetrics.MetricRefreshFailure
	// MetricRefreshReuseDetected counts refresh tokens presented after they
	// were already rotated out.
	MetricRefreshReuseDetected = internalmetrics.MetricRefreshReuseDetected
	// MetricLogout counts logout operations.
	MetricLogout = internalmetrics.MetricLogout
	// MetricSessionCreated counts sessions established by sign-up and
	// sign-in.
	MetricSessionCreated = internalmetrics.MetricSessionCreated
	// MetricSessionInvalidated counts sessions cleared by logout.
	MetricSessionInvalidated = internalmetrics.MetricSessionInvalidated
	// MetricValidateLatency is the access-token validation latency
	// histogram.
	MetricValidateLatency = internalmetrics.MetricValidateLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
