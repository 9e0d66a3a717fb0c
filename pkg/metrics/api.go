package metrics

import (
	"time"
)

// APIMetrics provides observability for the repository HTTP API.
//
// This interface is optional - pass nil to disable metrics collection with
// zero overhead.
//
// Example usage:
//
//	// With metrics enabled
//	metrics.InitRegistry()
//	m := prometheus.NewAPIMetrics()
//	srv := api.NewServer(cfg, svc, m)
//
//	// Without metrics (pass nil for zero overhead)
//	srv := api.NewServer(cfg, svc, nil)
type APIMetrics interface {
	// RecordRequest records a completed request with its endpoint, HTTP
	// status, and duration.
	RecordRequest(endpoint string, status int, duration time.Duration)

	// RecordProtocolFailure records a request rejected at the envelope layer
	// (AUTH_FAIL, REPLAY, SESSION_EXPIRED, SESSION_UNKNOWN).
	RecordProtocolFailure(kind string)

	// RecordAuthzDecision records an authorization decision for a permission.
	// Outcome is "allow" or the denial kind.
	RecordAuthzDecision(permission string, outcome string)

	// RecordHandshake records a session handshake attempt.
	// Outcome is "ok" or "rejected".
	RecordHandshake(outcome string)

	// SetActiveSessions updates the current live session count.
	SetActiveSessions(count int)

	// RecordSessionsExpired adds to the total of sessions removed by the
	// expiry sweeper.
	RecordSessionsExpired(count int)
}

// BlobMetrics provides observability for blob store backends.
//
// This interface is optional - pass nil to disable metrics collection.
type BlobMetrics interface {
	// RecordOperation records a blob operation ("put", "get", "delete") with
	// its backend type, duration, and outcome ("ok" or "error").
	RecordOperation(op string, storeType string, duration time.Duration, outcome string)

	// RecordBytes records the payload size of a put or get.
	RecordBytes(op string, storeType string, bytes int)
}
