package logger

import (
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// HTTP & Endpoint
	// ========================================================================
	KeyEndpoint = "endpoint" // Method + path: "POST /api/v1/organizations/documents"
	KeyStatus   = "status"   // HTTP status code
	KeyClientIP = "client_ip" // Client IP address (without port)

	// ========================================================================
	// Identity & Session
	// ========================================================================
	KeyOrganization = "organization" // Organization name
	KeySubject      = "subject"      // Subject username
	KeySessionID    = "session_id"   // Session identifier
	KeyMsgID        = "msg_id"       // Envelope message id
	KeyRole         = "role"         // Role name
	KeyPermission   = "permission"   // Permission name

	// ========================================================================
	// Documents & Blobs
	// ========================================================================
	KeyDocument   = "document"    // Document name
	KeyFileHandle = "file_handle" // Hex SHA-256 file handle
	KeyAlg        = "alg"         // Content encryption algorithm

	// ========================================================================
	// Storage Backend
	// ========================================================================
	KeyStoreType  = "store_type"  // Store type: memory, fs, badger, s3
	KeyBucket     = "bucket"      // Cloud bucket name
	KeyKey        = "key"         // Object key in cloud storage
	KeyRegion     = "region"      // Cloud region
	KeyAttempt    = "attempt"     // Retry attempt number
	KeyMaxRetries = "max_retries" // Maximum retry attempts

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyErrorKind  = "error_kind"  // Protocol error kind (REPLAY, ACL_DENIED, ...)
	KeyEntries    = "entries"     // Number of result entries
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// Endpoint returns a slog.Attr for the request endpoint
func Endpoint(e string) slog.Attr {
	return slog.String(KeyEndpoint, e)
}

// Status returns a slog.Attr for HTTP status code
func Status(code int) slog.Attr {
	return slog.Int(KeyStatus, code)
}

// ClientIP returns a slog.Attr for client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// Organization returns a slog.Attr for organization name
func Organization(name string) slog.Attr {
	return slog.String(KeyOrganization, name)
}

// Subject returns a slog.Attr for subject username
func Subject(username string) slog.Attr {
	return slog.String(KeySubject, username)
}

// SessionID returns a slog.Attr for session identifier
func SessionID(id uint64) slog.Attr {
	return slog.Uint64(KeySessionID, id)
}

// MsgID returns a slog.Attr for envelope message id
func MsgID(id uint64) slog.Attr {
	return slog.Uint64(KeyMsgID, id)
}

// Role returns a slog.Attr for role name
func Role(name string) slog.Attr {
	return slog.String(KeyRole, name)
}

// Permission returns a slog.Attr for permission name
func Permission(p string) slog.Attr {
	return slog.String(KeyPermission, p)
}

// Document returns a slog.Attr for document name
func Document(name string) slog.Attr {
	return slog.String(KeyDocument, name)
}

// FileHandle returns a slog.Attr for a hex file handle
func FileHandle(h string) slog.Attr {
	return slog.String(KeyFileHandle, h)
}

// Alg returns a slog.Attr for the content encryption algorithm
func Alg(alg string) slog.Attr {
	return slog.String(KeyAlg, alg)
}

// StoreType returns a slog.Attr for store type
func StoreType(t string) slog.Attr {
	return slog.String(KeyStoreType, t)
}

// Bucket returns a slog.Attr for cloud bucket name
func Bucket(name string) slog.Attr {
	return slog.String(KeyBucket, name)
}

// Key returns a slog.Attr for object key in cloud storage
func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

// Region returns a slog.Attr for cloud region
func Region(r string) slog.Attr {
	return slog.String(KeyRegion, r)
}

// Attempt returns a slog.Attr for retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// MaxRetries returns a slog.Attr for maximum retry attempts
func MaxRetries(n int) slog.Attr {
	return slog.Int(KeyMaxRetries, n)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorKind returns a slog.Attr for a protocol error kind
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

// Entries returns a slog.Attr for number of result entries
func Entries(n int) slog.Attr {
	return slog.Int(KeyEntries, n)
}
