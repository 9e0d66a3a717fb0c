package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for repository spans. OpenTelemetry semantic conventions
// are followed where one applies.
const (
	AttrClientAddr = "client.address"

	AttrEndpoint  = "api.endpoint"
	AttrStatus    = "api.status"
	AttrMsgID     = "api.msg_id"
	AttrSessionID = "api.session_id"
	AttrErrorKind = "api.error_kind"

	AttrOrganization = "rbac.organization"
	AttrUsername     = "user.name"
	AttrPermission   = "rbac.permission"
	AttrOutcome      = "rbac.outcome"

	AttrDocument   = "doc.name"
	AttrFileHandle = "doc.file_handle"
	AttrSize       = "doc.size"
)

// Span names, <component>.<operation>.
const (
	SpanAPIRequest   = "api.request"
	SpanHandshake    = "auth.handshake"
	SpanEnvelopeOpen = "envelope.open"
	SpanAuthorize    = "authz.check"
)

func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

func Endpoint(name string) attribute.KeyValue {
	return attribute.String(AttrEndpoint, name)
}

func Status(status int) attribute.KeyValue {
	return attribute.Int(AttrStatus, status)
}

func MsgID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrMsgID, int64(id))
}

func SessionID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrSessionID, int64(id))
}

func ErrorKind(kind string) attribute.KeyValue {
	return attribute.String(AttrErrorKind, kind)
}

func Organization(name string) attribute.KeyValue {
	return attribute.String(AttrOrganization, name)
}

func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

func Permission(name string) attribute.KeyValue {
	return attribute.String(AttrPermission, name)
}

func Outcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

func Document(name string) attribute.KeyValue {
	return attribute.String(AttrDocument, name)
}

func FileHandle(handle string) attribute.KeyValue {
	return attribute.String(AttrFileHandle, handle)
}

func Size(size int) attribute.KeyValue {
	return attribute.Int(AttrSize, size)
}

// StartAuthzSpan starts a span for one authorization decision.
func StartAuthzSpan(ctx context.Context, permission string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{Permission(permission)}, attrs...)
	return StartSpan(ctx, SpanAuthorize, trace.WithAttributes(all...))
}

// StartBlobSpan starts a span for a blob store operation ("put", "get",
// "delete"), named blob.<operation>.
func StartBlobSpan(ctx context.Context, operation, handle string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{FileHandle(handle)}, attrs...)
	return StartSpan(ctx, "blob."+operation, trace.WithAttributes(all...))
}
