package handlers

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/docrep/docrep/internal/logger"
	"github.com/docrep/docrep/internal/telemetry"
	"github.com/docrep/docrep/pkg/metrics"
	"github.com/docrep/docrep/pkg/repository/service"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// Handler bundles the dependencies every endpoint needs: the service layer,
// the session registry, the server's long-term signing key, and optional
// metrics.
type Handler struct {
	svc       *service.Service
	registry  *session.Registry
	serverKey *ecdsa.PrivateKey
	metrics   metrics.APIMetrics
}

// New creates the handler set. Metrics may be nil.
func New(svc *service.Service, registry *session.Registry, serverKey *ecdsa.PrivateKey, m metrics.APIMetrics) *Handler {
	return &Handler{
		svc:       svc,
		registry:  registry,
		serverKey: serverKey,
		metrics:   m,
	}
}

// envelopeFunc handles the decrypted plaintext of one authenticated request.
// The session lock is held for the whole call; implementations must not
// retain sess past their return.
type envelopeFunc func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error)

// envelope wraps an envelopeFunc with the session protocol:
//
//	decode envelope -> look up session -> lock -> check expiry ->
//	open AEAD -> accept msg_id -> handle -> seal response
//
// Failures before the envelope opens and replay rejections cannot be
// answered under a trusted key, so they return 499 with a plaintext error
// body. Once the message is accepted, every outcome - success or denial -
// is sealed under the session key: 200 for success, 403 for any error.
//
// The per-session lock is held from the expiry check through sealing so
// msg-id progression and role mutation are linearizable per session.
func (h *Handler) envelope(permission string, fn envelopeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var env wire.Envelope
		if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
			h.protocolFailure(w, wire.KindBadRequest, "malformed envelope")
			return
		}

		ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanEnvelopeOpen,
			trace.WithAttributes(
				telemetry.SessionID(env.AssociatedData.SessionID),
				telemetry.MsgID(env.AssociatedData.MsgID)))
		defer span.End()

		reject := func(kind wire.Kind, detail string) {
			span.SetAttributes(telemetry.ErrorKind(string(kind)))
			h.protocolFailure(w, kind, detail)
		}

		sess, err := h.registry.Get(env.AssociatedData.SessionID)
		if err != nil {
			reject(wire.KindSessionUnknown, "unknown session")
			return
		}

		sess.Lock()
		defer sess.Unlock()

		if sess.Expired(time.Now()) {
			h.registry.Delete(sess.ID)
			h.recordSessions()
			reject(wire.KindSessionExpired, "session expired")
			return
		}

		plaintext, err := wire.Open(sess.Key, &env)
		if err != nil {
			reject(wire.KindOf(err), err.Error())
			return
		}

		if err := sess.Accept(env.AssociatedData.MsgID); err != nil {
			reject(wire.KindReplay, "message id not strictly increasing")
			return
		}

		lc := logger.NewLogContext(r.RemoteAddr).
			WithEndpoint(r.Method + " " + r.URL.Path).
			WithSession(sess.Organization, sess.Username, sess.ID)
		lc.TraceID = telemetry.TraceID(ctx)
		ctx = logger.WithContext(ctx, lc)

		result, err := fn(ctx, sess, plaintext)
		if err != nil {
			h.sealError(w, sess, permission, err)
			return
		}
		logger.DebugCtx(ctx, "Envelope request handled",
			"msg_id", env.AssociatedData.MsgID, "duration_ms", lc.DurationMs())

		if h.metrics != nil && permission != "" {
			h.metrics.RecordAuthzDecision(permission, "allow")
		}
		h.sealResponse(w, sess, http.StatusOK, result)
	}
}

// sealError encrypts an error body under the session key and answers 403.
// Callers must hold the session lock.
func (h *Handler) sealError(w http.ResponseWriter, sess *session.Session, permission string, err error) {
	kind := wire.KindOf(err)
	body := wire.ErrorBody{Error: kind, Detail: err.Error()}
	if kind == "" {
		logger.Error("Unclassified service error",
			logger.SessionID(sess.ID), logger.Err(err))
		body = wire.ErrorBody{Error: wire.KindBadRequest, Detail: "request failed"}
	}

	if h.metrics != nil && permission != "" {
		h.metrics.RecordAuthzDecision(permission, string(body.Error))
	}
	h.sealResponse(w, sess, http.StatusForbidden, body)
}

// sealResponse encrypts a payload under the session key with the next
// msg id and writes it. Callers must hold the session lock.
func (h *Handler) sealResponse(w http.ResponseWriter, sess *session.Session, status int, payload any) {
	out, err := wire.Seal(sess.Key, sess.NextMsgID(), sess.ID, payload)
	if err != nil {
		logger.Error("Failed to seal response",
			logger.SessionID(sess.ID), logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, out)
}

// protocolFailure records the failure kind and writes the plaintext 499.
func (h *Handler) protocolFailure(w http.ResponseWriter, kind wire.Kind, detail string) {
	if kind == "" {
		kind = wire.KindBadRequest
	}
	if h.metrics != nil {
		h.metrics.RecordProtocolFailure(string(kind))
	}
	writeProtocolFailure(w, kind, detail)
}

// recordSessions pushes the live session count to metrics.
func (h *Handler) recordSessions() {
	if h.metrics != nil {
		h.metrics.SetActiveSessions(h.registry.Len())
	}
}

// decodePayload unmarshals a decrypted plaintext into out. An empty
// plaintext is accepted as an empty object so read endpoints can take `{}`
// or nothing.
func decodePayload(plaintext []byte, out any) error {
	if len(plaintext) == 0 {
		return nil
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return wire.Errorf(wire.KindBadRequest, "malformed payload")
	}
	return nil
}
