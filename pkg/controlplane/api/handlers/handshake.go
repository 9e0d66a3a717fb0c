package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/docrep/docrep/internal/logger"
	"github.com/docrep/docrep/internal/telemetry"
	"github.com/docrep/docrep/pkg/crypto/handshake"
	"github.com/docrep/docrep/pkg/wire"
)

// CreateOrganization handles POST /auth/organization.
//
// The request is plaintext: the caller has no key material registered yet.
// The response echoes the request signed under the server's long-term key so
// the caller can pin the server identity it just enrolled with.
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req wire.CreateOrgRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.CreateOrganization(r.Context(), req.Organization, req.Username, req.Name, req.Email, req.PublicKey); err != nil {
		writeError(w, err)
		return
	}

	env, err := wire.NewSignedEnvelope(h.serverKey, req)
	if err != nil {
		logger.Error("Failed to sign organization response", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

// CreateSession handles POST /auth/session.
//
// The request carries the client's ephemeral public key signed under the
// subject's registered long-term key. On success the server registers a
// session keyed by the ECDH-derived channel key and answers with its own
// signed ephemeral key, so both sides derive the same key and the client
// can authenticate the server.
//
// All failures here predate a session key, so they are plaintext 499s.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanHandshake)
	defer span.End()
	r = r.WithContext(ctx)

	var env wire.SignedEnvelope
	if err := decodeBody(r, &env); err != nil {
		h.rejectHandshake(w, err)
		return
	}

	// The payload is read before the signature check: the subject's key to
	// verify against is named inside it.
	var payload wire.SessionRequestPayload
	if err := json.Unmarshal([]byte(env.AssociatedData), &payload); err != nil {
		h.rejectHandshake(w, wire.Errorf(wire.KindBadRequest, "malformed handshake payload"))
		return
	}

	pub, err := h.svc.SubjectPublicKey(r.Context(), payload.Organization, payload.Username)
	if err != nil {
		h.rejectHandshake(w, err)
		return
	}

	if err := env.Verify(pub, nil); err != nil {
		h.rejectHandshake(w, err)
		return
	}

	eph, err := handshake.NewEphemeral()
	if err != nil {
		logger.Error("Failed to generate ephemeral key", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	serverPEM, err := eph.PublicKeyPEM()
	if err != nil {
		logger.Error("Failed to encode ephemeral key", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	key, err := eph.DeriveKey(payload.ClientEphemeralPublicKey)
	if err != nil {
		h.rejectHandshake(w, wire.Errorf(wire.KindBadRequest, "unusable client ephemeral key"))
		return
	}

	sess := h.registry.Create(payload.Organization, payload.Username, key)
	h.recordSessions()
	span.SetAttributes(
		telemetry.Organization(payload.Organization),
		telemetry.Username(payload.Username),
		telemetry.SessionID(sess.ID))

	resp, err := wire.NewSignedEnvelope(h.serverKey, wire.SessionResponsePayload{
		SessionID:                sess.ID,
		ServerEphemeralPublicKey: serverPEM,
	})
	if err != nil {
		h.registry.Delete(sess.ID)
		h.recordSessions()
		logger.Error("Failed to sign session response", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordHandshake("ok")
	}
	logger.Info("Session established",
		logger.SessionID(sess.ID),
		logger.Organization(payload.Organization),
		logger.Subject(payload.Username))
	writeJSON(w, http.StatusOK, resp)
}

// rejectHandshake counts the failed attempt and writes the plaintext 499.
func (h *Handler) rejectHandshake(w http.ResponseWriter, err error) {
	if h.metrics != nil {
		h.metrics.RecordHandshake("rejected")
	}
	writeError(w, err)
}
