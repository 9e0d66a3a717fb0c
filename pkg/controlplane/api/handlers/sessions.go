package handlers

import (
	"context"
	"net/http"

	"github.com/docrep/docrep/pkg/session"
)

// roleRequest names a role for the session role endpoints.
type roleRequest struct {
	Role string `json:"role"`
}

// rolesResponse is the session's assumed-roles list in assumption order.
type rolesResponse struct {
	Roles []string `json:"roles"`
}

// AssumeRole handles POST /sessions/roles. Assuming a role requires active
// membership, not a permission grant; the empty permission label keeps it
// out of the authorization metrics.
func (h *Handler) AssumeRole() http.HandlerFunc {
	return h.envelope("", func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.AssumeRole(ctx, sess, req.Role); err != nil {
			return nil, err
		}
		return rolesResponse{Roles: sess.AssumedRoles()}, nil
	})
}

// DropRole handles DELETE /sessions/roles.
func (h *Handler) DropRole() http.HandlerFunc {
	return h.envelope("", func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req roleRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.DropRole(ctx, sess, req.Role); err != nil {
			return nil, err
		}
		return rolesResponse{Roles: sess.AssumedRoles()}, nil
	})
}

// ListSessionRoles handles GET /sessions/roles.
func (h *Handler) ListSessionRoles() http.HandlerFunc {
	return h.envelope("", func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		roles, err := h.svc.SessionRoles(ctx, sess)
		if err != nil {
			return nil, err
		}
		return rolesResponse{Roles: roles}, nil
	})
}
