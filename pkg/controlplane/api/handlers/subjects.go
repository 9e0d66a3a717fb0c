package handlers

import (
	"context"
	"net/http"

	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// subjectStatesRequest is the plaintext of GET /organizations/subjects/state.
// An empty username asks for every subject.
type subjectStatesRequest struct {
	Username string `json:"username,omitempty"`
}

// subjectStatesResponse maps username to lifecycle state.
type subjectStatesResponse struct {
	States map[string]models.SubjectState `json:"states"`
}

// createSubjectRequest is the plaintext of POST /organizations/subjects.
type createSubjectRequest struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	PublicKey string `json:"public_key"`
}

// setSubjectStateRequest is the plaintext of PUT /organizations/subjects/state.
type setSubjectStateRequest struct {
	Username string `json:"username"`
	State    string `json:"state"`
}

// statusResponse acknowledges a mutation with no other result.
type statusResponse struct {
	Status string `json:"status"`
}

var statusOK = statusResponse{Status: "ok"}

// SubjectStates handles GET /organizations/subjects/state. Readable by any
// active subject with a session; no permission grant is involved.
func (h *Handler) SubjectStates() http.HandlerFunc {
	return h.envelope("", func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req subjectStatesRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		states, err := h.svc.SubjectStates(ctx, sess, req.Username)
		if err != nil {
			return nil, err
		}
		return subjectStatesResponse{States: states}, nil
	})
}

// CreateSubject handles POST /organizations/subjects.
func (h *Handler) CreateSubject() http.HandlerFunc {
	return h.envelope(string(models.PermSubjectNew), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req createSubjectRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		if err := h.svc.CreateSubject(ctx, sess, req.Username, req.Name, req.Email, req.PublicKey); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// SetSubjectState handles PUT /organizations/subjects/state. The governing
// permission depends on the direction (SUBJECT_DOWN vs SUBJECT_UP), so the
// service resolves it and the metrics label is left empty.
func (h *Handler) SetSubjectState() http.HandlerFunc {
	return h.envelope("", func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req setSubjectStateRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		state := models.SubjectState(req.State)
		if !state.IsValid() {
			return nil, wire.Errorf(wire.KindBadRequest, "unknown subject state %q", req.State)
		}
		if err := h.svc.SetSubjectState(ctx, sess, req.Username, state); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}
