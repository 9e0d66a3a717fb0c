package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/docrep/docrep/internal/logger"
	"github.com/docrep/docrep/pkg/wire"
)

// ListOrganizations handles GET /organizations/. Unauthenticated: the
// organization namespace is public, everything inside it is not.
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.svc.ListOrganizations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"organizations": orgs})
}

// fileRequest is the plaintext body of GET /files/.
type fileRequest struct {
	FileHandle string `json:"file_handle"`
}

// GetFile handles GET /files/. Unauthenticated: the blob is ciphertext and
// the handle is unguessable, so possession of handle and content key (both
// obtained through an authorized metadata read) gates plaintext access. The
// response is signed so clients can reject substituted payloads.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	content, err := h.svc.GetFile(r.Context(), req.FileHandle)
	if err != nil {
		writeError(w, err)
		return
	}

	env, err := wire.NewSignedEnvelope(h.serverKey, wire.FileResponsePayload{
		FileHandle:  req.FileHandle,
		FileContent: base64.StdEncoding.EncodeToString(content),
	})
	if err != nil {
		logger.Error("Failed to sign file response", logger.Err(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, env)
}
