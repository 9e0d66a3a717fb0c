// Package handlers provides the HTTP handlers for the repository API:
// the signed handshake endpoints, the envelope-wrapped session endpoints,
// and the public file download.
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/docrep/docrep/internal/logger"
	"github.com/docrep/docrep/pkg/wire"
)

// StatusProtocolFailure is returned when a request fails before (or while)
// the session envelope can be processed: unknown or expired session, replay,
// or envelope authentication failure. The body is plaintext because no
// trusted channel exists for the response.
const StatusProtocolFailure = 499

// writeJSON writes a JSON response with the given status code.
//
// The response is written with Content-Type: application/json header.
// Encoding is done to a buffer first to ensure we can return an error
// response if encoding fails (before headers are sent).
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	// Encode to buffer first to catch encoding errors before sending headers
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"INTERNAL","detail":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeProtocolFailure writes a plaintext 499 response carrying the failure
// kind. Used whenever no session key can be trusted for an encrypted reply.
func writeProtocolFailure(w http.ResponseWriter, kind wire.Kind, detail string) {
	writeJSON(w, StatusProtocolFailure, wire.ErrorBody{Error: kind, Detail: detail})
}

// writeError maps an error to a plaintext protocol failure. Errors without
// a wire kind are reported as BAD_REQUEST without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	kind := wire.KindOf(err)
	if kind == "" {
		logger.Error("Unclassified handler error", "error", err)
		writeProtocolFailure(w, wire.KindBadRequest, "request failed")
		return
	}
	writeProtocolFailure(w, kind, err.Error())
}

// decodeBody decodes a JSON request body into out.
func decodeBody(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return wire.Errorf(wire.KindBadRequest, "malformed request body")
	}
	return nil
}
