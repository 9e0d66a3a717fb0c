package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/docrep/docrep/pkg/repository/models"
	"github.com/docrep/docrep/pkg/repository/store"
	"github.com/docrep/docrep/pkg/session"
	"github.com/docrep/docrep/pkg/wire"
)

// dateLayout is the wire format of the document date filter, day granularity.
const dateLayout = "02-01-2006"

// listDocumentsRequest is the plaintext of GET /organizations/documents.
// date_filter is one of "nt" (newer than), "ot" (older than), "eq" (same
// day); date_str is DD-MM-YYYY.
type listDocumentsRequest struct {
	Creator    string `json:"creator,omitempty"`
	DateFilter string `json:"date_filter,omitempty"`
	DateStr    string `json:"date_str,omitempty"`
}

// documentsResponse lists document metadata.
type documentsResponse struct {
	Documents []*models.Document `json:"documents"`
}

// createDocumentRequest is the plaintext of POST /organizations/documents.
// The encryption file is the client-encrypted blob; the server stores it
// without ever seeing the plaintext.
type createDocumentRequest struct {
	EncryptionFile string `json:"encryption_file"`
	FileHandle     string `json:"file_handle"`
	Name           string `json:"name"`
	Key            string `json:"key"`
	Alg            string `json:"alg"`
}

// documentNameRequest names a document.
type documentNameRequest struct {
	DocumentName string `json:"document_name"`
}

// deleteDocumentResponse carries the cleared file handle.
type deleteDocumentResponse struct {
	FileHandle string `json:"file_handle"`
}

// documentACLRequest is the plaintext of POST /organizations/documents/acl.
// Operation is "+" to grant, "-" to revoke.
type documentACLRequest struct {
	DocumentName string `json:"document_name"`
	Operation    string `json:"operation"`
	Role         string `json:"role"`
	Permission   string `json:"permission"`
}

// ListDocuments handles GET /organizations/documents.
func (h *Handler) ListDocuments() http.HandlerFunc {
	return h.envelope(string(models.PermDocRead), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req listDocumentsRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}

		filter := store.DocumentFilter{Creator: req.Creator}
		if req.DateFilter != "" {
			switch req.DateFilter {
			case "nt", "ot", "eq":
				filter.DateOp = req.DateFilter
			default:
				return nil, wire.Errorf(wire.KindBadRequest, "unknown date filter %q", req.DateFilter)
			}
			date, err := time.Parse(dateLayout, req.DateStr)
			if err != nil {
				return nil, wire.Errorf(wire.KindBadRequest, "date must be DD-MM-YYYY")
			}
			filter.Date = date
		}

		docs, err := h.svc.ListDocuments(ctx, sess, filter)
		if err != nil {
			return nil, err
		}
		return documentsResponse{Documents: docs}, nil
	})
}

// CreateDocument handles POST /organizations/documents.
func (h *Handler) CreateDocument() http.HandlerFunc {
	return h.envelope(string(models.PermDocNew), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req createDocumentRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		content, err := base64.StdEncoding.DecodeString(req.EncryptionFile)
		if err != nil {
			return nil, wire.Errorf(wire.KindBadRequest, "encryption_file is not base64")
		}
		if err := h.svc.AddDocument(ctx, sess, req.Name, req.FileHandle, req.Key, req.Alg, content); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}

// DocumentMetadata handles GET /organizations/documents/metadata. The
// metadata includes the file handle and content key, which is what a reader
// needs to fetch and decrypt the blob; DOC_READ on the document gates it.
func (h *Handler) DocumentMetadata() http.HandlerFunc {
	return h.envelope(string(models.PermDocRead), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req documentNameRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		doc, err := h.svc.GetDocumentMetadata(ctx, sess, req.DocumentName)
		if err != nil {
			return nil, err
		}
		return doc, nil
	})
}

// DeleteDocument handles DELETE /organizations/documents/.
func (h *Handler) DeleteDocument() http.HandlerFunc {
	return h.envelope(string(models.PermDocDelete), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req documentNameRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}
		former, err := h.svc.DeleteDocument(ctx, sess, req.DocumentName)
		if err != nil {
			return nil, err
		}
		return deleteDocumentResponse{FileHandle: former}, nil
	})
}

// ModifyDocumentACL handles POST /organizations/documents/acl.
func (h *Handler) ModifyDocumentACL() http.HandlerFunc {
	return h.envelope(string(models.PermDocACL), func(ctx context.Context, sess *session.Session, plaintext []byte) (any, error) {
		var req documentACLRequest
		if err := decodePayload(plaintext, &req); err != nil {
			return nil, err
		}

		var add bool
		switch req.Operation {
		case "+":
			add = true
		case "-":
			add = false
		default:
			return nil, wire.Errorf(wire.KindBadRequest, `operation must be "+" or "-"`)
		}

		perm, err := parsePermission(req.Permission)
		if err != nil {
			return nil, err
		}
		if err := h.svc.ModifyDocumentACL(ctx, sess, req.DocumentName, add, req.Role, perm); err != nil {
			return nil, err
		}
		return statusOK, nil
	})
}
