package apiclient

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/docrep/docrep/pkg/crypto/channel"
	"github.com/docrep/docrep/pkg/wire"
)

// algAES256GCM is the only content algorithm the protocol defines.
const algAES256GCM = "AES256-GCM"

// Document is the metadata the server keeps per document. FileHandle is nil
// once the content has been deleted; Key is the hex content-encryption key
// an authorized reader uses to decrypt the blob.
type Document struct {
	Name       string    `json:"name"`
	Creator    string    `json:"creator"`
	CreatedAt  time.Time `json:"created_at"`
	FileHandle *string   `json:"file_handle"`
	Key        string    `json:"key"`
	Alg        string    `json:"alg"`
}

// DocumentFilter narrows ListDocuments. DateFilter is "nt" (newer than),
// "ot" (older than) or "eq" (same day); DateStr is DD-MM-YYYY.
type DocumentFilter struct {
	Creator    string `json:"creator,omitempty"`
	DateFilter string `json:"date_filter,omitempty"`
	DateStr    string `json:"date_str,omitempty"`
}

// ListDocuments returns document metadata matching the filter.
func (c *Client) ListDocuments(filter DocumentFilter) ([]*Document, error) {
	var resp struct {
		Documents []*Document `json:"documents"`
	}
	if err := c.call(http.MethodGet, "/api/v1/organizations/documents", filter, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// AddDocument encrypts plaintext under a fresh random content key and
// uploads the ciphertext. The returned handle is the hex SHA-256 of the
// plaintext; the server stores it as the blob key and integrity anchor, and
// never sees the plaintext.
func (c *Client) AddDocument(name string, plaintext []byte) (string, error) {
	contentKey := make([]byte, channel.KeySize)
	if _, err := rand.Read(contentKey); err != nil {
		return "", fmt.Errorf("apiclient: generating content key: %w", err)
	}

	nonce, ciphertext, err := channel.Encrypt(contentKey, plaintext, nil)
	if err != nil {
		return "", err
	}
	blob := append(nonce, ciphertext...)

	sum := sha256.Sum256(plaintext)
	handle := hex.EncodeToString(sum[:])

	err = c.call(http.MethodPost, "/api/v1/organizations/documents", map[string]string{
		"encryption_file": base64.StdEncoding.EncodeToString(blob),
		"file_handle":     handle,
		"name":            name,
		"key":             hex.EncodeToString(contentKey),
		"alg":             algAES256GCM,
	}, nil)
	if err != nil {
		return "", err
	}
	return handle, nil
}

// GetDocumentMetadata returns a document's metadata, including the handle
// and content key needed to fetch and decrypt it.
func (c *Client) GetDocumentMetadata(name string) (*Document, error) {
	var doc Document
	if err := c.call(http.MethodGet, "/api/v1/organizations/documents/metadata",
		map[string]string{"document_name": name}, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocumentFile fetches and decrypts a document's content, then verifies
// that the plaintext hashes back to the file handle. An integrity mismatch
// is fatal and reported as INTEGRITY_FAIL, never retried.
func (c *Client) GetDocumentFile(name string) ([]byte, error) {
	doc, err := c.GetDocumentMetadata(name)
	if err != nil {
		return nil, err
	}
	if doc.FileHandle == nil {
		return nil, &APIError{
			StatusCode: http.StatusForbidden,
			Kind:       wire.KindDocGone,
			Detail:     fmt.Sprintf("document %q content has been deleted", name),
		}
	}
	if doc.Alg != algAES256GCM {
		return nil, &APIError{
			StatusCode: http.StatusForbidden,
			Kind:       wire.KindUnsupportedAlg,
			Detail:     fmt.Sprintf("unsupported algorithm %q", doc.Alg),
		}
	}

	var signed wire.SignedEnvelope
	if err := c.do(http.MethodGet, "/api/v1/files/",
		map[string]string{"file_handle": *doc.FileHandle}, &signed); err != nil {
		return nil, err
	}

	var payload wire.FileResponsePayload
	if c.serverPub != nil {
		if err := signed.Verify(c.serverPub, &payload); err != nil {
			return nil, fmt.Errorf("file response verification failed: %w", err)
		}
	} else if err := json.Unmarshal([]byte(signed.AssociatedData), &payload); err != nil {
		return nil, fmt.Errorf("apiclient: malformed file response: %w", err)
	}
	if payload.FileHandle != *doc.FileHandle {
		return nil, &APIError{
			Kind:   wire.KindIntegrityFail,
			Detail: "server answered for a different file handle",
		}
	}

	blob, err := base64.StdEncoding.DecodeString(payload.FileContent)
	if err != nil {
		return nil, fmt.Errorf("apiclient: file content is not base64: %w", err)
	}
	if len(blob) < channel.NonceSize {
		return nil, &APIError{Kind: wire.KindIntegrityFail, Detail: "file content shorter than a nonce"}
	}

	contentKey, err := hex.DecodeString(doc.Key)
	if err != nil {
		return nil, fmt.Errorf("apiclient: content key is not hex: %w", err)
	}

	plaintext, err := channel.Decrypt(contentKey,
		blob[:channel.NonceSize], blob[channel.NonceSize:], nil)
	if err != nil {
		return nil, &APIError{Kind: wire.KindIntegrityFail, Detail: "file content failed to decrypt"}
	}

	sum := sha256.Sum256(plaintext)
	if hex.EncodeToString(sum[:]) != *doc.FileHandle {
		return nil, &APIError{Kind: wire.KindIntegrityFail, Detail: "plaintext does not match the file handle"}
	}
	return plaintext, nil
}

// DeleteDocument removes a document's content and returns the former file
// handle. Metadata and ACL remain readable afterwards.
func (c *Client) DeleteDocument(name string) (string, error) {
	var resp struct {
		FileHandle string `json:"file_handle"`
	}
	if err := c.call(http.MethodDelete, "/api/v1/organizations/documents/",
		map[string]string{"document_name": name}, &resp); err != nil {
		return "", err
	}
	return resp.FileHandle, nil
}

// ModifyDocumentACL grants (op "+") or revokes (op "-") a document-scoped
// permission for a role on a document.
func (c *Client) ModifyDocumentACL(name, op, role, permission string) error {
	return c.call(http.MethodPost, "/api/v1/organizations/documents/acl", map[string]string{
		"document_name": name,
		"operation":     op,
		"role":          role,
		"permission":    permission,
	}, nil)
}
