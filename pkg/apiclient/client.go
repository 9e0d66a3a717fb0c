// Package apiclient implements the repository protocol client used by
// repctl: handshake, AEAD session envelopes, and typed wrappers for every
// endpoint.
package apiclient

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/docrep/docrep/pkg/crypto/keys"
	"github.com/docrep/docrep/pkg/wire"
)

// Session is the client half of one authenticated channel. It mirrors the
// state persisted between command invocations; MsgID is advanced before
// every send so a crashed command can never reuse an id.
type Session struct {
	SessionID    uint64   `json:"session_id"`
	Organization string   `json:"organization"`
	Username     string   `json:"username"`
	DerivedKey   string   `json:"derived_key"` // hex
	MsgID        uint64   `json:"msg_id"`
	Roles        []string `json:"roles"`
}

// Key decodes the hex channel key.
func (s *Session) Key() ([]byte, error) {
	key, err := hex.DecodeString(s.DerivedKey)
	if err != nil {
		return nil, fmt.Errorf("apiclient: session key is not hex: %w", err)
	}
	return key, nil
}

// Client is the repository API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	serverPub  *ecdsa.PublicKey
	session    *Session
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithServerKey pins the server's long-term public key (PEM). Signed
// responses are verified against it; without a pinned key the handshake
// cannot be completed.
func WithServerKey(pemData string) Option {
	return func(c *Client) {
		pub, err := keys.ParsePublicKey(pemData)
		if err == nil {
			c.serverPub = pub
		}
	}
}

// WithSession resumes a previously established session.
func WithSession(sess *Session) Option {
	return func(c *Client) { c.session = sess }
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the live session state, or nil before OpenSession.
// Callers persist it between invocations.
func (c *Client) Session() *Session {
	return c.session
}

// do performs a plaintext HTTP request and decodes the response. Error
// statuses are surfaced as *APIError.
func (c *Client) do(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// call sends one payload through the session envelope and decodes the
// decrypted response into result.
//
// The msg id is advanced before the request leaves, and the response is
// accepted only if its msg id strictly exceeds the sent one, mirroring the
// server's replay rule in the other direction.
func (c *Client) call(method, path string, payload, result any) error {
	if c.session == nil {
		return fmt.Errorf("apiclient: no session - open one first")
	}
	key, err := c.session.Key()
	if err != nil {
		return err
	}

	c.session.MsgID++
	sent := c.session.MsgID

	env, err := wire.Seal(key, sent, c.session.SessionID, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Protocol failures are plaintext; everything else is enveloped.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusForbidden {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	var respEnv wire.Envelope
	if err := json.Unmarshal(respBody, &respEnv); err != nil {
		return fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if respEnv.AssociatedData.MsgID <= sent {
		return &APIError{
			StatusCode: resp.StatusCode,
			Kind:       wire.KindReplay,
			Detail:     "stale response message id",
		}
	}
	c.session.MsgID = respEnv.AssociatedData.MsgID

	plaintext, err := wire.Open(key, &respEnv)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusForbidden {
		var errBody wire.ErrorBody
		if json.Unmarshal(plaintext, &errBody) == nil && errBody.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Kind: errBody.Error, Detail: errBody.Detail}
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: string(plaintext)}
	}

	if result != nil && len(plaintext) > 0 {
		if err := json.Unmarshal(plaintext, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError turns an error body into an *APIError, falling back to the
// raw body when it is not the expected JSON shape.
func decodeAPIError(status int, body []byte) error {
	var errBody wire.ErrorBody
	if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
		return &APIError{StatusCode: status, Kind: errBody.Error, Detail: errBody.Detail}
	}
	return &APIError{StatusCode: status, Detail: string(body)}
}
