package apiclient

import (
	"net/http"

	"github.com/docrep/docrep/pkg/crypto/keys"
)

// SubjectStates returns the lifecycle state of one subject, or of every
// subject in the session's organization when username is empty.
func (c *Client) SubjectStates(username string) (map[string]string, error) {
	var resp struct {
		States map[string]string `json:"states"`
	}
	if err := c.call(http.MethodGet, "/api/v1/organizations/subjects/state",
		map[string]string{"username": username}, &resp); err != nil {
		return nil, err
	}
	return resp.States, nil
}

// CreateSubject enrolls a new subject. The password derives the subject's
// long-term keypair; only the public half is sent.
func (c *Client) CreateSubject(username, name, email, password string) error {
	priv, err := keys.FromPassword([]byte(password))
	if err != nil {
		return err
	}
	pubPEM, err := keys.EncodePublicKey(&priv.PublicKey)
	if err != nil {
		return err
	}
	return c.call(http.MethodPost, "/api/v1/organizations/subjects", map[string]string{
		"username":   username,
		"name":       name,
		"email":      email,
		"public_key": pubPEM,
	}, nil)
}

// SuspendSubject blocks a subject from authenticating and acting.
func (c *Client) SuspendSubject(username string) error {
	return c.setSubjectState(username, "suspended")
}

// ReactivateSubject lifts a suspension.
func (c *Client) ReactivateSubject(username string) error {
	return c.setSubjectState(username, "active")
}

func (c *Client) setSubjectState(username, state string) error {
	return c.call(http.MethodPut, "/api/v1/organizations/subjects/state", map[string]string{
		"username": username,
		"state":    state,
	}, nil)
}
