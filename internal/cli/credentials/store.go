// Package credentials manages repctl state: server contexts, pinned server
// keys, and the live session persisted between command invocations.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docrep/docrep/pkg/apiclient"
)

const (
	// DefaultStateDir is the directory under the home dir holding repctl state.
	DefaultStateDir = ".docrep"
	// ConfigFileName is the name of the state file.
	ConfigFileName = "config.json"
	// FilePermissions for state files (read/write for owner only).
	FilePermissions = 0600
	// DirPermissions for state directories.
	DirPermissions = 0700
)

// StateDirEnv overrides the state directory location when set.
const StateDirEnv = "DOCREP_HOME"

var (
	// ErrNoCurrentContext indicates no context is currently set.
	ErrNoCurrentContext = errors.New("no current context set")
	// ErrContextNotFound indicates the requested context doesn't exist.
	ErrContextNotFound = errors.New("context not found")
	// ErrNotLoggedIn indicates no session exists.
	ErrNotLoggedIn = errors.New("not logged in - run 'repctl login' first")
)

// Context represents a connection context to a repository server. The server
// public key is pinned on first contact and used to authenticate every
// handshake and file response afterwards.
type Context struct {
	ServerURL       string             `json:"server_url"`
	ServerPublicKey string             `json:"server_public_key,omitempty"`
	Session         *apiclient.Session `json:"session,omitempty"`
}

// HasSession returns true if a session has been established on this context.
func (c *Context) HasSession() bool {
	return c.Session != nil && c.Session.SessionID != 0
}

// Preferences represents user preferences.
type Preferences struct {
	DefaultOutput string `json:"default_output,omitempty"` // table, json, yaml
	Color         string `json:"color,omitempty"`          // auto, always, never
}

// Config represents the complete repctl state.
type Config struct {
	CurrentContext string              `json:"current_context"`
	Contexts       map[string]*Context `json:"contexts"`
	Preferences    Preferences         `json:"preferences,omitempty"`
}

// Store manages state storage and retrieval.
type Store struct {
	configPath string
	config     *Config
}

// NewStore creates a new state store.
func NewStore() (*Store, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	store := &Store{
		configPath: configPath,
	}

	// Load existing state or create new
	if err := store.load(); err != nil {
		if os.IsNotExist(err) {
			store.config = &Config{
				Contexts: make(map[string]*Context),
			}
		} else {
			return nil, err
		}
	}

	return store, nil
}

// getConfigPath returns the path to the state file.
func getConfigPath() (string, error) {
	if dir := os.Getenv(StateDirEnv); dir != "" {
		return filepath.Join(dir, ConfigFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, DefaultStateDir, ConfigFileName), nil
}

// load reads the state from disk.
func (s *Store) load() error {
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		return err
	}

	s.config = &Config{}
	return json.Unmarshal(data, s.config)
}

// save writes the state to disk. The session's channel key lives in this
// file, so the file and its directory are owner-only.
func (s *Store) save() error {
	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("cannot create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.configPath, data, FilePermissions)
}

// GetCurrentContext returns the current context.
func (s *Store) GetCurrentContext() (*Context, error) {
	if s.config.CurrentContext == "" {
		return nil, ErrNoCurrentContext
	}

	ctx, ok := s.config.Contexts[s.config.CurrentContext]
	if !ok {
		return nil, ErrContextNotFound
	}

	return ctx, nil
}

// GetCurrentContextName returns the name of the current context.
func (s *Store) GetCurrentContextName() string {
	return s.config.CurrentContext
}

// GetContext returns a specific context by name.
func (s *Store) GetContext(name string) (*Context, error) {
	ctx, ok := s.config.Contexts[name]
	if !ok {
		return nil, ErrContextNotFound
	}
	return ctx, nil
}

// ListContexts returns all context names.
func (s *Store) ListContexts() []string {
	names := make([]string, 0, len(s.config.Contexts))
	for name := range s.config.Contexts {
		names = append(names, name)
	}
	return names
}

// SetContext creates or updates a context.
func (s *Store) SetContext(name string, ctx *Context) error {
	if s.config.Contexts == nil {
		s.config.Contexts = make(map[string]*Context)
	}
	s.config.Contexts[name] = ctx
	return s.save()
}

// UseContext switches to a different context.
func (s *Store) UseContext(name string) error {
	if _, ok := s.config.Contexts[name]; !ok {
		return ErrContextNotFound
	}
	s.config.CurrentContext = name
	return s.save()
}

// RenameContext renames a context.
func (s *Store) RenameContext(oldName, newName string) error {
	ctx, ok := s.config.Contexts[oldName]
	if !ok {
		return ErrContextNotFound
	}

	delete(s.config.Contexts, oldName)
	s.config.Contexts[newName] = ctx

	if s.config.CurrentContext == oldName {
		s.config.CurrentContext = newName
	}

	return s.save()
}

// DeleteContext removes a context.
func (s *Store) DeleteContext(name string) error {
	if _, ok := s.config.Contexts[name]; !ok {
		return ErrContextNotFound
	}

	delete(s.config.Contexts, name)

	if s.config.CurrentContext == name {
		s.config.CurrentContext = ""
	}

	return s.save()
}

// UpdateSession persists the session state of the current context. Called
// after every command so the message counter on disk never falls behind the
// one the server has seen.
func (s *Store) UpdateSession(sess *apiclient.Session) error {
	ctx, err := s.GetCurrentContext()
	if err != nil {
		return err
	}
	ctx.Session = sess
	return s.save()
}

// PinServerKey records the server's public key on the current context.
func (s *Store) PinServerKey(pemData string) error {
	ctx, err := s.GetCurrentContext()
	if err != nil {
		return err
	}
	ctx.ServerPublicKey = pemData
	return s.save()
}

// ClearSession drops the session from the current context (logout). The
// server URL and pinned key remain.
func (s *Store) ClearSession() error {
	ctx, err := s.GetCurrentContext()
	if err != nil {
		return err
	}
	ctx.Session = nil
	return s.save()
}

// GetPreferences returns the user preferences.
func (s *Store) GetPreferences() Preferences {
	return s.config.Preferences
}

// SetPreferences updates the user preferences.
func (s *Store) SetPreferences(prefs Preferences) error {
	s.config.Preferences = prefs
	return s.save()
}

// ConfigPath returns the path to the state file.
func (s *Store) ConfigPath() string {
	return s.configPath
}
