// Package sync talks to the hosted snapshot service: account management,
// one-shot fetch, continuous subscription, and last-write-wins application
// of remote snapshots.
package sync

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNotLoggedIn is returned by operations that require an authenticated
// session.
var ErrNotLoggedIn = errors.New("not logged in, run 'calendarly auth login' first")

// Config holds sync configuration, persisted at ~/.calendarly/sync.json.
type Config struct {
	ServerURL     string `json:"server_url"`
	Token         string `json:"token"`
	UserID        string `json:"user_id"`
	LastSeen      int64  `json:"last_seen_ms"` // newest remote timestamp applied locally
	EncryptionKey string `json:"encryption_key,omitempty"`
	Salt          string `json:"salt,omitempty"`
}

// Client is the sync client. The config is shared between the owner's
// goroutine and the background push/subscribe goroutines, so every access
// goes through mu.
type Client struct {
	mu         sync.Mutex
	config     *Config
	configPath string
	httpClient *http.Client
}

// NewClient creates a sync client, loading any saved configuration.
func NewClient() (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	c := &Client{
		configPath: filepath.Join(home, ".calendarly", "sync.json"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.loadConfig()

	return c, nil
}

func (c *Client) loadConfig() {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.config = &Config{ServerURL: "http://localhost:8080"}
		return
	}

	c.config = &Config{}
	json.Unmarshal(data, c.config)
	if c.config.ServerURL == "" {
		c.config.ServerURL = "http://localhost:8080"
	}
}

// saveConfig writes the config; callers hold mu.
func (c *Client) saveConfig() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0600)
}

// SetServer sets the sync server URL.
func (c *Client) SetServer(url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.ServerURL = url
	return c.saveConfig()
}

// IsLoggedIn returns true if a session token is present.
func (c *Client) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Token != ""
}

// Status returns the server URL, user id and last applied remote timestamp.
func (c *Client) Status() (string, string, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.ServerURL, c.config.UserID, c.config.LastSeen
}

// session returns the server URL and token for request building.
func (c *Client) session() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.ServerURL, c.config.Token
}

type authResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (c *Client) postAuth(path, username, password string) error {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})

	serverURL, _ := c.session()
	resp, err := c.httpClient.Post(
		serverURL+path,
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed: %s", string(respBody))
	}

	var result authResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Token = result.Token
	c.config.UserID = result.UserID
	return c.saveConfig()
}

// Register creates a new account and logs in.
func (c *Client) Register(username, password string) error {
	return c.postAuth("/api/v1/register", username, password)
}

// Login authenticates with username and password.
func (c *Client) Login(username, password string) error {
	return c.postAuth("/api/v1/login", username, password)
}

// Logout clears the session and the last-seen marker.
func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Token = ""
	c.config.UserID = ""
	c.config.LastSeen = 0
	return c.saveConfig()
}

func (c *Client) setLastSeen(ts int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ts > c.config.LastSeen {
		c.config.LastSeen = ts
		_ = c.saveConfig()
	}
}

// GenerateEncryptionKey derives and stores the payload encryption key from a
// password, returning the short display form.
func (c *Client) GenerateEncryptionKey(password string) (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Salt = base64.StdEncoding.EncodeToString(salt)
	c.config.EncryptionKey = DeriveKeyDisplay(password, salt)

	if err := c.saveConfig(); err != nil {
		return "", err
	}
	return c.config.EncryptionKey, nil
}

// Crypto returns the payload cipher for the stored salt, or nil when no key
// is configured.
func (c *Client) Crypto(password string) (*Crypto, error) {
	c.mu.Lock()
	encoded := c.config.Salt
	c.mu.Unlock()
	if encoded == "" {
		return nil, nil
	}

	salt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return NewCrypto(password, salt), nil
}
