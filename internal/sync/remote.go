package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Record is one stored snapshot payload with its millisecond timestamp.
type Record struct {
	Data      []byte `json:"data"`
	Encrypted bool   `json:"encrypted"`
	UpdatedAt int64  `json:"updated_at"`
}

// ConflictPolicy decides whether an incoming record replaces the local state.
type ConflictPolicy interface {
	// RemoteWins reports whether the remote timestamp beats the local one.
	RemoteWins(localMs, remoteMs int64) bool
}

// LastWriteWins is the default policy: the strictly newer timestamp wins.
// Concurrent edits from a second device can be dropped silently; stronger
// merge policies plug in through the same interface.
type LastWriteWins struct{}

// RemoteWins implements ConflictPolicy.
func (LastWriteWins) RemoteWins(localMs, remoteMs int64) bool {
	return remoteMs > localMs
}

// RemoteStore is the sync collaborator contract: an account-keyed snapshot
// store with one-shot fetch, put, and continuous subscription.
type RemoteStore interface {
	// Fetch returns the current snapshot, or nil when the account has none.
	Fetch(ctx context.Context) (*Record, error)
	// Put stores a snapshot and returns the timestamp now held remotely
	// (the incoming one, or the newer stored one that beat it).
	Put(ctx context.Context, rec Record) (int64, error)
	// Subscribe blocks until a snapshot newer than since appears or the
	// wait window closes, returning nil on timeout.
	Subscribe(ctx context.Context, since int64) (*Record, error)
}

// subscribeWait is the long-poll window requested from the server. The HTTP
// client timeout must stay above it.
const subscribeWait = 25 * time.Second

// httpRemote implements RemoteStore against the hosted snapshot service.
type httpRemote struct {
	client *Client
}

// Remote returns the RemoteStore backed by this client's server and session.
func (c *Client) Remote() RemoteStore {
	return &httpRemote{client: c}
}

func (r *httpRemote) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	serverURL, token := r.client.session()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, serverURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return r.client.httpClient.Do(req)
}

func (r *httpRemote) Fetch(ctx context.Context) (*Record, error) {
	resp, err := r.do(ctx, http.MethodGet, "/api/v1/snapshot", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var rec Record
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			return nil, err
		}
		return &rec, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch failed: %s", string(respBody))
	}
}

func (r *httpRemote) Put(ctx context.Context, rec Record) (int64, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return 0, err
	}

	resp, err := r.do(ctx, http.MethodPut, "/api/v1/snapshot", body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("push failed: %s", string(respBody))
	}

	var result struct {
		UpdatedAt int64 `json:"updated_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	return result.UpdatedAt, nil
}

func (r *httpRemote) Subscribe(ctx context.Context, since int64) (*Record, error) {
	path := fmt.Sprintf("/api/v1/snapshot?since=%d&wait=%d",
		since, int(subscribeWait.Seconds()))

	resp, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var rec Record
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			return nil, err
		}
		return &rec, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("subscribe failed: %s", string(respBody))
	}
}
