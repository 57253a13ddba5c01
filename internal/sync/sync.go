package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/existflow/calendarly/internal/logger"
	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/state"
	"github.com/existflow/calendarly/internal/store"
)

// Result holds sync statistics for user-facing reporting.
type Result struct {
	Pushed bool
	Pulled bool
}

// Engine moves snapshots between the local state/store pair and a remote
// store, applying the configured conflict policy. Failures never mutate
// local state.
type Engine struct {
	client *Client
	remote RemoteStore
	store  *store.Store
	policy ConflictPolicy
	crypto *Crypto // nil when payloads travel in the clear
}

// NewEngine creates a sync engine with the default last-write-wins policy.
func NewEngine(client *Client, st *store.Store) *Engine {
	return &Engine{
		client: client,
		remote: client.Remote(),
		store:  st,
		policy: LastWriteWins{},
	}
}

// WithPolicy overrides the conflict policy.
func (e *Engine) WithPolicy(p ConflictPolicy) *Engine {
	e.policy = p
	return e
}

// WithCrypto enables payload encryption.
func (e *Engine) WithCrypto(c *Crypto) *Engine {
	e.crypto = c
	return e
}

func (e *Engine) encode(snap model.Snapshot) (Record, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return Record{}, err
	}

	rec := Record{Data: data, UpdatedAt: snap.UpdatedAt}
	if e.crypto != nil {
		sealed, err := e.crypto.Encrypt(data)
		if err != nil {
			return Record{}, err
		}
		rec.Data = []byte(sealed)
		rec.Encrypted = true
	}
	return rec, nil
}

func (e *Engine) decode(rec Record) (model.Snapshot, error) {
	data := rec.Data
	if rec.Encrypted {
		if e.crypto == nil {
			return model.Snapshot{}, fmt.Errorf("remote snapshot is encrypted and no key is configured")
		}
		plain, err := e.crypto.Decrypt(string(data))
		if err != nil {
			return model.Snapshot{}, err
		}
		data = plain
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("malformed remote snapshot: %w", err)
	}
	snap.UpdatedAt = rec.UpdatedAt
	return snap, nil
}

// Push uploads the current local snapshot.
func (e *Engine) Push(ctx context.Context, st *state.State) error {
	return e.PushSnapshot(ctx, st.Snapshot())
}

// PushSnapshot uploads an already-captured snapshot. Callers that mutate
// state on another goroutine capture the snapshot there and hand it off.
func (e *Engine) PushSnapshot(ctx context.Context, snap model.Snapshot) error {
	if !e.client.IsLoggedIn() {
		return ErrNotLoggedIn
	}

	rec, err := e.encode(snap)
	if err != nil {
		return err
	}

	stored, err := e.remote.Put(ctx, rec)
	if err != nil {
		logger.Error("Push failed", logger.F("error", err))
		return err
	}

	e.client.setLastSeen(stored)
	logger.Info("Pushed snapshot", logger.F("updatedAt", rec.UpdatedAt), logger.F("stored", stored))
	return nil
}

// Apply runs the conflict policy over an incoming record. The remote snapshot
// replaces local state only when the policy says so; otherwise local wins and
// the caller should push. Apply mutates st on the calling goroutine; the
// caller must be the state's owner.
func (e *Engine) Apply(st *state.State, rec *Record) (bool, error) {
	if rec == nil {
		return false, nil
	}
	if !e.policy.RemoteWins(st.UpdatedAt, rec.UpdatedAt) {
		if rec.UpdatedAt != st.UpdatedAt {
			logger.Debug("Remote snapshot older than local, keeping local",
				logger.F("local", st.UpdatedAt), logger.F("remote", rec.UpdatedAt))
		}
		e.client.setLastSeen(rec.UpdatedAt)
		return false, nil
	}

	snap, err := e.decode(*rec)
	if err != nil {
		return false, err
	}

	st.Restore(snap)
	if err := e.store.Save(st); err != nil {
		return false, fmt.Errorf("failed to persist pulled snapshot: %w", err)
	}

	e.client.setLastSeen(rec.UpdatedAt)
	logger.Info("Applied remote snapshot", logger.F("updatedAt", rec.UpdatedAt))
	return true, nil
}

// Pull fetches the remote snapshot once and applies the conflict policy.
func (e *Engine) Pull(ctx context.Context, st *state.State) (bool, error) {
	if !e.client.IsLoggedIn() {
		return false, ErrNotLoggedIn
	}

	rec, err := e.remote.Fetch(ctx)
	if err != nil {
		logger.Error("Pull failed", logger.F("error", err))
		return false, err
	}
	return e.Apply(st, rec)
}

// Sync pulls, then pushes when the local snapshot is the survivor.
func (e *Engine) Sync(ctx context.Context, st *state.State) (*Result, error) {
	result := &Result{}

	pulled, err := e.Pull(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("pull failed: %w", err)
	}
	result.Pulled = pulled

	if !pulled {
		if err := e.Push(ctx, st); err != nil {
			return nil, fmt.Errorf("push failed: %w", err)
		}
		result.Pushed = true
	}

	return result, nil
}
