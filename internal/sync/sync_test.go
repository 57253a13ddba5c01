package sync

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/existflow/calendarly/internal/model"
	"github.com/existflow/calendarly/internal/state"
	"github.com/existflow/calendarly/internal/store"
)

// fakeRemote is an in-memory RemoteStore. The subscription loop hits it from
// its own goroutine, so access is locked.
type fakeRemote struct {
	mu   sync.Mutex
	rec  *Record
	puts int
}

func (f *fakeRemote) Fetch(ctx context.Context) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec, nil
}

func (f *fakeRemote) Put(ctx context.Context, rec Record) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.rec != nil && f.rec.UpdatedAt > rec.UpdatedAt {
		return f.rec.UpdatedAt, nil
	}
	f.rec = &rec
	return rec.UpdatedAt, nil
}

// Subscribe blocks like the real long poll when nothing newer is stored.
func (f *fakeRemote) Subscribe(ctx context.Context, since int64) (*Record, error) {
	f.mu.Lock()
	rec := f.rec
	f.mu.Unlock()
	if rec != nil && rec.UpdatedAt > since {
		return rec, nil
	}
	<-ctx.Done()
	return nil, nil
}

func (f *fakeRemote) stored() *Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec
}

func (f *fakeRemote) putCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}

func newTestEngine(t *testing.T) (*Engine, *fakeRemote, *store.Store) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	client, err := NewClient()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.config.Token = "test-token"
	client.config.UserID = "test-user"

	db, err := store.Open(filepath.Join(t.TempDir(), "calendarly.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	remote := &fakeRemote{}
	engine := NewEngine(client, db)
	engine.remote = remote
	return engine, remote, db
}

func TestPushUploadsSnapshot(t *testing.T) {
	engine, remote, _ := newTestEngine(t)

	st := state.New()
	if _, err := st.AddNote("2026-03-14", "push me"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := engine.Push(context.Background(), st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.rec == nil {
		t.Fatalf("nothing stored remotely")
	}
	if remote.rec.UpdatedAt != st.UpdatedAt {
		t.Fatalf("timestamp mismatch: %d != %d", remote.rec.UpdatedAt, st.UpdatedAt)
	}
	if remote.rec.Encrypted {
		t.Fatalf("expected cleartext payload without a configured key")
	}
}

func TestPullAppliesNewerRemote(t *testing.T) {
	engine, remote, db := newTestEngine(t)

	other := state.New()
	if _, err := other.AddNote("2026-03-14", "from another device"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := engine.encode(other.Snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remote.rec = &rec

	local := state.New() // UpdatedAt 0, remote is newer
	pulled, err := engine.Pull(context.Background(), local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pulled {
		t.Fatalf("expected the remote snapshot to be applied")
	}
	notes := local.NotesOn("2026-03-14")
	if len(notes) != 1 || notes[0].Text != "from another device" {
		t.Fatalf("remote content not applied: %+v", notes)
	}

	// The pulled snapshot must also have been persisted.
	saved, err := db.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.NotesOn("2026-03-14")) != 1 {
		t.Fatalf("pulled snapshot not persisted")
	}
}

func TestPullKeepsNewerLocal(t *testing.T) {
	engine, remote, _ := newTestEngine(t)

	old := state.New()
	if _, err := old.AddNote("2026-03-14", "stale"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ := engine.encode(old.Snapshot())
	rec.UpdatedAt = 1 // force an ancient timestamp
	remote.rec = &rec

	local := state.New()
	if _, err := local.AddNote("2026-03-14", "fresh"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pulled, err := engine.Pull(context.Background(), local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pulled {
		t.Fatalf("older remote snapshot must not replace newer local state")
	}
	if local.NotesOn("2026-03-14")[0].Text != "fresh" {
		t.Fatalf("local state was clobbered")
	}
}

func TestSyncPushesWhenLocalWins(t *testing.T) {
	engine, remote, _ := newTestEngine(t)

	st := state.New()
	if _, err := st.AddNote("2026-03-14", "local"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := engine.Sync(context.Background(), st)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Pulled || !result.Pushed {
		t.Fatalf("expected a push, got %+v", result)
	}
	if remote.puts != 1 {
		t.Fatalf("expected exactly one put, got %d", remote.puts)
	}
}

func TestAutoSyncHandsOffRemoteRecords(t *testing.T) {
	engine, remote, db := newTestEngine(t)

	other := state.New()
	if _, err := other.AddNote("2026-03-14", "from another device"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, err := engine.encode(other.Snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remote.rec = &rec

	recCh := make(chan *Record, 1)
	a := NewAutoSync(engine, func(r *Record) { recCh <- r })
	defer a.Stop()

	var got *Record
	select {
	case got = <-recCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("record not handed off")
	}
	if got.UpdatedAt != rec.UpdatedAt {
		t.Fatalf("timestamp mismatch: %d != %d", got.UpdatedAt, rec.UpdatedAt)
	}

	// Hand-off only: nothing is applied or persisted until the owner calls
	// Apply on its own goroutine.
	saved, err := db.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved.NotesOn("2026-03-14")) != 0 {
		t.Fatalf("record applied off the owner goroutine")
	}

	local := state.New()
	applied, err := engine.Apply(local, got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !applied {
		t.Fatalf("expected the record to be applied")
	}
	if local.NotesOn("2026-03-14")[0].Text != "from another device" {
		t.Fatalf("remote content not applied")
	}
}

func TestAutoSyncPushesSnapshotFromTriggerTime(t *testing.T) {
	engine, remote, _ := newTestEngine(t)

	st := state.New()
	if _, err := st.AddNote("2026-03-14", "first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := NewAutoSync(engine, nil)
	defer a.Stop()

	a.TriggerPush(st.Snapshot())

	// Mutations after the trigger belong to the next one; the scheduled
	// push must not read the live state.
	if _, err := st.AddNote("2026-03-14", "second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := a.PushNowIfPending(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.IsPending() {
		t.Fatalf("push still pending after PushNowIfPending")
	}

	stored := remote.stored()
	if stored == nil {
		t.Fatalf("nothing stored remotely")
	}
	var snap model.Snapshot
	if err := json.Unmarshal(stored.Data, &snap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Notes["2026-03-14"]) != 1 {
		t.Fatalf("push must carry the snapshot captured at trigger time, got %d notes",
			len(snap.Notes["2026-03-14"]))
	}
	if remote.putCount() != 1 {
		t.Fatalf("expected exactly one put, got %d", remote.putCount())
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	engine, remote, _ := newTestEngine(t)

	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.WithCrypto(NewCrypto("hunter2", salt))

	st := state.New()
	if _, err := st.AddNote("2026-03-14", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := engine.Push(context.Background(), st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !remote.rec.Encrypted {
		t.Fatalf("payload should be encrypted")
	}

	local := state.New()
	pulled, err := engine.Pull(context.Background(), local)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pulled {
		t.Fatalf("expected the snapshot to be applied")
	}
	if local.NotesOn("2026-03-14")[0].Text != "secret" {
		t.Fatalf("decrypted content mismatch")
	}
}

func TestPullEncryptedWithoutKeyFails(t *testing.T) {
	engine, remote, _ := newTestEngine(t)

	salt, _ := GenerateSalt()
	sealed := NewEngine(engine.client, engine.store).WithCrypto(NewCrypto("hunter2", salt))
	sealed.remote = remote

	st := state.New()
	if _, err := st.AddNote("2026-03-14", "secret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sealed.Push(context.Background(), st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	local := state.New()
	if _, err := engine.Pull(context.Background(), local); err == nil {
		t.Fatalf("expected an error pulling an encrypted snapshot without a key")
	}
}

func TestPushRequiresLogin(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	engine.client.config.Token = ""

	if err := engine.Push(context.Background(), state.New()); err != ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestCryptoRoundTrip(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := NewCrypto("password", salt)

	sealed, err := c.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	plain, err := c.Decrypt(sealed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(plain) != "payload" {
		t.Fatalf("round trip mismatch: %q", plain)
	}

	wrong := NewCrypto("other", salt)
	if _, err := wrong.Decrypt(sealed); err == nil {
		t.Fatalf("expected decryption failure with the wrong key")
	}
}
