package sync

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/calendarly/internal/logger"
	"github.com/existflow/calendarly/internal/model"
)

// AutoSync manages background syncing: a debounced push after local
// mutations, and a subscription loop handing incoming records to the owner.
// AutoSync never touches the owner's state; pushes carry snapshots captured
// at trigger time, and incoming records go through onRecord so the owner
// applies them on its own goroutine.
type AutoSync struct {
	engine       *Engine
	onRecord     func(*Record) // runs on the subscription goroutine, hand-off only
	debounceTime time.Duration
	pending      bool
	pendingSnap  model.Snapshot
	mu           sync.Mutex
	stopCh       chan struct{}
}

// NewAutoSync creates an auto-sync manager and starts the subscription loop.
// onRecord may be nil when the owner only wants background pushes.
func NewAutoSync(engine *Engine, onRecord func(*Record)) *AutoSync {
	a := &AutoSync{
		engine:       engine,
		onRecord:     onRecord,
		debounceTime: 5 * time.Second, // wait after the last change before pushing
		stopCh:       make(chan struct{}),
	}

	go a.subscribeLoop()

	return a
}

// subscribeLoop long-polls the server and hands newer snapshots to the owner.
func (a *AutoSync) subscribeLoop() {
	var delivered int64 // newest timestamp handed off, pending application
	for {
		select {
		case <-a.stopCh:
			return
		default:
		}

		if !a.engine.client.IsLoggedIn() {
			select {
			case <-time.After(30 * time.Second):
				continue
			case <-a.stopCh:
				return
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), subscribeWait+10*time.Second)
		_, _, since := a.engine.client.Status()
		if delivered > since {
			since = delivered
		}
		rec, err := a.engine.remote.Subscribe(ctx, since)
		cancel()
		if err != nil {
			logger.Debug("Subscribe failed, backing off", logger.F("error", err))
			select {
			case <-time.After(15 * time.Second):
			case <-a.stopCh:
				return
			}
			continue
		}
		if rec == nil {
			continue
		}

		delivered = rec.UpdatedAt
		if a.onRecord != nil {
			a.onRecord(rec)
		}
	}
}

// TriggerPush schedules a debounced push of the given snapshot. Each call
// replaces the snapshot of an already-pending push.
func (a *AutoSync) TriggerPush(snap model.Snapshot) {
	if !a.engine.client.IsLoggedIn() {
		return
	}

	a.mu.Lock()
	a.pendingSnap = snap
	if !a.pending {
		a.pending = true
		go a.debouncedPush()
	}
	a.mu.Unlock()
}

func (a *AutoSync) debouncedPush() {
	timer := time.NewTimer(a.debounceTime)
	defer timer.Stop()

	select {
	case <-timer.C:
		a.performPush()
	case <-a.stopCh:
		return
	}
}

func (a *AutoSync) performPush() {
	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return
	}
	a.pending = false
	snap := a.pendingSnap
	a.mu.Unlock()

	if err := a.engine.PushSnapshot(context.Background(), snap); err != nil {
		// Failures stay silent in the TUI; the next trigger retries.
		logger.Debug("Background push failed", logger.F("error", err))
	}
}

// PushNowIfPending performs an immediate push if one is scheduled. Called on
// shutdown so the debounce window doesn't swallow the last change.
func (a *AutoSync) PushNowIfPending() error {
	a.mu.Lock()
	isPending := a.pending
	snap := a.pendingSnap
	a.pending = false
	a.mu.Unlock()

	if !isPending {
		return nil
	}
	return a.engine.PushSnapshot(context.Background(), snap)
}

// IsPending returns true if a push is scheduled.
func (a *AutoSync) IsPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

// Stop stops the auto-sync manager.
func (a *AutoSync) Stop() {
	close(a.stopCh)
}
