package server

import (
	"database/sql"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// snapshotRecord is the wire shape of a stored snapshot.
type snapshotRecord struct {
	Data      []byte `json:"data"`
	Encrypted bool   `json:"encrypted"`
	UpdatedAt int64  `json:"updated_at"`
}

// maxWait caps the long-poll window of subscription requests.
const maxWait = 30 * time.Second

// snapshotWaiters wakes subscription requests when a user's snapshot
// changes.
type snapshotWaiters struct {
	mu    sync.Mutex
	chans map[string][]chan struct{}
}

func newSnapshotWaiters() *snapshotWaiters {
	return &snapshotWaiters{chans: make(map[string][]chan struct{})}
}

// wait returns a channel closed on the user's next snapshot update.
func (w *snapshotWaiters) wait(userID string) chan struct{} {
	ch := make(chan struct{})
	w.mu.Lock()
	w.chans[userID] = append(w.chans[userID], ch)
	w.mu.Unlock()
	return ch
}

// drop deregisters a waiter that gave up before being notified. Without it
// every timed-out long poll would leave a dead channel behind.
func (w *snapshotWaiters) drop(userID string, ch chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	chans := w.chans[userID]
	for i, c := range chans {
		if c == ch {
			w.chans[userID] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(w.chans[userID]) == 0 {
		delete(w.chans, userID)
	}
}

// notify wakes all waiters for the user.
func (w *snapshotWaiters) notify(userID string) {
	w.mu.Lock()
	for _, ch := range w.chans[userID] {
		close(ch)
	}
	delete(w.chans, userID)
	w.mu.Unlock()
}

func (s *Server) loadSnapshot(userID string) (*snapshotRecord, error) {
	var rec snapshotRecord
	err := s.db.QueryRow(`
		SELECT payload, encrypted, updated_at_ms FROM snapshots WHERE user_id = $1`,
		userID,
	).Scan(&rec.Data, &rec.Encrypted, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// handleSnapshotGet returns the user's snapshot. Without query parameters it
// is a one-shot fetch; with since and wait it long-polls until a newer
// snapshot appears or the window closes (204).
func (s *Server) handleSnapshotGet(c echo.Context) error {
	userID := c.Get("user_id").(string)

	since := int64(-1)
	if v := c.QueryParam("since"); v != "" {
		since, _ = strconv.ParseInt(v, 10, 64)
	}

	wait := time.Duration(0)
	if v := c.QueryParam("wait"); v != "" {
		secs, _ := strconv.Atoi(v)
		wait = time.Duration(secs) * time.Second
		if wait > maxWait {
			wait = maxWait
		}
	}

	deadline := time.Now().Add(wait)
	for {
		rec, err := s.loadSnapshot(userID)
		if err != nil {
			c.Logger().Error("db error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}

		if rec != nil && rec.UpdatedAt > since {
			return c.JSON(http.StatusOK, rec)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return c.NoContent(http.StatusNoContent)
		}

		ch := s.waiters.wait(userID)
		select {
		case <-ch:
			// re-check
		case <-time.After(remaining):
			s.waiters.drop(userID, ch)
			return c.NoContent(http.StatusNoContent)
		case <-c.Request().Context().Done():
			s.waiters.drop(userID, ch)
			return c.NoContent(http.StatusNoContent)
		}
	}
}

// handleSnapshotPut stores the user's snapshot. The write lands only when its
// timestamp is newer than the stored one; either way the response carries the
// timestamp now held, so clients learn when they lost the race.
func (s *Server) handleSnapshotPut(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var rec snapshotRecord
	if err := c.Bind(&rec); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if rec.UpdatedAt <= 0 || len(rec.Data) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "data and updated_at required"})
	}

	var stored int64
	err := s.db.QueryRow(`
		INSERT INTO snapshots (user_id, payload, encrypted, updated_at_ms)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			encrypted = EXCLUDED.encrypted,
			updated_at_ms = EXCLUDED.updated_at_ms
		WHERE snapshots.updated_at_ms < EXCLUDED.updated_at_ms
		RETURNING updated_at_ms`,
		userID, rec.Data, rec.Encrypted, rec.UpdatedAt,
	).Scan(&stored)

	if err == sql.ErrNoRows {
		// Lost to a newer write; report the winner.
		current, loadErr := s.loadSnapshot(userID)
		if loadErr != nil || current == nil {
			c.Logger().Error("db error:", loadErr)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		stored = current.UpdatedAt
	} else if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	} else {
		s.waiters.notify(userID)
	}

	c.Logger().Infof("Snapshot stored for user %s at %d", userID, stored)

	return c.JSON(http.StatusOK, map[string]int64{"updated_at": stored})
}
