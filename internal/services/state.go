package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

// StateCache mirrors the mutable session fields per room so that a newcomer's
// catch-up view never needs a store round-trip. Every mutator writes through
// to the session store before committing to the mirror: a failed write leaves
// the mirror unchanged and surfaces the error, so the router never broadcasts
// state the store does not have.
//
// Mutations for one room are expected to arrive serialized (the router holds
// the room lock); the cache's own locking only protects its maps.
type StateCache struct {
	store SessionStore

	mu    sync.Mutex
	rooms map[string]*stateEntry
}

type stateEntry struct {
	roomID string

	mu     sync.Mutex
	state  *models.RoomState
	loaded bool
}

func NewStateCache(store SessionStore) *StateCache {
	return &StateCache{store: store, rooms: make(map[string]*stateEntry)}
}

func (c *StateCache) entry(roomID string) *stateEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.rooms[roomID]
	if e == nil {
		e = &stateEntry{roomID: roomID, state: models.NewRoomState()}
		c.rooms[roomID] = e
	}
	return e
}

// load seeds the mirror from the store once. A missing session record leaves
// the empty default in place: the room can still run, its mutations will just
// fail to persist and be reported per event.
func (e *stateEntry) load(ctx context.Context, store SessionStore) {
	if e.loaded {
		return
	}
	e.loaded = true
	sess, err := store.Get(ctx, e.roomID)
	if err != nil {
		return
	}
	e.state = models.StateFromSession(sess)
}

// Get returns a snapshot of the room's state, creating and lazily loading it
// on first access. The whiteboard map in the snapshot is never mutated in
// place by later deltas (each fold swaps in a fresh map), so callers may read
// it without holding any lock.
func (c *StateCache) Get(ctx context.Context, roomID string) (models.RoomState, error) {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(ctx, c.store)
	return *e.state, nil
}

// ApplyCodeChange persists and mirrors a code buffer update.
func (c *StateCache) ApplyCodeChange(ctx context.Context, roomID, code, language string) error {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(ctx, c.store)

	if err := c.store.Update(ctx, roomID, map[string]any{
		FieldCode:     code,
		FieldLanguage: language,
	}); err != nil {
		return err
	}
	e.state.Code = code
	e.state.Language = language
	return nil
}

// ApplyWhiteboardDelta folds the delta into the snapshot, persists the merged
// snapshot and returns it. The fold happens on a copy so a persist failure
// leaves the mirror at its pre-delta value.
func (c *StateCache) ApplyWhiteboardDelta(ctx context.Context, roomID string, delta models.WhiteboardDelta) (map[string]json.RawMessage, error) {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(ctx, c.store)

	merged := make(map[string]json.RawMessage, len(e.state.Whiteboard))
	for id, el := range e.state.Whiteboard {
		merged[id] = el
	}
	merged = delta.Fold(merged)

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	if err := c.store.Update(ctx, roomID, map[string]any{
		FieldWhiteboard: json.RawMessage(raw),
	}); err != nil {
		return nil, err
	}
	e.state.Whiteboard = merged
	return merged, nil
}

// SetQuestion persists and mirrors the shared question.
func (c *StateCache) SetQuestion(ctx context.Context, roomID string, question json.RawMessage) error {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(ctx, c.store)

	if err := c.store.Update(ctx, roomID, map[string]any{
		FieldQuestion: question,
	}); err != nil {
		return err
	}
	e.state.Question = question
	return nil
}

// SetOutput persists and mirrors the last execution output.
func (c *StateCache) SetOutput(ctx context.Context, roomID, output string) error {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(ctx, c.store)

	if err := c.store.Update(ctx, roomID, map[string]any{
		FieldOutput: output,
	}); err != nil {
		return err
	}
	e.state.LastOutput = output
	return nil
}

// MarkStartedIfUnset sets the room's start time if no earlier call has, and
// reports whether this call was the one that set it. Only the setter
// broadcasts the session_updated event. The transition never reverts.
func (c *StateCache) MarkStartedIfUnset(ctx context.Context, roomID string, ts time.Time) (time.Time, bool, error) {
	e := c.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.load(ctx, c.store)

	if e.state.Started() {
		return time.Time{}, false, nil
	}
	ts = ts.UTC()
	err := c.store.Update(ctx, roomID, map[string]any{
		FieldStartTime: ts.Format(time.RFC3339),
		FieldStatus:    models.SessionStatusInProgress,
	})
	if err != nil {
		// A room with no backing session cannot start; not an error worth
		// failing the join over.
		if errors.Is(err, ErrSessionNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	e.state.StartTime = ts
	return ts, true, nil
}
