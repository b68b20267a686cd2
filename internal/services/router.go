package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
	"github.com/owaisjunedi/dev-interview-platform/internal/security"
)

// Broadcaster is the delivery surface the router drives. The hub implements
// it; tests substitute a recording fake.
type Broadcaster interface {
	Subscribe(connID, roomID string)
	Unsubscribe(connID, roomID string)
	Broadcast(roomID string, msg *models.WSMessage, excludeConnID string)
	SendTo(connID string, msg *models.WSMessage)
}

// Router receives every inbound participant event and sequences its side
// effects: state-cache update, store write-through, then broadcast. All
// mutating operations for one room run under that room's lock, so concurrent
// edits from different connections cannot interleave into a corrupted state;
// different rooms proceed fully in parallel. Because broadcasts are initiated
// while the room lock is held and per-connection delivery preserves enqueue
// order, participants observe events in exactly the order the router accepted
// them.
type Router struct {
	log      *slog.Logger
	registry *Registry
	roster   *Roster
	state    *StateCache
	sink     Broadcaster
	metrics  *Metrics

	mu        sync.Mutex
	roomLocks map[string]*sync.Mutex
}

func NewRouter(log *slog.Logger, registry *Registry, roster *Roster, state *StateCache, sink Broadcaster, metrics *Metrics) *Router {
	return &Router{
		log:       log,
		registry:  registry,
		roster:    roster,
		state:     state,
		sink:      sink,
		metrics:   metrics,
		roomLocks: make(map[string]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing one room's mutations. Locks are
// never reclaimed; empty-room garbage is acceptable since the authoritative
// session lives in the store.
func (r *Router) roomLock(roomID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.roomLocks[roomID]
	if l == nil {
		l = &sync.Mutex{}
		r.roomLocks[roomID] = l
	}
	return l
}

// Dispatch decodes and routes one inbound wire event. Malformed payloads are
// dropped with a warning; no event is fatal to the loop.
func (r *Router) Dispatch(ctx context.Context, connID string, msg *models.WSMessage) error {
	switch msg.Event {
	case models.EventJoinRoom:
		var data models.JoinRoomData
		if !r.decode(msg, &data) || data.RoomID == "" {
			return r.drop(msg)
		}
		user, err := security.ValidateParticipant(data.User)
		if err != nil {
			r.log.Warn("rejected join payload", "room", data.RoomID, "err", err)
			return nil
		}
		return r.HandleJoin(ctx, connID, data.RoomID, user)

	case models.EventLeaveRoom:
		var data models.LeaveRoomData
		if !r.decode(msg, &data) || data.RoomID == "" || data.UserID == "" {
			return r.drop(msg)
		}
		r.HandleLeave(ctx, connID, data.RoomID, data.UserID)
		return nil

	case models.EventCodeChange:
		var data models.CodeChangeData
		if !r.decode(msg, &data) || data.RoomID == "" {
			return r.drop(msg)
		}
		return r.HandleCodeChange(ctx, connID, data.RoomID, data.Code, data.Language)

	case models.EventCursorMove:
		var ref models.RoomRef
		if !r.decode(msg, &ref) || ref.RoomID == "" {
			return r.drop(msg)
		}
		r.HandleCursorMove(connID, ref.RoomID, msg.Data)
		return nil

	case models.EventWhiteboardUpdate:
		var data models.WhiteboardUpdateData
		if !r.decode(msg, &data) || data.RoomID == "" {
			return r.drop(msg)
		}
		return r.HandleWhiteboardDelta(ctx, connID, data.RoomID, data.Changes)

	case models.EventCustomQuestion:
		var data models.CustomQuestionData
		if !r.decode(msg, &data) || data.RoomID == "" {
			return r.drop(msg)
		}
		return r.HandleSetQuestion(ctx, data.RoomID, data.Question)

	case models.EventExecutionResult:
		var data models.ExecutionResultData
		if !r.decode(msg, &data) || data.RoomID == "" {
			return r.drop(msg)
		}
		return r.HandleExecutionResult(ctx, data.RoomID, data.Output, data.Error)

	default:
		r.log.Warn("unknown event", "event", msg.Event, "connId", connID)
		return nil
	}
}

func (r *Router) decode(msg *models.WSMessage, out any) bool {
	return json.Unmarshal(msg.Data, out) == nil
}

func (r *Router) drop(msg *models.WSMessage) error {
	r.log.Warn("malformed payload dropped", "event", msg.Event)
	return nil
}

// HandleConnect registers a connection that has not yet joined a room.
func (r *Router) HandleConnect(connID string) {
	r.registry.OnConnect(connID)
}

// HandleJoin runs the join sequence: registry and roster updates, lazy state
// load, catch-up unicasts to the joiner, roster broadcast, and the one-shot
// start-time announcement when this join is the first to observe it unset.
func (r *Router) HandleJoin(ctx context.Context, connID, roomID string, user models.Participant) error {
	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	p := user
	p.ConnectionID = connID
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now()
	}

	r.registry.OnJoin(connID, roomID, p.ID)
	r.roster.AddParticipant(roomID, &p)
	r.sink.Subscribe(connID, roomID)

	st, err := r.state.Get(ctx, roomID)
	if err != nil {
		return err
	}

	// Catch the joiner up to the current view; no history is replayed.
	if st.Code != "" || st.Language != "" {
		r.sendTo(connID, models.EventCodeChange, models.CodeChangeData{Code: st.Code, Language: st.Language})
	}
	if len(st.Question) > 0 {
		r.sendTo(connID, models.EventCustomQuestion, models.CustomQuestionData{Question: st.Question})
	}
	if st.LastOutput != "" {
		r.sendTo(connID, models.EventExecutionResult, models.ExecutionResultData{Output: st.LastOutput})
	}

	r.broadcastRoster(roomID)
	r.broadcast(roomID, models.EventUserJoined, models.UserJoinedData{User: p}, "")

	ts, set, err := r.state.MarkStartedIfUnset(ctx, roomID, time.Now())
	if err != nil {
		// The join itself stands; only the start-time announcement is
		// suppressed since it never persisted.
		r.metrics.IncrementPersistenceFailures()
		r.log.Error("failed to persist start time", "room", roomID, "err", err)
	} else if set {
		r.broadcast(roomID, models.EventSessionUpdated, models.SessionUpdatedData{
			ID:        roomID,
			StartTime: ts.Format(time.RFC3339),
		}, "")
	}

	r.log.Info("participant joined", "room", roomID, "participant", p.ID, "role", p.Role)
	return nil
}

// HandleLeave removes the participant and announces the new roster.
func (r *Router) HandleLeave(ctx context.Context, connID, roomID, participantID string) {
	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	r.registry.OnLeave(connID)
	removed := r.roster.RemoveParticipant(roomID, participantID)
	r.sink.Unsubscribe(connID, roomID)

	if !removed {
		return
	}
	r.broadcastRoster(roomID)
	r.broadcast(roomID, models.EventUserLeft, models.UserLeftData{UserID: participantID}, "")
	r.log.Info("participant left", "room", roomID, "participant", participantID)
}

// HandleDisconnect handles a transport-level close. The participant is
// evicted only when the closing connection is still the one authoritative for
// it; a disconnect racing behind a rejoin from a new tab is stale and ignored.
func (r *Router) HandleDisconnect(ctx context.Context, connID string) {
	roomID, participantID, joined := r.registry.OnDisconnect(connID)
	if !joined {
		return
	}

	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	if !r.roster.RemoveIfOwnedBy(roomID, participantID, connID) {
		r.log.Debug("stale disconnect ignored", "room", roomID, "participant", participantID, "connId", connID)
		return
	}

	r.broadcastRoster(roomID)
	r.broadcast(roomID, models.EventUserLeft, models.UserLeftData{UserID: participantID}, "")
	r.log.Info("participant disconnected", "room", roomID, "participant", participantID)
}

// HandleCodeChange persists the shared code buffer and echoes it to everyone
// but the sender.
func (r *Router) HandleCodeChange(ctx context.Context, connID, roomID, code, language string) error {
	if !r.roster.RoomExists(roomID) {
		r.log.Warn("code change for unknown room", "room", roomID)
		return ErrRoomNotFound
	}

	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.state.ApplyCodeChange(ctx, roomID, code, language); err != nil {
		r.metrics.IncrementPersistenceFailures()
		r.log.Error("failed to persist code change", "room", roomID, "err", err)
		return err
	}
	r.broadcast(roomID, models.EventCodeChange, models.CodeChangeData{Code: code, Language: language}, connID)
	return nil
}

// HandleCursorMove relays an ephemeral payload as-is, excluding the sender.
// Nothing is persisted and an unknown room is silently ignored.
func (r *Router) HandleCursorMove(connID, roomID string, payload json.RawMessage) {
	if !r.roster.RoomExists(roomID) {
		return
	}
	r.sink.Broadcast(roomID, &models.WSMessage{Event: models.EventCursorMove, Data: payload}, connID)
}

// HandleWhiteboardDelta folds the delta into the persisted snapshot and
// relays the raw delta to the other participants, who apply the same fold
// locally.
func (r *Router) HandleWhiteboardDelta(ctx context.Context, connID, roomID string, delta models.WhiteboardDelta) error {
	if !r.roster.RoomExists(roomID) {
		r.log.Warn("whiteboard update for unknown room", "room", roomID)
		return ErrRoomNotFound
	}

	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := r.state.ApplyWhiteboardDelta(ctx, roomID, delta); err != nil {
		r.metrics.IncrementPersistenceFailures()
		r.log.Error("failed to persist whiteboard delta", "room", roomID, "err", err)
		return err
	}
	r.broadcast(roomID, models.EventWhiteboardUpdate, models.WhiteboardUpdateData{Changes: delta}, connID)
	return nil
}

// HandleSetQuestion persists the shared question and announces it to the
// whole room, sender included.
func (r *Router) HandleSetQuestion(ctx context.Context, roomID string, question json.RawMessage) error {
	if !r.roster.RoomExists(roomID) {
		r.log.Warn("question for unknown room", "room", roomID)
		return ErrRoomNotFound
	}

	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.state.SetQuestion(ctx, roomID, question); err != nil {
		r.metrics.IncrementPersistenceFailures()
		r.log.Error("failed to persist question", "room", roomID, "err", err)
		return err
	}
	r.broadcast(roomID, models.EventCustomQuestion, models.CustomQuestionData{Question: question}, "")
	return nil
}

// HandleExecutionResult persists the captured output (or the error text when
// the run produced none) and announces it to the whole room.
func (r *Router) HandleExecutionResult(ctx context.Context, roomID, output, errText string) error {
	if !r.roster.RoomExists(roomID) {
		r.log.Warn("execution result for unknown room", "room", roomID)
		return ErrRoomNotFound
	}

	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	persisted := output
	if persisted == "" {
		persisted = errText
	}
	if err := r.state.SetOutput(ctx, roomID, persisted); err != nil {
		r.metrics.IncrementPersistenceFailures()
		r.log.Error("failed to persist execution result", "room", roomID, "err", err)
		return err
	}
	r.broadcast(roomID, models.EventExecutionResult, models.ExecutionResultData{Output: output, Error: errText}, "")
	return nil
}

// HandleSessionEnded relays the termination signal triggered by the HTTP
// layer. The status change is persisted there; the room only hears about it.
func (r *Router) HandleSessionEnded(roomID string) {
	lock := r.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()
	r.broadcast(roomID, models.EventSessionEnded, nil, "")
}

func (r *Router) broadcastRoster(roomID string) {
	users := r.roster.ListParticipants(roomID)
	r.broadcast(roomID, models.EventRoomUsers, models.RoomUsersData{Users: users}, "")
}

func (r *Router) broadcast(roomID, event string, payload any, exclude string) {
	msg, err := models.NewWSMessage(event, payload)
	if err != nil {
		r.log.Warn("marshal outbound payload", "event", event, "err", err)
		return
	}
	r.sink.Broadcast(roomID, msg, exclude)
}

func (r *Router) sendTo(connID, event string, payload any) {
	msg, err := models.NewWSMessage(event, payload)
	if err != nil {
		r.log.Warn("marshal outbound payload", "event", event, "err", err)
		return
	}
	r.sink.SendTo(connID, msg)
}
