package services

import (
	"sync"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

// Roster holds the per-room presence records in join order. Rooms are created
// lazily on first AddParticipant; removing the last participant keeps the
// room's state cache untouched, since the next joiner may arrive after
// everyone else left.
type Roster struct {
	mu    sync.RWMutex
	rooms map[string][]*models.Participant
}

func NewRoster() *Roster {
	return &Roster{rooms: make(map[string][]*models.Participant)}
}

// AddParticipant inserts the participant, or replaces an existing record with
// the same id in place. Replacing keeps the original join position so that
// a tab refresh does not shuffle the roster, and transfers presence authority
// to the new record's ConnectionID.
func (r *Roster) AddParticipant(roomID string, p *models.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	participants := r.rooms[roomID]
	for i, existing := range participants {
		if existing.ID == p.ID {
			p.JoinedAt = existing.JoinedAt
			participants[i] = p
			return
		}
	}
	r.rooms[roomID] = append(participants, p)
}

// RemoveParticipant deletes the record regardless of which connection owns it.
func (r *Roster) RemoveParticipant(roomID, participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(roomID, participantID)
}

// RemoveIfOwnedBy deletes the record only if connID is still the connection
// authoritative for it. A mismatch means a newer connection superseded this
// one (reconnect race) and the removal is stale.
func (r *Roster) RemoveIfOwnedBy(roomID, participantID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rooms[roomID] {
		if p.ID == participantID {
			if p.ConnectionID != connID {
				return false
			}
			return r.removeLocked(roomID, participantID)
		}
	}
	return false
}

func (r *Roster) removeLocked(roomID, participantID string) bool {
	participants := r.rooms[roomID]
	for i, p := range participants {
		if p.ID == participantID {
			r.rooms[roomID] = append(participants[:i], participants[i+1:]...)
			return true
		}
	}
	return false
}

// ListParticipants returns a join-ordered copy of the room's presence records.
func (r *Roster) ListParticipants(roomID string) []models.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	participants := r.rooms[roomID]
	out := make([]models.Participant, 0, len(participants))
	for _, p := range participants {
		out = append(out, *p)
	}
	return out
}

// GetParticipant returns a copy of one presence record.
func (r *Roster) GetParticipant(roomID, participantID string) (models.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.rooms[roomID] {
		if p.ID == participantID {
			return *p, true
		}
	}
	return models.Participant{}, false
}

// RoomExists reports whether the room currently has any participants.
func (r *Roster) RoomExists(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID]) > 0
}
