package models

import "time"

type ParticipantRole string

const (
	RoleInterviewer ParticipantRole = "interviewer"
	RoleCandidate   ParticipantRole = "candidate"
	RoleObserver    ParticipantRole = "observer"
)

// Participant is a presence record owned by the room roster. ConnectionID is
// the transport connection currently authoritative for this participant; a
// rejoin from a new tab replaces it, after which the old connection's
// disconnect no longer evicts the participant.
type Participant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Role         ParticipantRole `json:"role"`
	ConnectionID string          `json:"-"`
	JoinedAt     time.Time       `json:"-"`
}

func NewParticipant(id, name string, role ParticipantRole) *Participant {
	return &Participant{
		ID:       id,
		Name:     name,
		Role:     role,
		JoinedAt: time.Now(),
	}
}
