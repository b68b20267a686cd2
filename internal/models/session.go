package models

import (
	"encoding/json"
	"time"
)

// Session status values, mirroring the sessions collection select field.
const (
	SessionStatusScheduled  = "scheduled"
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
)

// Session is a data transfer object for a stored interview session. All
// persistent state lives in the database; this struct moves it between the
// store, the HTTP handlers and the room state cache.
type Session struct {
	ID             string                     `json:"id"`
	CandidateName  string                     `json:"candidateName"`
	CandidateEmail string                     `json:"candidateEmail"`
	Date           string                     `json:"date"`
	Duration       int                        `json:"duration"`
	Score          *int                       `json:"score"`
	Status         string                     `json:"status"`
	Language       string                     `json:"language"`
	Notes          string                     `json:"notes,omitempty"`
	StartTime      string                     `json:"startTime,omitempty"`
	Code           string                     `json:"code,omitempty"`
	Output         string                     `json:"output,omitempty"`
	Question       json.RawMessage            `json:"question,omitempty"`
	Whiteboard     map[string]json.RawMessage `json:"whiteboard,omitempty"`
	ServerTime     string                     `json:"serverTime,omitempty"`
}

// RoomState is the per-room mirror of the mutable session fields used to
// answer "what does a newcomer see right now" without a store round-trip.
// Whiteboard is a flattened element-id → latest-value mapping, never a list
// of historical deltas. StartTime transitions unset → set exactly once.
type RoomState struct {
	Code       string
	Language   string
	Question   json.RawMessage
	LastOutput string
	Whiteboard map[string]json.RawMessage
	StartTime  time.Time
}

// NewRoomState returns an empty state with an initialized whiteboard map.
func NewRoomState() *RoomState {
	return &RoomState{Whiteboard: make(map[string]json.RawMessage)}
}

// StateFromSession seeds a room state mirror from a stored session record.
func StateFromSession(s *Session) *RoomState {
	st := NewRoomState()
	if s == nil {
		return st
	}
	st.Code = s.Code
	st.Language = s.Language
	st.Question = s.Question
	st.LastOutput = s.Output
	for id, el := range s.Whiteboard {
		st.Whiteboard[id] = el
	}
	if s.StartTime != "" {
		if t, err := time.Parse(time.RFC3339, s.StartTime); err == nil {
			st.StartTime = t
		}
	}
	return st
}

// Started reports whether the room's start time has been set.
func (st *RoomState) Started() bool { return !st.StartTime.IsZero() }
