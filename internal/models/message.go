package models

import "encoding/json"

// WSMessage is the wire envelope for every event exchanged over a room
// connection. Data carries the event-specific payload untouched so that
// ephemeral events (cursor moves) can be rebroadcast without re-encoding.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client → Server events
const (
	EventJoinRoom         = "join_room"
	EventLeaveRoom        = "leave_room"
	EventCodeChange       = "code_change"
	EventCursorMove       = "cursor_move"
	EventWhiteboardUpdate = "whiteboard_update"
	EventCustomQuestion   = "custom_question"
	EventExecutionResult  = "execution_result"
)

// Server → Client events. code_change, cursor_move, whiteboard_update,
// custom_question and execution_result are echoed back out under their
// inbound names.
const (
	EventRoomUsers      = "room_users"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventSessionUpdated = "session_updated"
	EventSessionEnded   = "session_ended"
)

// NewWSMessage marshals payload into a ready-to-send envelope.
func NewWSMessage(event string, payload any) (*WSMessage, error) {
	if payload == nil {
		return &WSMessage{Event: event}, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &WSMessage{Event: event, Data: data}, nil
}

// JoinRoomData is the join_room payload.
type JoinRoomData struct {
	RoomID string      `json:"roomId"`
	User   Participant `json:"user"`
}

// LeaveRoomData is the leave_room payload.
type LeaveRoomData struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

// CodeChangeData is both the inbound code_change payload and the outbound
// echo; RoomID is omitted on the way out.
type CodeChangeData struct {
	RoomID   string `json:"roomId,omitempty"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// RoomRef extracts just the room id from a payload that is otherwise passed
// through opaque (cursor_move).
type RoomRef struct {
	RoomID string `json:"roomId"`
}

// WhiteboardUpdateData is the whiteboard_update payload: a delta envelope
// that receivers fold into their local snapshot.
type WhiteboardUpdateData struct {
	RoomID  string          `json:"roomId,omitempty"`
	Changes WhiteboardDelta `json:"changes"`
}

// CustomQuestionData is the custom_question payload. Question is a free-form
// structured value owned by the client.
type CustomQuestionData struct {
	RoomID   string          `json:"roomId,omitempty"`
	Question json.RawMessage `json:"question"`
}

// ExecutionResultData is the execution_result payload.
type ExecutionResultData struct {
	RoomID string `json:"roomId,omitempty"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RoomUsersData is the room_users roster snapshot payload.
type RoomUsersData struct {
	Users []Participant `json:"users"`
}

// UserJoinedData is the user_joined payload.
type UserJoinedData struct {
	User Participant `json:"user"`
}

// UserLeftData is the user_left payload.
type UserLeftData struct {
	UserID string `json:"userId"`
}

// SessionUpdatedData is the session_updated payload, emitted once when a
// room's start time is first set.
type SessionUpdatedData struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
}
