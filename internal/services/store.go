package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

// Session collection field names shared by the store and the migrations.
const (
	FieldCandidateName  = "candidate_name"
	FieldCandidateEmail = "candidate_email"
	FieldDate           = "date"
	FieldDuration       = "duration"
	FieldScore          = "score"
	FieldStatus         = "status"
	FieldLanguage       = "language"
	FieldNotes          = "notes"
	FieldStartTime      = "start_time"
	FieldCode           = "code"
	FieldOutput         = "output"
	FieldQuestion       = "question"
	FieldWhiteboard     = "whiteboard"
)

// SessionStore is the collaborator interface the sync core depends on: read a
// session record, write a partial set of its fields. The concrete store owns
// schema and durability; the core only assumes last-write-visible-to-next-read.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

// RecordStore persists sessions as PocketBase records. It implements
// SessionStore for the core and adds the CRUD operations the HTTP layer needs.
type RecordStore struct {
	app core.App
}

func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

func (s *RecordStore) Get(ctx context.Context, id string) (*models.Session, error) {
	record, err := s.app.FindRecordById("sessions", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sessionFromRecord(record), nil
}

func (s *RecordStore) Update(ctx context.Context, id string, fields map[string]any) error {
	record, err := s.app.FindRecordById("sessions", id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	for k, v := range fields {
		if raw, ok := v.(json.RawMessage); ok {
			record.Set(k, types.JSONRaw(raw))
			continue
		}
		record.Set(k, v)
	}
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Create inserts a new session record and returns it with the store-assigned id.
func (s *RecordStore) Create(ctx context.Context, sess *models.Session) (*models.Session, error) {
	collection, err := s.app.FindCollectionByNameOrId("sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to find sessions collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set(FieldCandidateName, sess.CandidateName)
	record.Set(FieldCandidateEmail, sess.CandidateEmail)
	record.Set(FieldDate, sess.Date)
	record.Set(FieldDuration, sess.Duration)
	record.Set(FieldStatus, sess.Status)
	record.Set(FieldLanguage, sess.Language)

	if err := s.app.Save(record); err != nil {
		return nil, fmt.Errorf("failed to save session record: %w", err)
	}
	return sessionFromRecord(record), nil
}

// List returns all sessions, newest first.
func (s *RecordStore) List(ctx context.Context) ([]*models.Session, error) {
	records, err := s.app.FindRecordsByFilter("sessions", "", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sessions := make([]*models.Session, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, sessionFromRecord(record))
	}
	return sessions, nil
}

func sessionFromRecord(record *core.Record) *models.Session {
	sess := &models.Session{
		ID:             record.Id,
		CandidateName:  record.GetString(FieldCandidateName),
		CandidateEmail: record.GetString(FieldCandidateEmail),
		Date:           record.GetString(FieldDate),
		Duration:       record.GetInt(FieldDuration),
		Status:         record.GetString(FieldStatus),
		Language:       record.GetString(FieldLanguage),
		Notes:          record.GetString(FieldNotes),
		StartTime:      record.GetString(FieldStartTime),
		Code:           record.GetString(FieldCode),
		Output:         record.GetString(FieldOutput),
	}

	if n := record.GetInt(FieldScore); n != 0 {
		sess.Score = &n
	}
	if q := record.GetString(FieldQuestion); q != "" && q != "null" {
		sess.Question = json.RawMessage(q)
	}
	if wb := record.GetString(FieldWhiteboard); wb != "" && wb != "null" {
		var snapshot map[string]json.RawMessage
		if err := json.Unmarshal([]byte(wb), &snapshot); err == nil {
			sess.Whiteboard = snapshot
		}
	}
	return sess
}
