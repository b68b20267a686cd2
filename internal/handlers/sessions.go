package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
	"github.com/owaisjunedi/dev-interview-platform/internal/security"
	"github.com/owaisjunedi/dev-interview-platform/internal/services"
)

type sessionCreateRequest struct {
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	Language       string `json:"language"`
}

type sessionUpdateRequest struct {
	Score *int    `json:"score"`
	Notes *string `json:"notes"`
}

// SessionsList returns all sessions.
func SessionsList(store *services.RecordStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		sessions, err := store.List(e.Request.Context())
		if err != nil {
			return e.InternalServerError("Failed to list sessions", err)
		}
		return e.JSON(http.StatusOK, sessions)
	}
}

// SessionsCreate schedules a new interview session.
func SessionsCreate(store *services.RecordStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req sessionCreateRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		if req.CandidateName == "" || req.Language == "" {
			return e.BadRequestError("candidateName and language are required", nil)
		}

		sess, err := store.Create(e.Request.Context(), &models.Session{
			CandidateName:  req.CandidateName,
			CandidateEmail: req.CandidateEmail,
			Date:           time.Now().UTC().Format(time.RFC3339),
			Duration:       0,
			Status:         models.SessionStatusScheduled,
			Language:       req.Language,
		})
		if err != nil {
			return e.InternalServerError("Failed to create session", err)
		}
		return e.JSON(http.StatusCreated, sess)
	}
}

// SessionsView returns one session. The response carries serverTime so
// clients can offset their clocks against the server's.
func SessionsView(store *services.RecordStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := security.ValidateSessionID(id); err != nil {
			return e.BadRequestError("Invalid session id", err)
		}
		sess, err := store.Get(e.Request.Context(), id)
		if err != nil {
			return e.NotFoundError("Session not found", err)
		}
		sess.ServerTime = time.Now().UTC().Format(time.RFC3339)
		return e.JSON(http.StatusOK, sess)
	}
}

// SessionsUpdate records interviewer feedback (score, notes).
func SessionsUpdate(store *services.RecordStore) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := security.ValidateSessionID(id); err != nil {
			return e.BadRequestError("Invalid session id", err)
		}
		var req sessionUpdateRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}

		fields := map[string]any{}
		if req.Score != nil {
			fields[services.FieldScore] = *req.Score
		}
		if req.Notes != nil {
			fields[services.FieldNotes] = *req.Notes
		}
		if len(fields) > 0 {
			if err := store.Update(e.Request.Context(), id, fields); err != nil {
				return e.NotFoundError("Session not found", err)
			}
		}

		sess, err := store.Get(e.Request.Context(), id)
		if err != nil {
			return e.NotFoundError("Session not found", err)
		}
		return e.JSON(http.StatusOK, sess)
	}
}

// SessionsTerminate completes the session and tells the room it is over.
func SessionsTerminate(store *services.RecordStore, router *services.Router) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := security.ValidateSessionID(id); err != nil {
			return e.BadRequestError("Invalid session id", err)
		}
		err := store.Update(e.Request.Context(), id, map[string]any{
			services.FieldStatus: models.SessionStatusCompleted,
		})
		if err != nil {
			return e.NotFoundError("Session not found", err)
		}

		router.HandleSessionEnded(id)
		return e.JSON(http.StatusOK, map[string]string{"message": "Session terminated"})
	}
}
