package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"github.com/owaisjunedi/dev-interview-platform/internal/runner"
	"github.com/owaisjunedi/dev-interview-platform/internal/security"
	"github.com/owaisjunedi/dev-interview-platform/internal/services"
)

type executeRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	SessionID string `json:"sessionId,omitempty"`
}

// Execute runs submitted code and returns the captured output. When the
// request names a session, the result is also persisted and broadcast to the
// room so every participant sees the same run.
func Execute(run *runner.Runner, router *services.Router) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req executeRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		if req.SessionID != "" {
			if err := security.ValidateSessionID(req.SessionID); err != nil {
				return e.BadRequestError("Invalid session id", err)
			}
		}

		res := run.Run(e.Request.Context(), req.Code, req.Language)

		if req.SessionID != "" {
			// A room that is not live anymore is fine; the caller still gets
			// the output in the response.
			_ = router.HandleExecutionResult(e.Request.Context(), req.SessionID, res.Output, res.Error)
		}

		return e.JSON(http.StatusOK, res)
	}
}
