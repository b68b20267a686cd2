package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"

	"github.com/owaisjunedi/dev-interview-platform/internal/auth"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func userFromRecord(record *core.Record) userResponse {
	return userResponse{
		ID:    record.Id,
		Email: record.GetString("email"),
		Name:  record.GetString("name"),
		Role:  record.GetString("role"),
	}
}

// Signup registers a new interviewer account and issues a token.
func Signup(app core.App, tokens *auth.JWT) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req signupRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if req.Email == "" || req.Password == "" || req.Name == "" {
			return e.BadRequestError("email, password and name are required", nil)
		}

		if _, err := app.FindFirstRecordByData("users", "email", req.Email); err == nil {
			return e.BadRequestError("Email already registered", nil)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return e.InternalServerError("Failed to process credentials", err)
		}

		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return e.InternalServerError("Failed to find users collection", err)
		}
		record := core.NewRecord(collection)
		record.Set("email", req.Email)
		record.Set("password_hash", string(hash))
		record.Set("name", req.Name)
		record.Set("role", "interviewer")
		if err := app.Save(record); err != nil {
			return e.InternalServerError("Failed to create user", err)
		}

		token, err := tokens.Sign(req.Email)
		if err != nil {
			return e.InternalServerError("Failed to issue token", err)
		}
		return e.JSON(http.StatusOK, map[string]any{
			"user":  userFromRecord(record),
			"token": token,
		})
	}
}

// Login verifies credentials and issues a token.
func Login(app core.App, tokens *auth.JWT) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req loginRequest
		if err := e.BindBody(&req); err != nil {
			return e.BadRequestError("Invalid request body", err)
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		record, err := app.FindFirstRecordByData("users", "email", req.Email)
		if err != nil {
			return e.UnauthorizedError("Invalid credentials", nil)
		}
		if bcrypt.CompareHashAndPassword([]byte(record.GetString("password_hash")), []byte(req.Password)) != nil {
			return e.UnauthorizedError("Invalid credentials", nil)
		}

		token, err := tokens.Sign(req.Email)
		if err != nil {
			return e.InternalServerError("Failed to issue token", err)
		}
		return e.JSON(http.StatusOK, map[string]any{
			"user":  userFromRecord(record),
			"token": token,
		})
	}
}

// RequireAuth guards a route with bearer-token verification.
func RequireAuth(tokens *auth.JWT, next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		header := e.Request.Header.Get("Authorization")
		tok, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return e.UnauthorizedError("Missing bearer token", nil)
		}
		if _, err := tokens.Verify(tok); err != nil {
			return e.UnauthorizedError("Invalid token", err)
		}
		return next(e)
	}
}
