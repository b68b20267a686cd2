package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
	"github.com/owaisjunedi/dev-interview-platform/internal/security"
)

func TestValidateSessionID(t *testing.T) {
	assert.NoError(t, security.ValidateSessionID("abc123def456ghi"))

	assert.Error(t, security.ValidateSessionID(""))
	assert.Error(t, security.ValidateSessionID("short"))
	assert.Error(t, security.ValidateSessionID("abc123def456ghij"))   // 16 chars
	assert.Error(t, security.ValidateSessionID("abc123def456gh!"))    // bad char
	assert.Error(t, security.ValidateSessionID("abc 23def456ghi"))    // space
}

func TestValidateName(t *testing.T) {
	t.Run("accepts and trims common names", func(t *testing.T) {
		for _, in := range []string{"Alice", "  Alice  ", "O'Brien", "Anne-Marie", "J. Doe", "user_42", "Zoë"} {
			got, err := security.ValidateName(in, 50)
			require.NoError(t, err, in)
			assert.Equal(t, strings.TrimSpace(in), got)
		}
	})

	t.Run("rejects empty, oversized and hostile input", func(t *testing.T) {
		for _, in := range []string{"", "   ", strings.Repeat("a", 51), "<script>", "a;drop table", "x\x00y"} {
			_, err := security.ValidateName(in, 50)
			assert.Error(t, err, "%q", in)
		}
	})
}

func TestValidateRole(t *testing.T) {
	assert.NoError(t, security.ValidateRole(models.RoleInterviewer))
	assert.NoError(t, security.ValidateRole(models.RoleCandidate))
	assert.NoError(t, security.ValidateRole(models.RoleObserver))
	assert.Error(t, security.ValidateRole("admin"))
	assert.Error(t, security.ValidateRole(""))
}

func TestValidateParticipant(t *testing.T) {
	t.Run("returns the sanitized participant", func(t *testing.T) {
		got, err := security.ValidateParticipant(models.Participant{
			ID:   "alice",
			Name: "  Alice  ",
			Role: models.RoleCandidate,
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
	})

	t.Run("rejects missing id, bad name, bad role", func(t *testing.T) {
		cases := []models.Participant{
			{Name: "Alice", Role: models.RoleCandidate},
			{ID: "alice", Name: "<b>", Role: models.RoleCandidate},
			{ID: "alice", Name: "Alice", Role: "root"},
		}
		for _, p := range cases {
			_, err := security.ValidateParticipant(p)
			assert.Error(t, err)
		}
	})
}

func TestIsValidEventType(t *testing.T) {
	for _, event := range []string{
		models.EventJoinRoom, models.EventLeaveRoom, models.EventCodeChange,
		models.EventCursorMove, models.EventWhiteboardUpdate,
		models.EventCustomQuestion, models.EventExecutionResult,
	} {
		assert.True(t, security.IsValidEventType(event), event)
	}

	// Server-to-client events never come back in.
	assert.False(t, security.IsValidEventType(models.EventRoomUsers))
	assert.False(t, security.IsValidEventType(models.EventSessionUpdated))
	assert.False(t, security.IsValidEventType("made_up"))
	assert.False(t, security.IsValidEventType(""))
}
