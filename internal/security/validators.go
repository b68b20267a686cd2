package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/owaisjunedi/dev-interview-platform/internal/config"
	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

const MinNameLength = 1

var (
	// PocketBase ID regex - 15 character alphanumeric
	recordIDRegex = regexp.MustCompile(`^[a-zA-Z0-9]{15}$`)
	// Name validation regex - Unicode letters, digits, spaces, apostrophes,
	// hyphens, underscores, dots
	nameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s'\-_.]+$`)
)

// ValidateSessionID validates that a string is a PocketBase record id, the
// format shared by sessions and therefore by room ids.
func ValidateSessionID(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if !recordIDRegex.MatchString(id) {
		return fmt.Errorf("invalid ID format (expected 15-character record ID)")
	}
	return nil
}

// ValidateName validates a display name with length and character constraints
// and returns the trimmed value.
func ValidateName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}
	if len(name) < MinNameLength {
		return "", fmt.Errorf("name too short (min %d characters)", MinNameLength)
	}
	if len(name) > maxLen {
		return "", fmt.Errorf("name too long (max %d characters)", maxLen)
	}
	if !nameRegex.MatchString(name) {
		return "", fmt.Errorf("name contains invalid characters (allowed: letters, numbers, spaces, apostrophes, hyphens, underscores, dots)")
	}
	return name, nil
}

// ValidateRole checks a participant role against the known set.
func ValidateRole(role models.ParticipantRole) error {
	switch role {
	case models.RoleInterviewer, models.RoleCandidate, models.RoleObserver:
		return nil
	}
	return fmt.Errorf("unknown role %q", role)
}

// ValidateParticipant checks an inbound presence record and returns it with
// the name sanitized.
func ValidateParticipant(p models.Participant) (models.Participant, error) {
	if p.ID == "" {
		return p, fmt.Errorf("participant id cannot be empty")
	}
	name, err := ValidateName(p.Name, config.MaxParticipantNameLength)
	if err != nil {
		return p, err
	}
	if err := ValidateRole(p.Role); err != nil {
		return p, err
	}
	p.Name = name
	return p, nil
}

// WebSocket event type whitelist
var validEventTypes = map[string]bool{
	models.EventJoinRoom:         true,
	models.EventLeaveRoom:        true,
	models.EventCodeChange:       true,
	models.EventCursorMove:       true,
	models.EventWhiteboardUpdate: true,
	models.EventCustomQuestion:   true,
	models.EventExecutionResult:  true,
}

// IsValidEventType checks if an inbound WebSocket event type is accepted.
func IsValidEventType(event string) bool {
	return validEventTypes[event]
}
