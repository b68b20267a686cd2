package config

import "time"

// WebSocket connection limits and constraints
const (
	// Rate limiting
	MaxMessagesPerSecond = 20
	RateLimitWindow      = time.Second

	// Timeouts
	WriteTimeout = 10 * time.Second
	PingInterval = 30 * time.Second

	// Channel buffers
	ClientSendBufferSize = 256

	// Input limits
	MaxMessageBytes          = 256 * 1024 // whiteboard batches can get large
	MaxParticipantNameLength = 50
)
