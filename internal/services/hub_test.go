package services

// White-box: these tests enqueue through a Client whose write pump is never
// started, so frames stay readable on its send channel.

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), NewMetrics())
}

func newIdleClient() *Client {
	return NewClient(nil, slog.New(slog.NewTextHandler(io.Discard, nil)), NewMetrics())
}

func drainFrames(c *Client) []models.WSMessage {
	var out []models.WSMessage
	for {
		select {
		case frame := <-c.send:
			var msg models.WSMessage
			if err := json.Unmarshal(frame, &msg); err == nil {
				out = append(out, msg)
			}
		default:
			return out
		}
	}
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	hub := newTestHub()
	sender, peer := newIdleClient(), newIdleClient()
	hub.Register(sender)
	hub.Register(peer)
	hub.Subscribe(sender.ID, "room1")
	hub.Subscribe(peer.ID, "room1")

	hub.Broadcast("room1", &models.WSMessage{Event: models.EventCodeChange}, sender.ID)

	assert.Empty(t, drainFrames(sender))
	frames := drainFrames(peer)
	require.Len(t, frames, 1)
	assert.Equal(t, models.EventCodeChange, frames[0].Event)
}

func TestHub_BroadcastReachesEveryoneWithoutExclusion(t *testing.T) {
	hub := newTestHub()
	a, b := newIdleClient(), newIdleClient()
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a.ID, "room1")
	hub.Subscribe(b.ID, "room1")

	hub.Broadcast("room1", &models.WSMessage{Event: models.EventUserJoined}, "")

	assert.Len(t, drainFrames(a), 1)
	assert.Len(t, drainFrames(b), 1)
}

func TestHub_BroadcastIsScopedToTheRoom(t *testing.T) {
	hub := newTestHub()
	in, out := newIdleClient(), newIdleClient()
	hub.Register(in)
	hub.Register(out)
	hub.Subscribe(in.ID, "room1")
	hub.Subscribe(out.ID, "room2")

	hub.Broadcast("room1", &models.WSMessage{Event: models.EventCodeChange}, "")

	assert.Len(t, drainFrames(in), 1)
	assert.Empty(t, drainFrames(out))
}

func TestHub_FullBufferDropsOnlyThatConnection(t *testing.T) {
	hub := newTestHub()
	slow, healthy := newIdleClient(), newIdleClient()
	slow.send = make(chan []byte) // unbuffered and never drained
	hub.Register(slow)
	hub.Register(healthy)
	hub.Subscribe(slow.ID, "room1")
	hub.Subscribe(healthy.ID, "room1")

	hub.Broadcast("room1", &models.WSMessage{Event: models.EventCodeChange}, "")

	assert.Len(t, drainFrames(healthy), 1)
	assert.Equal(t, int64(1), hub.metrics.Snapshot().DroppedSends)
}

func TestHub_SendTo(t *testing.T) {
	hub := newTestHub()
	target, other := newIdleClient(), newIdleClient()
	hub.Register(target)
	hub.Register(other)

	hub.SendTo(target.ID, &models.WSMessage{Event: models.EventCustomQuestion})

	frames := drainFrames(target)
	require.Len(t, frames, 1)
	assert.Equal(t, models.EventCustomQuestion, frames[0].Event)
	assert.Empty(t, drainFrames(other))

	// Unknown target is a no-op.
	hub.SendTo("nope", &models.WSMessage{Event: models.EventCustomQuestion})
}

func TestHub_UnregisterRemovesFromRooms(t *testing.T) {
	hub := newTestHub()
	c, peer := newIdleClient(), newIdleClient()
	hub.Register(c)
	hub.Register(peer)
	hub.Subscribe(c.ID, "room1")
	hub.Subscribe(peer.ID, "room1")

	hub.Unregister(c.ID)
	hub.Broadcast("room1", &models.WSMessage{Event: models.EventCodeChange}, "")

	assert.Empty(t, drainFrames(c))
	assert.Len(t, drainFrames(peer), 1)
}

func TestHub_SubscribeUnknownConnection(t *testing.T) {
	hub := newTestHub()

	hub.Subscribe("ghost", "room1")
	hub.Broadcast("room1", &models.WSMessage{Event: models.EventCodeChange}, "")

	_, tracked := hub.rooms["room1"]
	assert.False(t, tracked)
}

func TestHub_FrameOrderPerConnection(t *testing.T) {
	hub := newTestHub()
	c := newIdleClient()
	hub.Register(c)
	hub.Subscribe(c.ID, "room1")

	hub.Broadcast("room1", &models.WSMessage{Event: "first"}, "")
	hub.Broadcast("room1", &models.WSMessage{Event: "second"}, "")
	hub.Broadcast("room1", &models.WSMessage{Event: "third"}, "")

	frames := drainFrames(c)
	require.Len(t, frames, 3)
	assert.Equal(t, "first", frames[0].Event)
	assert.Equal(t, "second", frames[1].Event)
	assert.Equal(t, "third", frames[2].Event)
}

func TestClient_SendAfterCloseFails(t *testing.T) {
	c := newIdleClient()
	c.closeMu.Lock()
	c.closed = true
	c.closeMu.Unlock()

	assert.False(t, c.Send([]byte("frame")))
}
