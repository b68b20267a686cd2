package services

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
)

// Hub is the broadcast dispatcher: it keeps the set of live clients per room
// and fans a payload out to every one of them, optionally skipping the
// sender. Delivery is best-effort per connection: a full or broken client
// drops its copy without aborting delivery to the others.
type Hub struct {
	log     *slog.Logger
	metrics *Metrics

	mu    sync.RWMutex
	conns map[string]*Client            // connId -> client
	rooms map[string]map[string]*Client // roomId -> connId -> client
}

func NewHub(log *slog.Logger, metrics *Metrics) *Hub {
	return &Hub{
		log:     log,
		metrics: metrics,
		conns:   make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// Register tracks a freshly accepted connection before it joins any room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.conns[c.ID] = c
	h.mu.Unlock()
	h.metrics.IncrementConnections()
}

// Unregister drops the connection from the hub and from any room it was
// subscribed to.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	delete(h.conns, connID)
	for roomID, members := range h.rooms {
		if _, ok := members[connID]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.rooms, roomID)
				h.metrics.DecrementRooms()
			}
		}
	}
	h.mu.Unlock()
	h.metrics.DecrementConnections()
}

// Subscribe adds the connection to a room's delivery set.
func (h *Hub) Subscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.conns[connID]
	if !ok {
		return
	}
	members := h.rooms[roomID]
	if members == nil {
		members = make(map[string]*Client)
		h.rooms[roomID] = members
		h.metrics.IncrementRooms()
	}
	members[connID] = c
}

// Unsubscribe removes the connection from a room's delivery set.
func (h *Hub) Unsubscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
		h.metrics.DecrementRooms()
	}
}

// Broadcast delivers the message to every live connection in the room,
// skipping excludeConnID when non-empty. Frames are enqueued in call order,
// so per-room event ordering is preserved end to end as long as callers
// serialize their mutations.
func (h *Hub) Broadcast(roomID string, msg *models.WSMessage, excludeConnID string) {
	frame, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal broadcast", "room", roomID, "event", msg.Event, "err", err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[roomID]))
	for connID, c := range h.rooms[roomID] {
		if connID == excludeConnID {
			continue
		}
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		if !c.Send(frame) {
			h.metrics.IncrementDroppedSends()
			h.log.Warn("dropped frame", "room", roomID, "event", msg.Event, "connId", c.ID)
		}
	}
}

// SendTo unicasts the message to one connection (join catch-up).
func (h *Hub) SendTo(connID string, msg *models.WSMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("marshal unicast", "event", msg.Event, "err", err)
		return
	}

	h.mu.RLock()
	c := h.conns[connID]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	if !c.Send(frame) {
		h.metrics.IncrementDroppedSends()
	}
}
