package services

import "sync"

// connEntry records which (room, participant) a transport connection speaks
// for. A connection that has connected but not joined has an empty entry.
type connEntry struct {
	roomID        string
	participantID string
}

// Registry maps live transport connections to the (room, participant) they
// belong to. It is the only component that knows "who is still here"; the
// roster is a derived view repaired from registry events.
//
// At most one live connection per (room, participant) is authoritative for
// presence. The registry itself keeps every physical connection it is told
// about; authority is decided by the roster record's ConnectionID, so a stale
// tab's late disconnect cannot evict the participant it no longer represents.
type Registry struct {
	mu    sync.Mutex
	conns map[string]connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]connEntry)}
}

// OnConnect records a connection that has not yet joined a room.
func (r *Registry) OnConnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[connID]; !exists {
		r.conns[connID] = connEntry{}
	}
}

// OnJoin binds the connection to a (room, participant). A later join for the
// same participant on a different connection simply adds its own binding; the
// roster swap that accompanies it is what transfers presence authority.
func (r *Registry) OnJoin(connID, roomID, participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = connEntry{roomID: roomID, participantID: participantID}
}

// OnLeave clears the binding but keeps the connection registered; the client
// may join another room on the same socket.
func (r *Registry) OnLeave(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[connID]; exists {
		r.conns[connID] = connEntry{}
	}
}

// OnDisconnect removes the connection and returns the (room, participant) it
// was bound to, if any. Unknown connections are a silent no-op: connections
// close for many benign reasons.
func (r *Registry) OnDisconnect(connID string) (roomID, participantID string, joined bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, exists := r.conns[connID]
	delete(r.conns, connID)
	if !exists || entry.roomID == "" {
		return "", "", false
	}
	return entry.roomID, entry.participantID, true
}

// Lookup returns the binding for a connection.
func (r *Registry) Lookup(connID string) (roomID, participantID string, joined bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, exists := r.conns[connID]
	if !exists || entry.roomID == "" {
		return "", "", false
	}
	return entry.roomID, entry.participantID, true
}
