package services_test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/owaisjunedi/dev-interview-platform/internal/models"
	"github.com/owaisjunedi/dev-interview-platform/internal/services"
)

// fakeStore is an in-memory SessionStore that applies field updates the way
// the record store would, so cache reloads observe earlier writes.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	failWith error
	getCalls int
	updates  []map[string]any
}

func newFakeStore(sessions ...*models.Session) *fakeStore {
	s := &fakeStore{sessions: make(map[string]*models.Session)}
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
	}
	return s
}

func (s *fakeStore) failNextWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *fakeStore) Get(ctx context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	sess, ok := s.sessions[id]
	if !ok {
		return nil, services.ErrSessionNotFound
	}
	out := *sess
	if sess.Whiteboard != nil {
		out.Whiteboard = make(map[string]json.RawMessage, len(sess.Whiteboard))
		for k, v := range sess.Whiteboard {
			out.Whiteboard[k] = v
		}
	}
	return &out, nil
}

func (s *fakeStore) Update(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	sess, ok := s.sessions[id]
	if !ok {
		return services.ErrSessionNotFound
	}
	s.updates = append(s.updates, fields)
	for k, v := range fields {
		switch k {
		case services.FieldCode:
			sess.Code = v.(string)
		case services.FieldLanguage:
			sess.Language = v.(string)
		case services.FieldOutput:
			sess.Output = v.(string)
		case services.FieldNotes:
			sess.Notes = v.(string)
		case services.FieldStatus:
			sess.Status = v.(string)
		case services.FieldStartTime:
			sess.StartTime = v.(string)
		case services.FieldScore:
			n := v.(int)
			sess.Score = &n
		case services.FieldQuestion:
			sess.Question = v.(json.RawMessage)
		case services.FieldWhiteboard:
			var snapshot map[string]json.RawMessage
			_ = json.Unmarshal(v.(json.RawMessage), &snapshot)
			sess.Whiteboard = snapshot
		}
	}
	return nil
}

func (s *fakeStore) session(id string) *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *fakeStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.updates)
}

// sinkCall records one delivery the router asked for.
type sinkCall struct {
	RoomID string
	ConnID string // unicast target, or excluded connection for broadcasts
	Event  string
	Data   json.RawMessage
}

// fakeSink is a recording Broadcaster.
type fakeSink struct {
	mu           sync.Mutex
	subscribed   []string
	unsubscribed []string
	broadcasts   []sinkCall
	unicasts     []sinkCall
}

func newFakeSink() *fakeSink { return &fakeSink{} }

func (f *fakeSink) Subscribe(connID, roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, connID+":"+roomID)
}

func (f *fakeSink) Unsubscribe(connID, roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, connID+":"+roomID)
}

func (f *fakeSink) Broadcast(roomID string, msg *models.WSMessage, excludeConnID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, sinkCall{
		RoomID: roomID,
		ConnID: excludeConnID,
		Event:  msg.Event,
		Data:   msg.Data,
	})
}

func (f *fakeSink) SendTo(connID string, msg *models.WSMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unicasts = append(f.unicasts, sinkCall{
		ConnID: connID,
		Event:  msg.Event,
		Data:   msg.Data,
	})
}

func (f *fakeSink) broadcastsOf(event string) []sinkCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sinkCall
	for _, c := range f.broadcasts {
		if c.Event == event {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSink) unicastsTo(connID string) []sinkCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sinkCall
	for _, c := range f.unicasts {
		if c.ConnID == connID {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeSink) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = nil
	f.unicasts = nil
}
