package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
	"github.com/openclass/live/internal/identity"
)

// fakeConn records every frame the gateway pushes at a client.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// events decodes the recorded frames, optionally filtered by event name.
func (f *fakeConn) events(t *testing.T, name string) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(fr, &m))
		if name == "" || m["event"] == name {
			out = append(out, m)
		}
	}
	return out
}

// fakeStore is an in-memory MessageStore. err makes every append fail;
// onAppend runs during the persist window, before the write lands, to
// model membership changing while persistence is in flight.
type fakeStore struct {
	mu       sync.Mutex
	msgs     []*domain.ChatMessage
	err      error
	onAppend func()
}

func (s *fakeStore) Append(_ context.Context, msg *domain.ChatMessage) error {
	if s.onAppend != nil {
		s.onAppend()
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func (s *fakeStore) byRoom(room domain.ChatRoomID) []*domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ChatMessage
	for _, m := range s.msgs {
		if m.RoomID == room {
			out = append(out, m)
		}
	}
	return out
}

func ident(id, name string) identity.Identity {
	return identity.Identity{UserID: domain.UserID(id), DisplayName: name, Role: "student"}
}

// connect registers a fresh fake client on the gateway.
func connect(gw *Gateway, userID, name string) (*Connection, *fakeConn) {
	fc := &fakeConn{}
	return gw.Accept(fc, ident(userID, name)), fc
}
