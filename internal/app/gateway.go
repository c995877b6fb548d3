// Package app holds the live room state of the gateway process: which
// connection is in which chat room and on which call, right now.
package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
	"github.com/openclass/live/internal/identity"
	"github.com/openclass/live/internal/store"
)

// Gateway owns the connection table and the room tables. One mutex guards
// all of them: every in-memory mutation is a single non-suspending step, so
// no event is ever observed mid-mutation. Persistence and identity checks
// happen outside the lock.
//
// Construct one per process (or per test); there is no package-level state.
type Gateway struct {
	mu    sync.Mutex
	conns map[domain.ConnID]*Connection
	chat  map[domain.ChatRoomID]map[domain.ConnID]struct{}
	video map[domain.VideoRoomID][]domain.Participant

	store   store.MessageStore
	limiter *ChatRateLimiter // nil disables rate limiting
}

func NewGateway(st store.MessageStore, limiter *ChatRateLimiter) *Gateway {
	return &Gateway{
		conns:   make(map[domain.ConnID]*Connection),
		chat:    make(map[domain.ChatRoomID]map[domain.ConnID]struct{}),
		video:   make(map[domain.VideoRoomID][]domain.Participant),
		store:   st,
		limiter: limiter,
	}
}

// Accept registers an authenticated transport and returns its Connection.
// The credential has already been verified; this step cannot fail.
func (g *Gateway) Accept(sig core.SignalConnection, user identity.Identity) *Connection {
	c := newConnection(sig, user)
	g.mu.Lock()
	g.conns[c.ID] = c
	g.mu.Unlock()
	log.Info().Str("module", "app.gateway").
		Str("conn", string(c.ID)).
		Str("user", string(user.UserID)).
		Msg("connection accepted")
	return c
}

// Disconnect is the reconciler: it runs once per connection teardown,
// graceful or abrupt, and removes the connection from every room its
// membership sets record, emitting the same departure notifications an
// explicit leave would. Idempotent; a second call is a no-op.
func (g *Gateway) Disconnect(id domain.ConnID) {
	g.mu.Lock()
	c, ok := g.conns[id]
	if !ok {
		g.mu.Unlock()
		return
	}
	delete(g.conns, id)

	for room := range c.chatRooms {
		g.leaveChatLocked(c, room)
	}
	for room := range c.videoRooms {
		g.leaveVideoLocked(c, room)
	}
	g.mu.Unlock()

	log.Info().Str("module", "app.gateway").
		Str("conn", string(id)).
		Str("user", string(c.User.UserID)).
		Msg("connection closed")
}

func (g *Gateway) conn(id domain.ConnID) (*Connection, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.conns[id]
	return c, ok
}

// send marshals and fire-and-forget delivers one event. Slow consumers
// drop frames rather than block an event handler.
func send(sig core.SignalConnection, v any) {
	f := core.MustFrame(v)
	if f == nil {
		return
	}
	if err := sig.TrySend(f); err != nil {
		log.Warn().Err(err).Str("module", "app.gateway").Msg("dropping event")
	}
}

// sendError reports a recoverable failure to one connection.
func sendError(sig core.SignalConnection, msg string) {
	send(sig, core.ErrorEvent{Event: core.EvtError, Message: msg})
}

// ChatRoomInfo and VideoRoomInfo are read-only views for the ops API.
type ChatRoomInfo struct {
	RoomID  domain.ChatRoomID `json:"roomId"`
	Members int               `json:"memberCount"`
}

type VideoRoomInfo struct {
	RoomID       domain.VideoRoomID   `json:"roomId"`
	Participants []domain.Participant `json:"participants"`
}

func (g *Gateway) ChatRooms() []ChatRoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ChatRoomInfo, 0, len(g.chat))
	for id, members := range g.chat {
		out = append(out, ChatRoomInfo{RoomID: id, Members: len(members)})
	}
	return out
}

func (g *Gateway) VideoRooms() []VideoRoomInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]VideoRoomInfo, 0, len(g.video))
	for id, list := range g.video {
		ps := make([]domain.Participant, len(list))
		copy(ps, list)
		out = append(out, VideoRoomInfo{RoomID: id, Participants: ps})
	}
	return out
}

// ConnCount reports live connections, for the health endpoint.
func (g *Gateway) ConnCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}
