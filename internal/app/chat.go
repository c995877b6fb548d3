package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
)

// JoinChat adds the connection to a chat room. Idempotent; no persistence
// event and no notification fires on membership changes.
func (g *Gateway) JoinChat(id domain.ConnID, room domain.ChatRoomID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.conns[id]
	if !ok {
		return
	}
	members, ok := g.chat[room]
	if !ok {
		members = make(map[domain.ConnID]struct{})
		g.chat[room] = members
	}
	members[id] = struct{}{}
	c.chatRooms[room] = struct{}{}
}

// LeaveChat removes membership; leaving a room you are not in is a no-op.
// Empty rooms are pruned immediately.
func (g *Gateway) LeaveChat(id domain.ConnID, room domain.ChatRoomID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.conns[id]
	if !ok {
		return
	}
	g.leaveChatLocked(c, room)
}

func (g *Gateway) leaveChatLocked(c *Connection, room domain.ChatRoomID) {
	if members, ok := g.chat[room]; ok {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(g.chat, room)
		}
	}
	delete(c.chatRooms, room)
}

// SendChat persists a message and then broadcasts it to the room. The
// persist call suspends while other events keep being served, so the
// broadcast uses the membership set current at broadcast time, not at send
// time. On persist failure the sender alone is notified and nothing is
// broadcast.
func (g *Gateway) SendChat(ctx context.Context, id domain.ConnID, room domain.ChatRoomID, text string) {
	sender, ok := g.conn(id)
	if !ok {
		return
	}

	if g.limiter != nil && !g.limiter.Allow(sender.User.UserID) {
		sendError(sender.sig, "too many messages, slow down")
		return
	}

	msg := domain.NewChatMessage(sender.User.UserID, sender.User.DisplayName, room, text)
	if err := g.store.Append(ctx, msg); err != nil {
		log.Error().Err(err).Str("module", "app.chat").Str("room", string(room)).Msg("message persist failed")
		if s, ok := g.conn(id); ok {
			sendError(s.sig, "message could not be saved")
		}
		return
	}

	evt := core.ReceiveMessage{
		Event:      core.EvtReceiveMessage,
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		SenderName: msg.SenderName,
		Text:       msg.Text,
		RoomID:     msg.RoomID,
		Timestamp:  msg.CreatedAt,
	}
	frame := core.MustFrame(evt)

	g.mu.Lock()
	targets := make([]core.SignalConnection, 0, len(g.chat[room]))
	for member := range g.chat[room] {
		if c, ok := g.conns[member]; ok {
			targets = append(targets, c.sig)
		}
	}
	g.mu.Unlock()

	for _, sig := range targets {
		if err := sig.TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "app.chat").Str("room", string(room)).Msg("dropping broadcast")
		}
	}
}
