package app

import (
	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
)

// JoinVideo appends the connection to a video room's participant list and
// returns the participants that were already present, in join order, so
// the arrival can initiate signaling with each of them. Everyone already
// on the call is notified of the arrival. Joining a room twice is a no-op
// that re-fires nothing and returns the current peers.
func (g *Gateway) JoinVideo(id domain.ConnID, room domain.VideoRoomID) []domain.Participant {
	g.mu.Lock()
	c, ok := g.conns[id]
	if !ok {
		g.mu.Unlock()
		return nil
	}

	existing := g.video[room]
	for _, p := range existing {
		if p.ConnID == id {
			// Duplicate join: keep the list as is.
			peers := othersOf(existing, id)
			g.mu.Unlock()
			return peers
		}
	}

	peers := make([]domain.Participant, len(existing))
	copy(peers, existing)
	g.video[room] = append(existing, c.participant())
	c.videoRooms[room] = struct{}{}

	evt := core.UserJoined{Event: core.EvtUserJoined, RoomID: room, Participant: c.participant()}
	targets := g.sigsForLocked(peers)
	g.mu.Unlock()

	for _, sig := range targets {
		send(sig, evt)
	}
	return peers
}

// LeaveVideo removes the participant and notifies the remainder. The room
// entry is deleted the instant its list becomes empty.
func (g *Gateway) LeaveVideo(id domain.ConnID, room domain.VideoRoomID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.conns[id]
	if !ok {
		return
	}
	g.leaveVideoLocked(c, room)
}

// leaveVideoLocked is shared by explicit leaves and the reconciler, so an
// abrupt drop produces exactly the notifications an explicit leave would.
func (g *Gateway) leaveVideoLocked(c *Connection, room domain.VideoRoomID) {
	list, ok := g.video[room]
	if !ok {
		delete(c.videoRooms, room)
		return
	}

	remaining := list[:0]
	found := false
	for _, p := range list {
		if p.ConnID == c.ID {
			found = true
			continue
		}
		remaining = append(remaining, p)
	}
	delete(c.videoRooms, room)
	if !found {
		return
	}

	if len(remaining) == 0 {
		delete(g.video, room)
		return
	}
	g.video[room] = remaining

	evt := core.UserLeft{Event: core.EvtUserLeft, RoomID: room, ConnID: c.ID}
	for _, sig := range g.sigsForLocked(remaining) {
		send(sig, evt)
	}
}

func (g *Gateway) sigsForLocked(ps []domain.Participant) []core.SignalConnection {
	out := make([]core.SignalConnection, 0, len(ps))
	for _, p := range ps {
		if c, ok := g.conns[p.ConnID]; ok {
			out = append(out, c.sig)
		}
	}
	return out
}

func othersOf(ps []domain.Participant, self domain.ConnID) []domain.Participant {
	out := make([]domain.Participant, 0, len(ps))
	for _, p := range ps {
		if p.ConnID != self {
			out = append(out, p)
		}
	}
	return out
}
