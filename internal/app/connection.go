package app

import (
	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
	"github.com/openclass/live/internal/identity"
)

// Connection is one live client session. The gateway owns it exclusively;
// other components reference it only by id. The membership sets are what
// the disconnect reconciler walks on teardown, and they are mutated only
// under the gateway mutex.
type Connection struct {
	ID   domain.ConnID
	User identity.Identity

	sig core.SignalConnection

	chatRooms  map[domain.ChatRoomID]struct{}
	videoRooms map[domain.VideoRoomID]struct{}
}

func newConnection(sig core.SignalConnection, user identity.Identity) *Connection {
	return &Connection{
		ID:         domain.NewConnID(),
		User:       user,
		sig:        sig,
		chatRooms:  make(map[domain.ChatRoomID]struct{}),
		videoRooms: make(map[domain.VideoRoomID]struct{}),
	}
}

func (c *Connection) participant() domain.Participant {
	return domain.Participant{
		ConnID:   c.ID,
		UserID:   c.User.UserID,
		UserName: c.User.DisplayName,
	}
}
