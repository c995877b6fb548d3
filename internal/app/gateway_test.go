package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcceptAssignsUniqueConnIDs(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	a, _ := connect(gw, "u1", "Alice")
	b, _ := connect(gw, "u1", "Alice")

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, gw.ConnCount())
}

// Disconnecting a connection joined to chat room A and video rooms B and C
// removes it from all three. Each video room gets exactly one user-left to
// its remaining member; the chat room gets no notification at all.
func TestDisconnectReconcilesEveryRoom(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, _ := connect(gw, "u1", "Xena")
	y, yc := connect(gw, "u2", "Yuri")
	z, zc := connect(gw, "u3", "Zoe")

	gw.JoinChat(x.ID, "A")
	gw.JoinChat(y.ID, "A")
	gw.JoinVideo(y.ID, "B")
	gw.JoinVideo(x.ID, "B")
	gw.JoinVideo(z.ID, "C")
	gw.JoinVideo(x.ID, "C")
	yc.frames = nil
	zc.frames = nil

	gw.Disconnect(x.ID)

	assert.Equal(t, 1, chatMembers(gw, "A"))

	left := yc.events(t, "user-left")
	require.Len(t, left, 1)
	assert.Equal(t, "B", left[0]["roomId"])
	assert.Equal(t, string(x.ID), left[0]["connId"])

	left = zc.events(t, "user-left")
	require.Len(t, left, 1)
	assert.Equal(t, "C", left[0]["roomId"])

	// The chat departure produced no event of any kind.
	assert.Len(t, yc.events(t, ""), 1)
	assert.Len(t, zc.events(t, ""), 1)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, _ := connect(gw, "u1", "Xena")
	y, yc := connect(gw, "u2", "Yuri")

	gw.JoinVideo(x.ID, "cs101")
	gw.JoinVideo(y.ID, "cs101")
	yc.frames = nil

	gw.Disconnect(x.ID)
	gw.Disconnect(x.ID)

	assert.Len(t, yc.events(t, "user-left"), 1)
	assert.Equal(t, 1, gw.ConnCount())
}

func TestDisconnectedConnectionIgnored(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, xc := connect(gw, "u1", "Xena")
	gw.Disconnect(x.ID)

	gw.JoinChat(x.ID, "r1")
	gw.JoinVideo(x.ID, "cs101")
	gw.SendChat(context.Background(), x.ID, "r1", "hello")

	assert.Empty(t, gw.ChatRooms())
	assert.Empty(t, gw.VideoRooms())
	assert.Empty(t, xc.events(t, ""))
}

// Full lifecycle: X joins first, Y joins, X drops abruptly.
func TestTwoPartyCallLifecycle(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, xc := connect(gw, "u1", "Xena")
	y, yc := connect(gw, "u2", "Yuri")

	first := gw.JoinVideo(x.ID, "cs101")
	assert.Empty(t, first)

	second := gw.JoinVideo(y.ID, "cs101")
	require.Len(t, second, 1)
	assert.Equal(t, x.ID, second[0].ConnID)

	joined := xc.events(t, "user-joined")
	require.Len(t, joined, 1)

	yc.frames = nil
	gw.Disconnect(x.ID)

	left := yc.events(t, "user-left")
	require.Len(t, left, 1)
	assert.Equal(t, string(x.ID), left[0]["connId"])

	list, ok := videoRoom(gw, "cs101")
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, y.ID, list[0].ConnID)
}
