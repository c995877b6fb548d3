package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclass/live/internal/domain"
)

func videoRoom(gw *Gateway, room domain.VideoRoomID) ([]domain.Participant, bool) {
	for _, info := range gw.VideoRooms() {
		if info.RoomID == room {
			return info.Participants, true
		}
	}
	return nil, false
}

func TestJoinVideoReturnsExistingAndNotifies(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, xc := connect(gw, "u1", "Xena")
	y, _ := connect(gw, "u2", "Yuri")

	first := gw.JoinVideo(x.ID, "cs101")
	require.NotNil(t, first)
	assert.Empty(t, first)

	second := gw.JoinVideo(y.ID, "cs101")
	require.Len(t, second, 1)
	assert.Equal(t, x.ID, second[0].ConnID)
	assert.Equal(t, "Xena", second[0].UserName)

	joined := xc.events(t, "user-joined")
	require.Len(t, joined, 1)
	assert.Equal(t, string(y.ID), joined[0]["connId"])
	assert.Equal(t, "Yuri", joined[0]["userName"])
}

func TestJoinVideoDuplicateIsNoOp(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, _ := connect(gw, "u1", "Xena")
	y, yc := connect(gw, "u2", "Yuri")

	gw.JoinVideo(x.ID, "cs101")
	gw.JoinVideo(y.ID, "cs101")
	yc.frames = nil

	again := gw.JoinVideo(y.ID, "cs101")
	require.Len(t, again, 1)
	assert.Equal(t, x.ID, again[0].ConnID)

	list, ok := videoRoom(gw, "cs101")
	require.True(t, ok)
	assert.Len(t, list, 2)
	assert.Empty(t, yc.events(t, "user-joined"))
}

func TestLeaveVideoNotifiesRemaining(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, xc := connect(gw, "u1", "Xena")
	y, _ := connect(gw, "u2", "Yuri")

	gw.JoinVideo(x.ID, "cs101")
	gw.JoinVideo(y.ID, "cs101")

	gw.LeaveVideo(y.ID, "cs101")

	left := xc.events(t, "user-left")
	require.Len(t, left, 1)
	assert.Equal(t, string(y.ID), left[0]["connId"])

	list, ok := videoRoom(gw, "cs101")
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, x.ID, list[0].ConnID)
}

func TestEmptyVideoRoomIsDeleted(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, _ := connect(gw, "u1", "Xena")

	gw.JoinVideo(x.ID, "cs101")
	gw.LeaveVideo(x.ID, "cs101")

	_, ok := videoRoom(gw, "cs101")
	assert.False(t, ok)
}

func TestLeaveVideoAbsentIsNoOp(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	x, _ := connect(gw, "u1", "Xena")
	y, _ := connect(gw, "u2", "Yuri")

	gw.JoinVideo(x.ID, "cs101")
	gw.LeaveVideo(y.ID, "cs101")

	list, ok := videoRoom(gw, "cs101")
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestPresenceOrderIsJoinOrder(t *testing.T) {
	gw := NewGateway(&fakeStore{}, nil)
	a, _ := connect(gw, "u1", "A")
	b, _ := connect(gw, "u2", "B")
	c, _ := connect(gw, "u3", "C")

	gw.JoinVideo(a.ID, "lab")
	gw.JoinVideo(b.ID, "lab")
	gw.JoinVideo(c.ID, "lab")
	gw.LeaveVideo(b.ID, "lab")

	list, ok := videoRoom(gw, "lab")
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ConnID)
	assert.Equal(t, c.ID, list[1].ConnID)
}
