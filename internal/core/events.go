package core

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/openclass/live/internal/domain"
)

// Gateway→client event names.
const (
	EvtReceiveMessage       = "receive-message"
	EvtUserJoined           = "user-joined"
	EvtExistingParticipants = "existing-participants"
	EvtUserLeft             = "user-left"
	EvtOffer                = "offer"
	EvtAnswer               = "answer"
	EvtICECandidate         = "ice-candidate"
	EvtError                = "error"
	EvtPong                 = "pong"
)

// ReceiveMessage fans a persisted chat message out to room members.
type ReceiveMessage struct {
	Event      string            `json:"event"`
	ID         string            `json:"id"`
	SenderID   domain.UserID     `json:"senderId"`
	SenderName string            `json:"senderName"`
	Text       string            `json:"text"`
	RoomID     domain.ChatRoomID `json:"roomId"`
	Timestamp  time.Time         `json:"timestamp"`
}

// UserJoined tells pre-existing video-room participants about an arrival.
// The participant fields marshal flat: {connId, userId, userName}.
type UserJoined struct {
	Event  string             `json:"event"`
	RoomID domain.VideoRoomID `json:"roomId"`
	domain.Participant
}

// ExistingParticipants is sent to a joiner so it can initiate signaling
// with everyone already on the call.
type ExistingParticipants struct {
	Event        string               `json:"event"`
	RoomID       domain.VideoRoomID   `json:"roomId"`
	Participants []domain.Participant `json:"participants"`
}

// UserLeft tells remaining participants a connection has gone.
type UserLeft struct {
	Event  string             `json:"event"`
	RoomID domain.VideoRoomID `json:"roomId"`
	ConnID domain.ConnID      `json:"connId"`
}

// SignalForward is a relayed offer/answer/candidate, annotated with the
// sender's connection id. Caller identity fields are set for offers only.
type SignalForward struct {
	Event          string                     `json:"event"`
	From           domain.ConnID              `json:"from"`
	CallerUserID   domain.UserID              `json:"callerUserId,omitempty"`
	CallerUserName string                     `json:"callerUserName,omitempty"`
	SDP            *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate      *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}

type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type Pong struct {
	Event string `json:"event"`
}

// MustFrame marshals an outbound event. All event structs above marshal
// without error; a failure here is a programming bug, reported as nil so
// callers can skip the send.
func MustFrame(v any) Frame {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return Frame(b)
}
