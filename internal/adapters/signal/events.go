package signal

import (
	"context"
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/openclass/live/internal/app"
	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
)

// Inbound payloads. Chat payloads may carry senderId/senderName fields from
// older clients; the authenticated identity on the connection is
// authoritative, so those are not decoded.
type roomPayload struct {
	RoomID string `json:"roomId"`
}

type sendChatPayload struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

type relayPayload struct {
	Target    string                     `json:"target"`
	SDP       *webrtc.SessionDescription `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit   `json:"candidate,omitempty"`
}

func (ctl *Controller) handleEvent(ctx context.Context, sess *app.Connection, c *WsConn, data core.Frame) {
	var env struct {
		Event string `json:"event"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sess.ID)).Msg("bad json")
		return
	}

	switch env.Event {
	case "join-chat-room":
		ctl.handleJoinChat(sess, data)
	case "leave-chat-room":
		ctl.handleLeaveChat(sess, data)
	case "send-chat-message":
		ctl.handleSendChat(ctx, sess, data)
	case "join-video-room":
		ctl.handleJoinVideo(sess, c, data)
	case "leave-video-room":
		ctl.handleLeaveVideo(sess, data)
	case "offer", "answer", "ice-candidate":
		ctl.handleRelay(sess, env.Event, data)
	case "ping":
		ctl.sendJSON(c, core.Pong{Event: core.EvtPong})
	default:
		log.Warn().Str("module", "signal").Str("event", env.Event).Msg("unknown event")
	}
}

func (ctl *Controller) sendJSON(c *WsConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

// decode unmarshals a payload and reports whether it was well formed.
// Malformed events are logged and ignored; the connection stays open.
func decode(sess *app.Connection, data core.Frame, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(sess.ID)).Msg("malformed event")
		return false
	}
	return true
}

func (ctl *Controller) handleJoinChat(sess *app.Connection, data core.Frame) {
	var p roomPayload
	if !decode(sess, data, &p) {
		return
	}
	room := domain.ChatRoomID(p.RoomID)
	if room.Validate() != nil {
		log.Warn().Str("module", "signal").Str("conn", string(sess.ID)).Msg("join-chat-room without roomId")
		return
	}
	ctl.Gateway.JoinChat(sess.ID, room)
}

func (ctl *Controller) handleLeaveChat(sess *app.Connection, data core.Frame) {
	var p roomPayload
	if !decode(sess, data, &p) {
		return
	}
	room := domain.ChatRoomID(p.RoomID)
	if room.Validate() != nil {
		return
	}
	ctl.Gateway.LeaveChat(sess.ID, room)
}

func (ctl *Controller) handleSendChat(ctx context.Context, sess *app.Connection, data core.Frame) {
	var p sendChatPayload
	if !decode(sess, data, &p) {
		return
	}
	room := domain.ChatRoomID(p.RoomID)
	if room.Validate() != nil || p.Text == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sess.ID)).Msg("send-chat-message missing field")
		return
	}
	ctl.Gateway.SendChat(ctx, sess.ID, room, p.Text)
}

func (ctl *Controller) handleJoinVideo(sess *app.Connection, c *WsConn, data core.Frame) {
	var p roomPayload
	if !decode(sess, data, &p) {
		return
	}
	room := domain.VideoRoomID(p.RoomID)
	if room.Validate() != nil {
		log.Warn().Str("module", "signal").Str("conn", string(sess.ID)).Msg("join-video-room without roomId")
		return
	}
	peers := ctl.Gateway.JoinVideo(sess.ID, room)
	ctl.sendJSON(c, core.ExistingParticipants{
		Event:        core.EvtExistingParticipants,
		RoomID:       room,
		Participants: peers,
	})
}

func (ctl *Controller) handleLeaveVideo(sess *app.Connection, data core.Frame) {
	var p roomPayload
	if !decode(sess, data, &p) {
		return
	}
	room := domain.VideoRoomID(p.RoomID)
	if room.Validate() != nil {
		return
	}
	ctl.Gateway.LeaveVideo(sess.ID, room)
}

func (ctl *Controller) handleRelay(sess *app.Connection, kind string, data core.Frame) {
	var p relayPayload
	if !decode(sess, data, &p) {
		return
	}
	if p.Target == "" {
		log.Warn().Str("module", "signal").Str("conn", string(sess.ID)).Str("kind", kind).Msg("relay without target")
		return
	}
	target := domain.ConnID(p.Target)

	switch kind {
	case "offer":
		if p.SDP == nil {
			return
		}
		ctl.Gateway.ForwardOffer(sess.ID, target, *p.SDP)
	case "answer":
		if p.SDP == nil {
			return
		}
		ctl.Gateway.ForwardAnswer(sess.ID, target, *p.SDP)
	case "ice-candidate":
		if p.Candidate == nil {
			return
		}
		ctl.Gateway.ForwardCandidate(sess.ID, target, *p.Candidate)
	}
}
