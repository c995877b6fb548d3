package app

import (
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/openclass/live/internal/core"
	"github.com/openclass/live/internal/domain"
)

// The relay is a pure pass-through keyed by connection id: payloads are
// re-marshaled untouched, never inspected or validated. A missing target is
// dropped silently; the peer may have left while the sender was still
// negotiating, and that race is expected, not an error.

// ForwardOffer relays a session description offer to one target,
// annotated with the sender's connection id and caller identity so the
// receiving client can render who is calling.
func (g *Gateway) ForwardOffer(from, target domain.ConnID, sdp webrtc.SessionDescription) {
	evt := core.SignalForward{Event: core.EvtOffer, From: from, SDP: &sdp}
	g.mu.Lock()
	if sender, ok := g.conns[from]; ok {
		evt.CallerUserID = sender.User.UserID
		evt.CallerUserName = sender.User.DisplayName
	}
	tc, ok := g.conns[target]
	g.mu.Unlock()
	if !ok {
		g.logStaleTarget(target)
		return
	}
	send(tc.sig, evt)
}

// ForwardAnswer relays a session description answer to one target.
func (g *Gateway) ForwardAnswer(from, target domain.ConnID, sdp webrtc.SessionDescription) {
	g.forward(target, core.SignalForward{Event: core.EvtAnswer, From: from, SDP: &sdp})
}

// ForwardCandidate relays one ICE candidate.
func (g *Gateway) ForwardCandidate(from, target domain.ConnID, cand webrtc.ICECandidateInit) {
	g.forward(target, core.SignalForward{Event: core.EvtICECandidate, From: from, Candidate: &cand})
}

func (g *Gateway) forward(target domain.ConnID, evt core.SignalForward) {
	g.mu.Lock()
	tc, ok := g.conns[target]
	g.mu.Unlock()
	if !ok {
		g.logStaleTarget(target)
		return
	}
	send(tc.sig, evt)
}

func (g *Gateway) logStaleTarget(target domain.ConnID) {
	log.Debug().Str("module", "app.relay").Str("target", string(target)).Msg("relay target gone")
}
