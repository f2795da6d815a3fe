package signal

import (
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// handleNegotiation forwards offer, answer and ice-candidate frames. The sender
// id comes from the connection, never from the payload.
func (ctl *SignalWSController) handleNegotiation(sid domain.ConnID, kind core.NegotiationKind, msg core.InboundMessage) {
	env := core.Envelope{
		Kind:    kind,
		Sender:  sid,
		Target:  msg.Target,
		Payload: msg.SDP,
	}
	if kind == core.KindICECandidate {
		env.Payload = msg.Candidate
	}
	if !ctl.Orch.Relay(env) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("target", string(msg.Target)).Str("kind", string(kind)).Msg("relay dropped")
	}
}
