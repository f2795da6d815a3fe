package app

import (
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/rs/zerolog/log"
)

// SignalRelay forwards negotiation envelopes between connections. It keeps no
// state and never looks inside the payload.
type SignalRelay struct {
	Names  core.NameLookup
	Outbox *Outbox
}

func NewSignalRelay(reg core.ConnectionRegistry, out *Outbox) *SignalRelay {
	return &SignalRelay{Names: reg, Outbox: out}
}

// Relay delivers env to its target. Unknown targets drop the envelope silently.
func (r *SignalRelay) Relay(env core.Envelope) bool {
	if !env.Kind.Valid() || env.Target == "" {
		return false
	}
	msg := core.NewNegotiationMessage(env, r.Names.NameOf(env.Sender))
	if !r.Outbox.Send(env.Target, msg) {
		log.Debug().
			Str("module", "app.relay").
			Str("sid", string(env.Sender)).
			Str("target", string(env.Target)).
			Str("kind", string(env.Kind)).
			Msg("envelope dropped")
		return false
	}
	return true
}
