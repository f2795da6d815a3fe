package app

import (
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Outbox encodes messages and enqueues them on registered connections.
type Outbox struct {
	Registry core.ConnectionRegistry
	Policy   Policy
}

// Send reports whether the frame was enqueued for id.
func (o *Outbox) Send(id domain.ConnID, v any) bool {
	conn, ok := o.Registry.Conn(id)
	if !ok {
		return false
	}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.outbox").Str("sid", string(id)).Msg("encode")
		return false
	}
	return o.push(id, conn, frame)
}

// SendAll encodes v once and enqueues it on every listed connection.
func (o *Outbox) SendAll(ids []domain.ConnID, v any) int {
	if len(ids) == 0 {
		return 0
	}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.outbox").Msg("encode")
		return 0
	}
	sent := 0
	for _, id := range ids {
		conn, ok := o.Registry.Conn(id)
		if !ok {
			continue
		}
		if o.push(id, conn, frame) {
			sent++
		}
	}
	return sent
}

func (o *Outbox) push(id domain.ConnID, conn core.SignalConnection, frame core.Frame) bool {
	err := conn.TrySend(frame)
	if err == nil {
		return true
	}
	action := KickMember
	if o.Policy != nil {
		action = o.Policy.OnBackPressure(id, err)
	}
	log.Warn().Err(err).Str("module", "app.outbox").Str("sid", string(id)).Int("action", int(action)).Msg("send rejected")
	if action == KickMember {
		// Closing ends the read pump, which then reports the disconnect.
		conn.Close()
	}
	return false
}
