package signal

import (
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomName validates the payload and applies the join rate limit.
func (ctl *SignalWSController) roomName(sid domain.ConnID, msg core.InboundMessage, limited bool) (domain.RoomName, bool) {
	name, err := domain.NormalizeRoomName(msg.RoomName)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("type", msg.Type).Msg("bad room payload")
		return "", false
	}
	if limited && ctl.limiter != nil && !ctl.limiter.Allow(sid) {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("room", string(name)).Msg("room rate limit exceeded")
		return "", false
	}
	return name, true
}

func (ctl *SignalWSController) handleCreateRoom(sid domain.ConnID, msg core.InboundMessage) {
	if name, ok := ctl.roomName(sid, msg, true); ok {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(name)).Msg("create")
		ctl.Orch.Create(sid, name)
	}
}

func (ctl *SignalWSController) handleJoinRoom(sid domain.ConnID, msg core.InboundMessage) {
	if name, ok := ctl.roomName(sid, msg, true); ok {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(name)).Msg("join")
		ctl.Orch.Join(sid, name)
	}
}

func (ctl *SignalWSController) handleLeaveRoom(sid domain.ConnID, msg core.InboundMessage) {
	if name, ok := ctl.roomName(sid, msg, false); ok {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(name)).Msg("leave")
		ctl.Orch.Leave(sid, name)
	}
}
