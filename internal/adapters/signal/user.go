package signal

import (
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleSetName(sid domain.ConnID, msg core.InboundMessage) {
	log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("name", msg.Name).Msg("setName")
	ctl.Orch.SetName(sid, msg.Name)
}
