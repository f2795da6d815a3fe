package signal

import "github.com/dkeye/VoiceRelay/internal/core"

func (ctl *SignalWSController) handlePing(conn *WsSignalConn) {
	ctl.sendJSON(conn, core.PongMessage{Type: core.TypePong})
}
