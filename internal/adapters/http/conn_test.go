package http

import "github.com/dkeye/VoiceRelay/internal/core"

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}
