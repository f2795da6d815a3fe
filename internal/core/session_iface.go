package core

import "github.com/dkeye/VoiceRelay/internal/domain"

// NameLookup resolves display names of live connections.
type NameLookup interface {
	NameOf(id domain.ConnID) string
}

// ConnectionRegistry maps live connections to their display name and transport.
type ConnectionRegistry interface {
	NameLookup
	Register(conn SignalConnection) domain.ConnID
	SetName(id domain.ConnID, name string) bool
	HasName(id domain.ConnID) bool
	Conn(id domain.ConnID) (SignalConnection, bool)
	IDs() []domain.ConnID
	Unregister(id domain.ConnID)
	Count() int
}
