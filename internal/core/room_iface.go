package core

import "github.com/dkeye/VoiceRelay/internal/domain"

// RoomDirectory owns room membership. A connection is in at most one room,
// and a room without members is never listed.
type RoomDirectory interface {
	ListRoomNames() []domain.RoomName
	Exists(name domain.RoomName) bool
	// CreateOrJoin does not remove id from any other room.
	CreateOrJoin(name domain.RoomName, id domain.ConnID) (members []domain.ConnID, created bool)
	Leave(name domain.RoomName, id domain.ConnID) (left, deleted bool)
	RoomOf(id domain.ConnID) (domain.RoomName, bool)
	Members(name domain.RoomName) []domain.ConnID
	Roster(name domain.RoomName, names NameLookup) []domain.Member
}
