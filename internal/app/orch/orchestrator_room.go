package orch

import (
	"slices"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Create handles createRoom: create-or-join roomName.
func (o *Orchestrator) Create(sid domain.ConnID, roomName domain.RoomName) {
	o.enter(sid, roomName, true)
}

// Join handles joinRoom. Joining never creates a room.
func (o *Orchestrator) Join(sid domain.ConnID, roomName domain.RoomName) {
	o.enter(sid, roomName, false)
}

func (o *Orchestrator) enter(sid domain.ConnID, roomName domain.RoomName, create bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.liveLocked(sid) {
		return
	}
	if !o.AllowAnonymous && !o.Registry.HasName(sid) {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("unnamed connection cannot enter a room")
		return
	}
	if !create && !o.Rooms.Exists(roomName) {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Msg("join of missing room ignored")
		return
	}

	ack := core.RoomMessage{Type: core.TypeRoomJoined, RoomName: roomName}
	if create {
		ack.Type = core.TypeRoomCreated
	}

	listChanged := false
	if current, ok := o.Rooms.RoomOf(sid); ok {
		if current == roomName {
			o.Out.Send(sid, ack)
			return
		}
		listChanged = o.leaveLocked(sid, current)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(current)).Msg("left previous room")
	}

	members, created := o.Rooms.CreateOrJoin(roomName, sid)
	listChanged = listChanged || created
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(roomName)).Bool("created", created).Msg("entered room")

	others := slices.DeleteFunc(members, func(id domain.ConnID) bool { return id == sid })
	users := slices.DeleteFunc(o.Rooms.Roster(roomName, o.Registry), func(m domain.Member) bool { return m.UserID == sid })

	o.Out.Send(sid, ack)
	o.Out.Send(sid, core.RoomUsersMessage{Type: core.TypeRoomUsers, Users: users})
	o.Out.SendAll(others, core.UserJoinedMessage{
		Type:     core.TypeUserJoined,
		UserID:   sid,
		UserName: o.Registry.NameOf(sid),
	})

	if listChanged {
		o.broadcastRoomListLocked()
	}
}

// Leave removes sid from roomName if it is a member there.
func (o *Orchestrator) Leave(sid domain.ConnID, roomName domain.RoomName) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.liveLocked(sid) {
		return
	}
	if o.leaveLocked(sid, roomName) {
		o.broadcastRoomListLocked()
	}
}

// leaveLocked notifies remaining members and reports whether the room was deleted.
func (o *Orchestrator) leaveLocked(sid domain.ConnID, roomName domain.RoomName) bool {
	left, deleted := o.Rooms.Leave(roomName, sid)
	if !left {
		return false
	}
	if !deleted {
		o.Out.SendAll(o.Rooms.Members(roomName), core.UserLeftMessage{Type: core.TypeUserLeft, UserID: sid})
	}
	return deleted
}

// ListRooms answers the requester only.
func (o *Orchestrator) ListRooms(sid domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Out.Send(sid, core.RoomListMessage{Type: core.TypeRoomList, Rooms: o.Rooms.ListRoomNames()})
}

// RoomNames is a consistent snapshot for the HTTP API.
func (o *Orchestrator) RoomNames() []domain.RoomName {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.ListRoomNames()
}
