package app

import (
	"slices"
	"sync"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomDirectoryImpl keeps rooms in creation order plus a reverse index
// connection -> room. Both views are updated under the same lock.
type RoomDirectoryImpl struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomName]*domain.Room
	order  []domain.RoomName
	byConn map[domain.ConnID]domain.RoomName
}

func NewRoomDirectory() core.RoomDirectory {
	return &RoomDirectoryImpl{
		rooms:  make(map[domain.RoomName]*domain.Room),
		byConn: make(map[domain.ConnID]domain.RoomName),
	}
}

func (d *RoomDirectoryImpl) ListRoomNames() []domain.RoomName {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.RoomName, 0, len(d.order))
	return append(out, d.order...)
}

func (d *RoomDirectoryImpl) Exists(name domain.RoomName) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[name]
	return ok
}

func (d *RoomDirectoryImpl) CreateOrJoin(name domain.RoomName, id domain.ConnID) ([]domain.ConnID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room, ok := d.rooms[name]
	created := !ok
	if created {
		room = &domain.Room{Name: name}
		d.rooms[name] = room
		d.order = append(d.order, name)
		log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room created")
	}
	if !room.Has(id) {
		room.Members = append(room.Members, id)
		d.byConn[id] = name
		log.Info().Str("module", "app.rooms").Str("sid", string(id)).Str("room", string(name)).Msg("member added")
	}
	return slices.Clone(room.Members), created
}

func (d *RoomDirectoryImpl) Leave(name domain.RoomName, id domain.ConnID) (bool, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	room, ok := d.rooms[name]
	if !ok || !room.Remove(id) {
		return false, false
	}
	if d.byConn[id] == name {
		delete(d.byConn, id)
	}
	log.Info().Str("module", "app.rooms").Str("sid", string(id)).Str("room", string(name)).Msg("member removed")
	if !room.Empty() {
		return true, false
	}
	delete(d.rooms, name)
	d.order = slices.DeleteFunc(d.order, func(n domain.RoomName) bool { return n == name })
	log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room deleted")
	return true, true
}

func (d *RoomDirectoryImpl) RoomOf(id domain.ConnID) (domain.RoomName, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.byConn[id]
	return name, ok
}

// Members is a snapshot in join order; nil for unknown rooms.
func (d *RoomDirectoryImpl) Members(name domain.RoomName) []domain.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if room, ok := d.rooms[name]; ok {
		return slices.Clone(room.Members)
	}
	return nil
}

func (d *RoomDirectoryImpl) Roster(name domain.RoomName, names core.NameLookup) []domain.Member {
	ids := d.Members(name)
	out := make([]domain.Member, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewMember(id, names.NameOf(id)))
	}
	return out
}
