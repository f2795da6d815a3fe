package app

import (
	"slices"
	"sync"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type connEntry struct {
	User *domain.User
	Conn core.SignalConnection
}

// Registry is the connection registry: live connection id -> display name and transport.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
	order []domain.ConnID
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
	}
}

var _ core.ConnectionRegistry = (*Registry)(nil)

// Register allocates a fresh id with no name and no room.
func (r *Registry) Register(conn core.SignalConnection) domain.ConnID {
	id := domain.ConnID(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{User: &domain.User{ID: id}, Conn: conn}
	r.order = append(r.order, id)
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("registered connection")
	return id
}

// SetName overwrites the display name. Unknown ids and invalid names are ignored.
func (r *Registry) SetName(id domain.ConnID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		log.Debug().Str("module", "app.registry").Str("sid", string(id)).Msg("set name on unknown connection")
		return false
	}
	if err := e.User.SetUsername(name); err != nil {
		log.Debug().Err(err).Str("module", "app.registry").Str("sid", string(id)).Msg("rejected username")
		return false
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("username", e.User.Username).Msg("updated username")
	return true
}

func (r *Registry) NameOf(id domain.ConnID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.User.DisplayName()
	}
	return domain.AnonymousName
}

func (r *Registry) HasName(id domain.ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	return ok && e.User.Username != ""
}

func (r *Registry) Conn(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Conn, true
	}
	return nil, false
}

// IDs is a snapshot in registration order.
func (r *Registry) IDs() []domain.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

func (r *Registry) Unregister(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	r.order = slices.DeleteFunc(r.order, func(x domain.ConnID) bool { return x == id })
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Msg("unregistered connection")
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
