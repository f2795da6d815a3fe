package orch

import (
	"sync"

	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Orchestrator is the session lifecycle controller. Every event runs to
// completion under mu, so registry and directory mutations of two events
// never interleave and room-list broadcasts are enqueued in event order.
type Orchestrator struct {
	mu sync.Mutex

	Registry core.ConnectionRegistry
	Rooms    core.RoomDirectory
	Out      *app.Outbox
	Signals  *app.SignalRelay

	// AllowAnonymous lets unnamed connections create and join rooms.
	AllowAnonymous bool
}

func New(reg core.ConnectionRegistry, rooms core.RoomDirectory, policy app.Policy) *Orchestrator {
	out := &app.Outbox{Registry: reg, Policy: policy}
	return &Orchestrator{
		Registry: reg,
		Rooms:    rooms,
		Out:      out,
		Signals:  app.NewSignalRelay(reg, out),
	}
}

// Connect registers a new connection and returns its id.
func (o *Orchestrator) Connect(conn core.SignalConnection) domain.ConnID {
	return o.ConnectWith(conn, nil)
}

// ConnectWith registers conn and queues greet(sid) as its first frame, ahead of
// any broadcast another event could enqueue.
func (o *Orchestrator) ConnectWith(conn core.SignalConnection, greet func(domain.ConnID) any) domain.ConnID {
	o.mu.Lock()
	defer o.mu.Unlock()
	sid := o.Registry.Register(conn)
	if greet != nil {
		o.Out.Send(sid, greet(sid))
	}
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("connections", o.Registry.Count()).Msg("connected")
	return sid
}

func (o *Orchestrator) SetName(sid domain.ConnID, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.SetName(sid, name)
}

// Disconnect purges sid from its room, then from the registry. Safe to call twice.
func (o *Orchestrator) Disconnect(sid domain.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	deleted := false
	if roomName, ok := o.Rooms.RoomOf(sid); ok {
		deleted = o.leaveLocked(sid, roomName)
	}
	o.Registry.Unregister(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Int("connections", o.Registry.Count()).Msg("disconnected")

	if deleted {
		o.broadcastRoomListLocked()
	}
}

// Relay forwards a negotiation envelope. Sender must still be live.
func (o *Orchestrator) Relay(env core.Envelope) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.liveLocked(env.Sender) {
		return false
	}
	return o.Signals.Relay(env)
}

func (o *Orchestrator) liveLocked(sid domain.ConnID) bool {
	_, ok := o.Registry.Conn(sid)
	return ok
}

func (o *Orchestrator) broadcastRoomListLocked() {
	msg := core.RoomListMessage{Type: core.TypeRoomList, Rooms: o.Rooms.ListRoomNames()}
	n := o.Out.SendAll(o.Registry.IDs(), msg)
	log.Debug().Str("module", "orch").Int("rooms", len(msg.Rooms)).Int("sent_to", n).Msg("room list broadcast")
}
