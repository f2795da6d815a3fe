package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/VoiceRelay/internal/app/orch"
	"github.com/dkeye/VoiceRelay/internal/config"
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// Options tune the websocket pumps.
type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	PongWait   time.Duration
	WriteWait  time.Duration
	SendBuffer int
	ICEServers []webrtc.ICEServer

	JoinRateLimit    int
	JoinRateInterval time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ReadLimit:        cfg.ReadLimit,
		PingPeriod:       cfg.PingPeriod,
		PongWait:         cfg.PongWait,
		WriteWait:        cfg.WriteWait,
		SendBuffer:       cfg.SendBuffer,
		ICEServers:       cfg.WebRTCICEServers(),
		JoinRateLimit:    cfg.JoinRateLimit,
		JoinRateInterval: cfg.JoinRateInterval,
	}
}

type SignalWSController struct {
	Orch    *orch.Orchestrator
	opts    Options
	limiter *RoomRateLimiter
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 64 * 1024
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	opts = opts.withDefaults()
	ctl := &SignalWSController{Orch: o, opts: opts}
	if opts.JoinRateLimit > 0 && opts.JoinRateInterval > 0 {
		ctl.limiter = NewRoomRateLimiter(opts.JoinRateLimit, opts.JoinRateInterval)
	}
	return ctl
}

type WsSignalConn struct {
	conn      *websocket.Conn
	send      chan core.Frame
	writeWait time.Duration

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	// WriteControl may run concurrently with the write pump.
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(c.writeWait))
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16 * 1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	client := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsSignalConn{
		conn:      ws,
		send:      make(chan core.Frame, ctl.opts.SendBuffer),
		writeWait: ctl.opts.WriteWait,
	}
	sid := ctl.Orch.ConnectWith(conn, func(sid domain.ConnID) any {
		return core.WelcomeMessage{
			Type:       core.TypeWelcome,
			UserID:     sid,
			ICEServers: ctl.iceServers(),
		}
	})
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", client).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		// Unblocks ReadMessage on server shutdown.
		<-ctx.Done()
		conn.Close()
	}()
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, sid, conn)
}

func (ctl *SignalWSController) iceServers() []webrtc.ICEServer {
	if ctl.opts.ICEServers == nil {
		return []webrtc.ICEServer{}
	}
	return ctl.opts.ICEServers
}

func (ctl *SignalWSController) disconnect(sid domain.ConnID) {
	ctl.Orch.Disconnect(sid)
	if ctl.limiter != nil {
		ctl.limiter.Forget(sid)
	}
}
