package signal

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/app/orch"
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type iceServer struct {
	URLs []string `json:"urls"`
}

type frame struct {
	Type       string           `json:"type"`
	UserID     string           `json:"userId"`
	UserName   string           `json:"userName"`
	RoomName   string           `json:"roomName"`
	Rooms      []string         `json:"rooms"`
	Users      []map[string]any `json:"users"`
	Target     string           `json:"target"`
	SDP        json.RawMessage  `json:"sdp"`
	Candidate  json.RawMessage  `json:"candidate"`
	ICEServers []iceServer      `json:"iceServers"`
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func startServer(t *testing.T, opts Options) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	o := orch.New(app.NewRegistry(), app.NewRoomDirectory(), app.SimplePolicy{})
	ctl := NewSignalWSController(o, opts)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ctl.HandleSignal(ctx, c) })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, o
}

func dial(t *testing.T, srv *httptest.Server) *testClient {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	c := &testClient{t: t, conn: conn}
	welcome := c.expect(core.TypeWelcome)
	require.NotEmpty(t, welcome.UserID)
	c.id = welcome.UserID
	return c
}

func (c *testClient) send(v map[string]any) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteJSON(v))
}

// expect reads until a frame of typ arrives, skipping others.
func (c *testClient) expect(typ string) frame {
	c.t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(c.t, c.conn.SetReadDeadline(deadline))
		var f frame
		_, data, err := c.conn.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", typ)
		require.NoError(c.t, json.Unmarshal(data, &f))
		if f.Type == typ {
			return f
		}
	}
}

func TestSignal_Welcome(t *testing.T) {
	servers := []webrtc.ICEServer{{URLs: []string{"stun:stun.example.org:3478"}}}
	srv, o := startServer(t, Options{ICEServers: servers})

	c := dial(t, srv)
	assert.Eventually(t, func() bool { return o.Registry.Count() == 1 }, time.Second, 10*time.Millisecond)

	c.send(map[string]any{"type": "ping"})
	c.expect(core.TypePong)
}

func TestSignal_WelcomeCarriesICEServers(t *testing.T) {
	servers := []webrtc.ICEServer{{URLs: []string{"stun:stun.example.org:3478"}}}
	srv, _ := startServer(t, Options{ICEServers: servers})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var f frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, core.TypeWelcome, f.Type)
	require.Len(t, f.ICEServers, 1)
	assert.Equal(t, servers[0].URLs, f.ICEServers[0].URLs)
}

func TestSignal_RoomSessionEndToEnd(t *testing.T) {
	srv, o := startServer(t, Options{})

	alice := dial(t, srv)
	alice.send(map[string]any{"type": "setName", "name": "Alice"})
	alice.send(map[string]any{"type": "createRoom", "roomName": "lounge"})
	assert.Equal(t, "lounge", alice.expect(core.TypeRoomCreated).RoomName)
	assert.Equal(t, []string{"lounge"}, alice.expect(core.TypeRoomList).Rooms)

	bob := dial(t, srv)
	bob.send(map[string]any{"type": "setName", "name": "Bob"})
	bob.send(map[string]any{"type": "joinRoom", "roomName": "lounge"})
	assert.Equal(t, "lounge", bob.expect(core.TypeRoomJoined).RoomName)
	users := bob.expect(core.TypeRoomUsers).Users
	require.Len(t, users, 1)
	assert.Equal(t, alice.id, users[0]["userId"])
	assert.Equal(t, "Alice", users[0]["userName"])

	joined := alice.expect(core.TypeUserJoined)
	assert.Equal(t, bob.id, joined.UserID)
	assert.Equal(t, "Bob", joined.UserName)

	// The sender field in the payload is ignored; the server stamps the real one.
	alice.send(map[string]any{"type": "offer", "target": bob.id, "sdp": "X", "sender": "forged"})
	offer := bob.expect(string(core.KindOffer))
	assert.JSONEq(t, `"X"`, string(offer.SDP))
	assert.Equal(t, alice.id, offer.Target)
	assert.Equal(t, "Alice", offer.UserName)

	bob.send(map[string]any{"type": "answer", "target": alice.id, "sdp": map[string]any{"type": "answer", "sdp": "Y"}})
	answer := alice.expect(string(core.KindAnswer))
	assert.JSONEq(t, `{"type":"answer","sdp":"Y"}`, string(answer.SDP))
	assert.Equal(t, bob.id, answer.Target)
	assert.Equal(t, "Bob", answer.UserName)

	bob.send(map[string]any{"type": "ice-candidate", "target": alice.id, "candidate": map[string]any{"candidate": "c1", "sdpMid": "0"}})
	cand := alice.expect(string(core.KindICECandidate))
	assert.JSONEq(t, `{"candidate":"c1","sdpMid":"0"}`, string(cand.Candidate))
	assert.Equal(t, bob.id, cand.Target)
	assert.Empty(t, cand.UserName)

	bob.send(map[string]any{"type": "getRoomList"})
	assert.Equal(t, []string{"lounge"}, bob.expect(core.TypeRoomList).Rooms)

	// Alice drops; Bob keeps the room.
	require.NoError(t, alice.conn.Close())
	assert.Equal(t, alice.id, bob.expect(core.TypeUserLeft).UserID)
	assert.Eventually(t, func() bool { return o.Registry.Count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, o.RoomNames(), 1)

	bob.send(map[string]any{"type": "leaveRoom", "roomName": "lounge"})
	assert.Empty(t, bob.expect(core.TypeRoomList).Rooms)
	assert.Empty(t, o.RoomNames())
}

func TestSignal_MalformedFramesAreIgnored(t *testing.T) {
	srv, o := startServer(t, Options{})
	c := dial(t, srv)

	require.NoError(t, c.conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	c.send(map[string]any{"type": "noSuchThing"})
	c.send(map[string]any{"type": "createRoom", "roomName": "   "})
	c.send(map[string]any{"type": "offer", "target": "ghost", "sdp": "X"})
	c.send(map[string]any{"type": "ping"})

	c.expect(core.TypePong)
	assert.Empty(t, o.RoomNames())
	assert.Equal(t, 1, o.Registry.Count())
}

func TestSignal_JoinRateLimit(t *testing.T) {
	srv, o := startServer(t, Options{JoinRateLimit: 1, JoinRateInterval: time.Hour})
	c := dial(t, srv)
	c.send(map[string]any{"type": "setName", "name": "Alice"})
	c.send(map[string]any{"type": "createRoom", "roomName": "one"})
	c.expect(core.TypeRoomCreated)

	c.send(map[string]any{"type": "createRoom", "roomName": "two"})
	c.send(map[string]any{"type": "ping"})
	c.expect(core.TypePong)
	assert.Equal(t, 1, len(o.RoomNames()))
}

func TestSignal_OverlongRoomNamesAreIgnored(t *testing.T) {
	srv, o := startServer(t, Options{})
	prefix := strings.Repeat("x", domain.MaxRoomNameLen)

	alice := dial(t, srv)
	alice.send(map[string]any{"type": "setName", "name": "Alice"})
	alice.send(map[string]any{"type": "createRoom", "roomName": prefix + "-one"})
	alice.send(map[string]any{"type": "ping"})
	alice.expect(core.TypePong)
	assert.Empty(t, o.RoomNames())

	alice.send(map[string]any{"type": "createRoom", "roomName": prefix})
	assert.Equal(t, prefix, alice.expect(core.TypeRoomCreated).RoomName)

	// A longer name sharing the same prefix is a different room, so the join must not land in Alice's.
	bob := dial(t, srv)
	bob.send(map[string]any{"type": "setName", "name": "Bob"})
	bob.send(map[string]any{"type": "joinRoom", "roomName": prefix + "-two"})
	bob.send(map[string]any{"type": "ping"})
	bob.expect(core.TypePong)

	_, inRoom := o.Rooms.RoomOf(domain.ConnID(bob.id))
	assert.False(t, inRoom)
	assert.Equal(t, []domain.ConnID{domain.ConnID(alice.id)}, o.Rooms.Members(domain.RoomName(prefix)))
}

func TestWsSignalConn_CloseSendsCloseFrame(t *testing.T) {
	gin.SetMode(gin.TestMode)
	closed := make(chan error, 1)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		conn := &WsSignalConn{conn: ws, send: make(chan core.Frame, 1), writeWait: time.Second}
		conn.Close()
		conn.Close()
		closed <- conn.TrySend(core.Frame(`{}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err = client.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.ErrorIs(t, <-closed, ErrConnClosed)
}
