package core

import (
	"encoding/json"

	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/pion/webrtc/v4"
)

// Inbound message types.
const (
	TypeSetName     = "setName"
	TypeCreateRoom  = "createRoom"
	TypeJoinRoom    = "joinRoom"
	TypeLeaveRoom   = "leaveRoom"
	TypeGetRoomList = "getRoomList"
	TypePing        = "ping"
)

// Outbound message types. Offer, answer and candidate reuse the NegotiationKind values.
const (
	TypeWelcome     = "welcome"
	TypeRoomCreated = "roomCreated"
	TypeRoomJoined  = "roomJoined"
	TypeRoomList    = "roomList"
	TypeRoomUsers   = "roomUsers"
	TypeUserJoined  = "userJoined"
	TypeUserLeft    = "userLeft"
	TypePong        = "pong"
)

// InboundMessage is the union of every client frame.
type InboundMessage struct {
	Type      string          `json:"type"`
	Name      string          `json:"name,omitempty"`
	RoomName  string          `json:"roomName,omitempty"`
	Target    domain.ConnID   `json:"target,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type WelcomeMessage struct {
	Type       string             `json:"type"`
	UserID     domain.ConnID      `json:"userId"`
	ICEServers []webrtc.ICEServer `json:"iceServers"`
}

type RoomMessage struct {
	Type     string          `json:"type"`
	RoomName domain.RoomName `json:"roomName"`
}

type RoomListMessage struct {
	Type  string            `json:"type"`
	Rooms []domain.RoomName `json:"rooms"`
}

type RoomUsersMessage struct {
	Type  string          `json:"type"`
	Users []domain.Member `json:"users"`
}

type UserJoinedMessage struct {
	Type     string        `json:"type"`
	UserID   domain.ConnID `json:"userId"`
	UserName string        `json:"userName"`
}

type UserLeftMessage struct {
	Type   string        `json:"type"`
	UserID domain.ConnID `json:"userId"`
}

// NegotiationMessage is a relayed envelope. Target carries the sender id so the
// receiver can address its reply.
type NegotiationMessage struct {
	Type      string          `json:"type"`
	Target    domain.ConnID   `json:"target"`
	UserName  string          `json:"userName,omitempty"`
	SDP       json.RawMessage `json:"sdp,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
}

type PongMessage struct {
	Type string `json:"type"`
}

// NewNegotiationMessage builds the frame delivered to env.Target.
func NewNegotiationMessage(env Envelope, senderName string) NegotiationMessage {
	msg := NegotiationMessage{Type: string(env.Kind), Target: env.Sender}
	switch env.Kind {
	case KindICECandidate:
		msg.Candidate = env.Payload
	default:
		msg.SDP = env.Payload
		msg.UserName = senderName
	}
	return msg
}

// Encode marshals an outbound message into a Frame.
func Encode(v any) (Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
