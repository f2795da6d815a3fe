package core

import (
	"encoding/json"

	"github.com/dkeye/VoiceRelay/internal/domain"
)

type NegotiationKind string

const (
	KindOffer        NegotiationKind = "offer"
	KindAnswer       NegotiationKind = "answer"
	KindICECandidate NegotiationKind = "ice-candidate"
)

func (k NegotiationKind) Valid() bool {
	switch k {
	case KindOffer, KindAnswer, KindICECandidate:
		return true
	}
	return false
}

// Envelope is an opaque negotiation message addressed from one connection to another.
// Sender is stamped by the server from the connection it arrived on.
type Envelope struct {
	Kind    NegotiationKind
	Sender  domain.ConnID
	Target  domain.ConnID
	Payload json.RawMessage
}
