package app

import "github.com/dkeye/VoiceRelay/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a connection whose outbound queue rejected a frame.
type Policy interface {
	OnBackPressure(id domain.ConnID, err error) BackpressureAction
}

// SimplePolicy disconnects slow consumers; they rejoin with a fresh id.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.ConnID, error) BackpressureAction {
	return KickMember
}

// DropPolicy loses the frame and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ConnID, error) BackpressureAction {
	return DropFrame
}

// PolicyByName maps the config value to a Policy. Unknown names fall back to SimplePolicy.
func PolicyByName(name string) Policy {
	if name == "drop" {
		return DropPolicy{}
	}
	return SimplePolicy{}
}
