package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const MaxRoomNameLen = 36

var (
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")
)

// RoomName is the case-sensitive key of a room.
type RoomName string

// Room is a named, non-empty set of connections in join order.
type Room struct {
	Name    RoomName
	Members []ConnID
}

func NormalizeRoomName(raw string) (RoomName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", ErrRoomNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxRoomNameLen {
		return "", ErrRoomNameTooLong
	}
	return RoomName(name), nil
}

func (r *Room) Has(id ConnID) bool {
	for _, m := range r.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Remove drops id and reports whether it was present.
func (r *Room) Remove(id ConnID) bool {
	for i, m := range r.Members {
		if m == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) Empty() bool { return len(r.Members) == 0 }
