package app

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/VoiceRelay/internal/core"
)

var errFull = errors.New("queue full")

// fakeConn records every frame it accepts.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errFull
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) decoded() []map[string]json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]json.RawMessage, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}
