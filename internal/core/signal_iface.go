package core

// Frame is one encoded outbound websocket message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues without blocking.
	TrySend(Frame) error
	Close()
}
