package core

// Frame is one marshaled protocol event ready for the wire.
type Frame []byte

// SignalConnection abstracts the outbound half of a client transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
