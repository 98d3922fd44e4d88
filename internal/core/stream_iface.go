package core

// EventSink is one UI consumer of encoded session events. TrySend never
// blocks: a slow consumer loses frames rather than stalling publishers.
type EventSink interface {
	TrySend(frame []byte) error
	Close()
}
