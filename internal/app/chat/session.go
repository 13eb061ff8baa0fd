/*
Package chat contains the core logic for relaying messages between room members.

This file defines the Session, the hub-side handle for one live connection:
its transport-assigned id plus the buffered queue of outbound frames. The
hub owns the queue and is the only closer; the transport client drains it.
*/
package chat

// sendQueueSize bounds the outbound frames buffered per connection.
const sendQueueSize = 256

// Session represents one live connection inside the hub.
type Session struct {
	id   string
	send chan []byte
}

// NewSession constructs a Session for the given connection id.
func NewSession(id string) *Session {
	return &Session{
		id:   id,
		send: make(chan []byte, sendQueueSize),
	}
}

// ID returns the opaque connection identifier.
func (s *Session) ID() string {
	return s.id
}

// Outbound returns the queue of frames to deliver to the connection.
// The channel is closed by the hub when the session disconnects.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}
