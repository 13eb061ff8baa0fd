/*
Package chat contains the core logic for relaying messages between room members.

This file defines the Hub, the room-broadcast engine. A single event loop
consumes every inbound connection event (connect, join, message, location,
disconnect), mutates the presence registry, builds the typed payloads, and
fans them out to the affected room's sessions. One loop means each event is
atomic with respect to the registry: no partial mutation is ever observable.
*/
package chat

import (
	"github.com/rs/zerolog"

	"chatrelay/internal/app/presence"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
)

const (
	// eventQueueSize bounds inbound events waiting for the hub loop.
	eventQueueSize = 64

	// MaxContentBytes is the maximum allowed size for text message content.
	MaxContentBytes = 5000

	// welcomeText is the private system greeting sent to a joining user.
	welcomeText = "Welcome!"

	// locationSharedText is the fixed confirmation acked after a location share.
	locationSharedText = "Location Shared"
)

// ContentFilter flags message text that must not be broadcast.
// Implementations must be pure predicates; the hub retains no filter state.
type ContentFilter interface {
	IsProfane(text string) bool
}

type hubEvent interface {
	isHubEvent()
}

type connectEvent struct {
	sess *Session
}

type joinEvent struct {
	id       string
	username string
	room     string
	seq      string
}

type textEvent struct {
	id   string
	text string
	seq  string
}

type locationEvent struct {
	id        string
	latitude  float64
	longitude float64
	seq       string
}

type disconnectEvent struct {
	id string
}

func (connectEvent) isHubEvent()    {}
func (joinEvent) isHubEvent()       {}
func (textEvent) isHubEvent()       {}
func (locationEvent) isHubEvent()   {}
func (disconnectEvent) isHubEvent() {}

// Hub owns the live session set and performs the join/message/location/
// disconnect protocol over them. Room membership is always derived from the
// presence registry, never tracked separately.
type Hub struct {
	// registry is the injected user directory; tests construct their own.
	registry *presence.Registry

	// filter is the external content-filter collaborator.
	filter ContentFilter

	// events carries every inbound connection event to the single loop.
	events chan hubEvent

	// sessions maps connection id to its hub-side session. Only the event
	// loop touches it.
	sessions map[string]*Session

	// stop signals the loop to terminate; done is closed when it has.
	stop chan struct{}
	done chan struct{}

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub around the given registry and content filter.
// Call Run in its own goroutine before attaching sessions.
func NewHub(registry *presence.Registry, filter ContentFilter) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		registry: registry,
		filter:   filter,
		events:   make(chan hubEvent, eventQueueSize),
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   hubLogger,
	}
}

// Connect attaches a session to the hub. The connection exists but no user
// is registered until a join event succeeds.
func (h *Hub) Connect(s *Session) {
	h.enqueue(connectEvent{sess: s})
}

// Join submits a join event for the connection.
func (h *Hub) Join(id, username, room, seq string) {
	h.enqueue(joinEvent{id: id, username: username, room: room, seq: seq})
}

// SendText submits a text message event for the connection.
func (h *Hub) SendText(id, text, seq string) {
	h.enqueue(textEvent{id: id, text: text, seq: seq})
}

// SendLocation submits a location share event for the connection.
func (h *Hub) SendLocation(id string, latitude, longitude float64, seq string) {
	h.enqueue(locationEvent{id: id, latitude: latitude, longitude: longitude, seq: seq})
}

// Disconnect submits the terminal disconnect event for the connection.
func (h *Hub) Disconnect(id string) {
	h.enqueue(disconnectEvent{id: id})
}

// enqueue hands an event to the loop unless the hub is shutting down.
func (h *Hub) enqueue(e hubEvent) {
	select {
	case h.events <- e:
	case <-h.stop:
		h.logger.Warn().Msg("Hub stopped; dropping inbound event.")
	}
}

// Run is the hub's event loop. It processes one event at a time until
// Shutdown is called.
func (h *Hub) Run() {
	defer close(h.done)

	h.logger.Info().Msg("Hub event loop started.")

	for {
		select {
		case e := <-h.events:
			h.dispatch(e)

		case <-h.stop:
			for id, sess := range h.sessions {
				delete(h.sessions, id)
				close(sess.send)
			}
			h.logger.Info().Msg("Hub event loop stopped.")
			return
		}
	}
}

// Shutdown stops the event loop and waits for it to finish. Pending queued
// events are discarded; connected sessions have their queues closed.
func (h *Hub) Shutdown() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
	<-h.done
}

func (h *Hub) dispatch(e hubEvent) {
	switch evt := e.(type) {
	case connectEvent:
		h.handleConnect(evt)
	case joinEvent:
		h.handleJoin(evt)
	case textEvent:
		h.handleText(evt)
	case locationEvent:
		h.handleLocation(evt)
	case disconnectEvent:
		h.handleDisconnect(evt)
	}
}

func (h *Hub) handleConnect(e connectEvent) {
	if existing, ok := h.sessions[e.sess.id]; ok && existing != e.sess {
		// Connection ids are transport-unique, so this is a transport bug.
		h.logger.Error().
			Str("connection_id", e.sess.id).
			Msg("Duplicate connection id on connect; replacing old session.")
		close(existing.send)
	}

	h.sessions[e.sess.id] = e.sess

	h.logger.Info().
		Str("connection_id", e.sess.id).
		Int("total_connections", len(h.sessions)).
		Msg("Connection attached.")
}

// handleJoin registers the user and runs the join fan-out: private welcome,
// join notice to the rest of the room, membership snapshot to everyone,
// then the acknowledgement.
func (h *Hub) handleJoin(e joinEvent) {
	user, joinErr := h.registry.Add(e.id, e.username, e.room)
	if joinErr != nil {
		h.logger.Warn().
			Str("connection_id", e.id).
			Str("reason", joinErr.Message).
			Msg("Join rejected.")

		h.ack(e.id, e.seq, AckPayload{Error: joinErr.Message})
		return
	}

	h.unicast(e.id, EventMessage, NewMessage(AdminUsername, welcomeText))
	h.broadcast(user.Room, EventMessage, NewMessage(AdminUsername, user.Username+" has joined!"), e.id)
	h.broadcast(user.Room, EventRoomData, h.roomSnapshot(user.Room), "")
	h.ack(e.id, e.seq, AckPayload{})

	h.logger.Info().
		Str("connection_id", e.id).
		Str("username", user.Username).
		Str("room", user.Room).
		Msg("User joined room.")
}

// handleText broadcasts a chat message to the sender's whole room, unless
// the content filter flags it, in which case only the sender is told.
func (h *Hub) handleText(e textEvent) {
	user := h.registry.Get(e.id)
	if user == nil {
		h.logger.Error().
			Str("connection_id", e.id).
			Msg("Message event from unregistered connection; dropping event.")
		return
	}

	if len(e.text) > MaxContentBytes {
		h.ack(e.id, e.seq, AckPayload{Error: errs.NewError(errs.ErrMessageContentTooLong).Message})
		return
	}

	if h.filter != nil && h.filter.IsProfane(e.text) {
		notice := NewMessage(AdminUsername, errs.NewError(errs.ErrProfaneContent).Message)
		h.ack(e.id, e.seq, AckPayload{Message: &notice})
		return
	}

	h.broadcast(user.Room, EventMessage, NewMessage(user.Username, e.text), "")
	h.ack(e.id, e.seq, AckPayload{})
}

// handleLocation broadcasts a location message to the sender's whole room
// and always acks with the fixed confirmation string.
func (h *Hub) handleLocation(e locationEvent) {
	user := h.registry.Get(e.id)
	if user == nil {
		h.logger.Error().
			Str("connection_id", e.id).
			Msg("Location event from unregistered connection; dropping event.")
		return
	}

	h.broadcast(user.Room, EventLocationMessage, NewLocationMessage(user.Username, e.latitude, e.longitude), "")
	h.ack(e.id, e.seq, AckPayload{Text: locationSharedText})
}

// handleDisconnect detaches the session and, if the connection had joined,
// notifies the remaining room members. A never-joined disconnect is silent.
func (h *Hub) handleDisconnect(e disconnectEvent) {
	sess, ok := h.sessions[e.id]
	if ok {
		delete(h.sessions, e.id)
	}

	user := h.registry.Remove(e.id)
	if user != nil {
		h.broadcast(user.Room, EventMessage, NewMessage(AdminUsername, user.Username+" has left!"), "")
		h.broadcast(user.Room, EventRoomData, h.roomSnapshot(user.Room), "")

		h.logger.Info().
			Str("connection_id", e.id).
			Str("username", user.Username).
			Str("room", user.Room).
			Msg("User left room.")
	}

	if ok {
		close(sess.send)
	}
}

// roomSnapshot builds the membership payload for the given room.
func (h *Hub) roomSnapshot(room string) RoomData {
	users := h.registry.UsersInRoom(room)

	members := make([]RoomMember, 0, len(users))
	for _, u := range users {
		members = append(members, RoomMember{Username: u.Username})
	}

	return RoomData{
		Room:  room,
		Users: members,
	}
}

// ack sends the unicast acknowledgement for one inbound event.
func (h *Hub) ack(id, seq string, payload AckPayload) {
	h.send(id, EventAck, seq, payload)
}

// unicast sends an event to a single connection outside the ack channel.
func (h *Hub) unicast(id, event string, data any) {
	h.send(id, event, "", data)
}

func (h *Hub) send(id, event, seq string, data any) {
	sess, ok := h.sessions[id]
	if !ok {
		h.logger.Warn().
			Str("connection_id", id).
			Str("event", event).
			Msg("No session for outbound event; dropping.")
		return
	}

	frame, err := encodeFrame(event, seq, data)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", event).
			Msg("Error marshaling outbound frame.")
		return
	}

	select {
	case sess.send <- frame:
	default:
		h.logger.Warn().
			Str("connection_id", id).
			Str("event", event).
			Msg("Session send queue full; dropping frame.")
	}
}

// broadcast fans an event out to every member of the room, in registration
// order, optionally excluding one connection. Delivery is fire-and-forget.
func (h *Hub) broadcast(room, event string, data any, excludeID string) {
	for _, member := range h.registry.UsersInRoom(room) {
		if member.ID == excludeID {
			continue
		}
		h.send(member.ID, event, "", data)
	}
}
