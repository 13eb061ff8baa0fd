/*
Package chat contains the core logic for relaying messages between room members.

This file defines the wire envelope, the typed message payloads, and the
factory functions that build them with server-assigned timestamps. Messages
are value objects: built once, never mutated, never persisted.
*/
package chat

import (
	"encoding/json"
	"strconv"
	"time"
)

// AdminUsername is the sentinel identity for server-originated system messages.
const AdminUsername = "Admin"

// Outbound and inbound event names on the wire.
const (
	EventJoin            = "join"
	EventSendMessage     = "sendMessage"
	EventSendLocation    = "sendLocation"
	EventMessage         = "message"
	EventLocationMessage = "locationMessage"
	EventRoomData        = "roomData"
	EventAck             = "ack"
)

// Envelope is the frame exchanged over the WebSocket connection.
// Seq is an opaque client token echoed back on the matching ack.
type Envelope struct {
	Event string          `json:"event"`
	Seq   string          `json:"seq,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Message is a text chat message. The text field is keyed "message" on the
// wire, which is the shape the rendering layer consumes.
type Message struct {
	Username  string `json:"username"`
	Text      string `json:"message"`
	CreatedAt int64  `json:"createdAt"`
}

// LocationMessage carries a map link built from a shared coordinate pair.
type LocationMessage struct {
	Username  string `json:"username"`
	URL       string `json:"url"`
	CreatedAt int64  `json:"createdAt"`
}

// RoomMember is one entry of a room membership snapshot.
type RoomMember struct {
	Username string `json:"username"`
}

// RoomData is the membership snapshot broadcast to a room after joins and leaves.
type RoomData struct {
	Room  string       `json:"room"`
	Users []RoomMember `json:"users"`
}

// AckPayload is the unicast reply to the event that triggered it.
// Error carries a join validation failure; Message carries the rejection
// notice for filtered text; Text carries the location share confirmation.
type AckPayload struct {
	Error   string   `json:"error,omitempty"`
	Message *Message `json:"message,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// JoinPayload is the inbound payload of a join event.
type JoinPayload struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

// TextPayload is the inbound payload of a sendMessage event.
type TextPayload struct {
	Message string `json:"message"`
}

// LocationPayload is the inbound payload of a sendLocation event.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewMessage builds a text message stamped with the current wall-clock time
// in milliseconds since the epoch.
func NewMessage(username, text string) Message {
	return Message{
		Username:  username,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// NewLocationMessage builds a location message whose URL embeds the
// coordinate pair in a Google Maps query link.
func NewLocationMessage(username string, latitude, longitude float64) LocationMessage {
	url := "https://google.com/maps?q=" +
		strconv.FormatFloat(latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(longitude, 'f', -1, 64)

	return LocationMessage{
		Username:  username,
		URL:       url,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// encodeFrame marshals an outbound payload into a complete wire frame.
func encodeFrame(event, seq string, data any) ([]byte, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Event: event,
		Seq:   seq,
		Data:  dataBytes,
	})
}
