/*
Package chat contains the core logic for relaying messages between room members.

This file defines the Client, the WebSocket transport adapter for one
connection. It parses inbound frames into hub events (ReadPump), drains the
session's outbound queue onto the wire (WritePump), and maintains the
ping/pong heartbeat.
*/
package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"chatrelay/internal/pkg/logx"
)

const (
	// timeout for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound frame.
	maxMessageSize = 8192
)

// Client binds a WebSocket connection to its hub session.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	sess *Session

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection. The session must
// already be attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn, sess *Session) *Client {
	clientLogger := logx.Logger().With().
		Str("component", "Client").
		Str("connection_id", sess.ID()).
		Logger()

	return &Client{
		hub:    hub,
		conn:   conn,
		sess:   sess,
		logger: clientLogger,
	}
}

// ReadPump reads frames from the WebSocket connection and dispatches them to
// the hub until the connection drops. It always emits the disconnect event
// on exit, which is the only cleanup the protocol requires.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect runs when ReadPump terminates for any reason.
func (c *Client) cleanupOnDisconnect() {
	c.hub.Disconnect(c.sess.ID())

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame parses one raw frame and hands it to the hub.
// Malformed frames are logged and dropped; they never fail the connection.
func (c *Client) processInboundFrame(frameBytes []byte) {
	var frame Envelope
	if err := json.Unmarshal(frameBytes, &frame); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame_bytes", frameBytes).
			Msg("Client sent invalid JSON")
		return
	}

	switch frame.Event {
	case EventJoin:
		var payload JoinPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid join payload")
			return
		}
		c.hub.Join(c.sess.ID(), payload.Username, payload.Room, frame.Seq)

	case EventSendMessage:
		var payload TextPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
			return
		}
		c.hub.SendText(c.sess.ID(), payload.Message, frame.Seq)

	case EventSendLocation:
		var payload LocationPayload
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid sendLocation payload")
			return
		}
		c.hub.SendLocation(c.sess.ID(), payload.Latitude, payload.Longitude, frame.Seq)

	default:
		c.logger.Warn().Str("event", frame.Event).Msg("Client sent unsupported event")
	}
}

// WritePump writes frames from the session's outbound queue to the WebSocket
// connection and keeps the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.sess.Outbound():
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the outbound queue.
// Returns false when the WritePump loop should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		// The hub closed the queue; tell the peer we are done.
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic Ping to maintain the heartbeat.
// Returns false when the WritePump loop should terminate.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
