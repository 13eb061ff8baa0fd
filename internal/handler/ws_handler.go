/*
Package handler provides the HTTP handler function for WebSocket connection
upgrading and initialization.

HandleWebSocket upgrades the HTTP connection, assigns the connection id,
attaches the session to the hub, and runs the client pumps. Joining a room
happens afterwards over the socket itself, via the join event.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/pkg/errs"
	"chatrelay/internal/pkg/logx"
	"chatrelay/internal/pkg/randx"
	"chatrelay/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(hub *chat.Hub, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !websocket.IsWebSocketUpgrade(r) {
			logx.Warn("WebSocket request rejected: not an upgrade request")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connectionID := randx.ConnectionID()
		sess := chat.NewSession(connectionID)
		client := chat.NewClient(hub, conn, sess)

		hub.Connect(sess)

		go client.WritePump()

		logx.Info("WebSocket connection established", "connection_id", connectionID)

		client.ReadPump()
	}
}
