package ws

import (
	"context"
	"encoding/json"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// inboundMessage is a client-to-server application message.
type inboundMessage struct {
	Action string `json:"action"`
}

type connectedMessage struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type pongMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Handler upgrades the request to a websocket connection, joins it to the
// shipments group and serves the liveness protocol until disconnect.
//
// Protocol: handshake {"type":"connection","status":"connected"} on connect;
// {"action":"ping"} -> {"type":"pong","message":"alive"}; any other action
// gets a structured error reply without closing the connection.
func Handler(hub *Hub, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket accept failed")
			return
		}

		ctx := c.Request.Context()
		client := newClient(conn, hub)

		// Handshake before the client is visible to broadcasts; a failure
		// here means a half-open connection, so close with an abnormal code.
		if err := client.write(ctx, connectedMessage{
			Type:    "connection",
			Status:  "connected",
			Message: "Welcome to ExBuy Shipments stream",
		}); err != nil {
			log.Warn().Err(err).Msg("websocket handshake failed")
			_ = conn.Close(websocket.StatusInternalError, "handshake failed")
			return
		}

		hub.Join(DefaultGroup, client)
		go client.writePump(ctx)

		readLoop(ctx, client, hub, log)
	}
}

// readLoop consumes inbound messages until the connection drops. Any exit
// removes the connection from its groups before the handle is discarded, so
// no broadcast ever targets a dead connection.
func readLoop(ctx context.Context, client *Client, hub *Hub, log zerolog.Logger) {
	defer func() {
		hub.evict(client, "disconnected")
	}()

	for {
		_, data, err := client.conn.Read(ctx)
		if err != nil {
			// Client closed or the connection failed; either way we are done.
			log.Debug().Err(err).Msg("websocket read ended")
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if werr := client.write(ctx, errorMessage{Type: "error", Message: "Invalid message"}); werr != nil {
				return
			}
			continue
		}

		if err := handleAction(ctx, client, msg.Action); err != nil {
			return
		}
	}
}

func handleAction(ctx context.Context, client *Client, action string) error {
	switch action {
	case "ping":
		return client.write(ctx, pongMessage{Type: "pong", Message: "alive"})
	default:
		return client.write(ctx, errorMessage{Type: "error", Message: "Unknown action: " + action})
	}
}
