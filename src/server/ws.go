package server

import (
	"encoding/json"
	"net/http"
	"time"

	"trading-dashboard/src/models"
	"trading-dashboard/src/simulator"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// WebSocket Transport
//
// One wsClient per socket. The simulator writes frames into the send buffer;
// readPump acts as the connection watchdog and tears the whole thing down,
// including the simulator side, when the socket dies.
// -----------------------------------------------------------------------------

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

type wsClient struct {
	server *DashboardServer
	conn   *websocket.Conn
	send   chan models.MWireMessage
	sim    *simulator.Connection

	// quit stops writePump; send itself is never closed because the
	// simulator's emitters may still hold a reference briefly after
	// disconnect.
	quit chan struct{}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &wsClient{
		server: s,
		conn:   conn,
		// Buffered so emitters never block on a slow socket
		send: make(chan models.MWireMessage, sendBufferSize),
		quit: make(chan struct{}),
	}
	client.sim = s.Simulator.Connect(client.send)

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// readPump - handles incoming control messages, acts as connection watchdog
// -----------------------------------------------------------------------------

func (c *wsClient) readPump() {
	defer func() {
		c.server.Simulator.Disconnect(c.sim)
		close(c.quit)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.Logger.Info("WebSocket error: %v", err)
			}
			break
		}

		var cmd models.MClientCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.server.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
			break
		}
		c.server.Simulator.HandleCommand(c.sim, cmd)
	}
}

// -----------------------------------------------------------------------------
// writePump - sends frames and keepalive pings to the client
// -----------------------------------------------------------------------------

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.quit:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.server.Logger.Info("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
