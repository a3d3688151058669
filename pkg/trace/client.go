package trace

import (
	"github.com/gorilla/websocket"
)

type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan message
}

// readPump discards incoming messages until the connection closes, then
// unregisters the client.
func (c *client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return // connection closed
		}
	}
}

// writePump writes queued dumps to the connection until the hub closes
// the send channel.
func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
			return
		}
	}

	// hub closed the channel
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
