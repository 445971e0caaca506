package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
)

// Client is one websocket subscriber. Subscribers only receive; anything
// they send besides control frames is read and discarded.
type Client struct {
	conn  *websocket.Conn
	hub   *Hub
	topic string
	send  chan []byte
	once  sync.Once
}

func newClient(conn *websocket.Conn, hub *Hub, topic string) *Client {
	return &Client{
		conn:  conn,
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, sendBuffer),
	}
}

func (c *Client) run() {
	go c.writePump()
	c.readPump()
}

// Close detaches the client from the hub. The write pump drains, sends a
// close frame and closes the connection.
func (c *Client) Close() {
	c.once.Do(func() {
		c.hub.unregister(c)
		// No publisher can hold c after unregister returns.
		close(c.send)
	})
}

func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Debug("subscriber read failed", "topic", c.topic, "err", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
