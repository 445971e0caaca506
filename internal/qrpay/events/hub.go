package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

var ErrHubClosed = errors.New("events: hub closed")

// Hub fans events out to websocket clients grouped by topic. Clients whose
// send buffer is full are disconnected rather than slowing the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
	closed bool
	log    *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		topics: make(map[string]map[*Client]struct{}),
		log:    logger.With("component", "events.hub"),
	}
}

// Publish implements Publisher.
func (h *Hub) Publish(ctx context.Context, topic string, ev Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHubClosed
	}
	var slow []*Client
	for c := range h.topics[topic] {
		select {
		case c.send <- raw:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow subscriber", "topic", topic)
		c.Close()
	}
	return nil
}

// Serve registers conn as a subscriber of topic and blocks until the
// connection is closed by either side.
func (h *Hub) Serve(conn *websocket.Conn, topic string) error {
	c := newClient(conn, h, topic)
	if err := h.register(c); err != nil {
		_ = conn.Close()
		return err
	}

	h.log.Debug("subscriber connected", "topic", topic)
	c.run()
	h.log.Debug("subscriber disconnected", "topic", topic)
	return nil
}

// Subscribers returns the number of clients currently attached to topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close disconnects every client and rejects further publishes.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	var all []*Client
	for _, clients := range h.topics {
		for c := range clients {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}

func (h *Hub) register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	if _, ok := h.topics[c.topic]; !ok {
		h.topics[c.topic] = make(map[*Client]struct{})
	}
	h.topics[c.topic][c] = struct{}{}
	return nil
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[c.topic]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.topics, c.topic)
		}
	}
}
