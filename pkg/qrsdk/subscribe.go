package qrsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Subscription is a live feed of progress events for one topic.
type Subscription struct {
	conn *websocket.Conn
}

// Subscribe opens the /events websocket. An empty topic uses the server's
// default.
func (c *Client) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	u, err := url.Parse(c.url("/events"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	if topic != "" {
		q := u.Query()
		q.Set("topic", topic)
		u.RawQuery = q.Encode()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode != http.StatusSwitchingProtocols {
			return nil, &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("failed to dial events: %w", err)
	}
	return &Subscription{conn: conn}, nil
}

// Next blocks until the next event arrives or the connection closes.
func (s *Subscription) Next() (*ProgressEvent, error) {
	var ev ProgressEvent
	if err := s.conn.ReadJSON(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Subscription) Close() error {
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return s.conn.Close()
}
