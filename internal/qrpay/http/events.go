package http

import (
	"net/http"
	"slices"
	"strings"

	"github.com/aussiebroadwan/qrpay/internal/qrpay/events"
	"github.com/aussiebroadwan/qrpay/pkg/slogx"
	"github.com/gorilla/websocket"
)

type EventsHandler struct {
	Hub          *events.Hub
	DefaultTopic string
	// Origins mirrors the CORS allow list; "*" accepts any origin.
	Origins []string
}

// ServeHTTP godoc
//
//	@Summary		Payment Events Websocket
//	@Description	Upgrade to a websocket that receives a payment.progress message after every successful verification.
//	@Tags			Events
//	@Param			topic	query	string	false	"Topic to subscribe to"	default(payment-updates)
//	@Success		101		"Switching Protocols"
//	@Failure		400		"Not a websocket request"
//	@Failure		403		"Origin not allowed"
//	@Router			/events [get].
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	topic := strings.TrimSpace(r.URL.Query().Get("topic"))
	if topic == "" {
		topic = h.DefaultTopic
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	// Upgrade writes its own error response
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	if err := h.Hub.Serve(conn, topic); err != nil {
		log.Warn("events subscriber rejected", "topic", topic, "err", err)
	}
}

func (h *EventsHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.Origins, "*") {
		return true
	}
	return slices.Contains(h.Origins, origin)
}
