package broadcast

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/solindex/trending-data/internal/metrics"
)

const (
	// writeTimeout bounds a single websocket write.
	writeTimeout = 10 * time.Second

	// pongTimeout is how long a connection may go without a pong before
	// its read pump gives up.
	pongTimeout = 60 * time.Second

	// pingPeriod must be under pongTimeout.
	pingPeriod = 54 * time.Second

	// sendBuffer is the per-subscriber queue depth. A subscriber that
	// falls this far behind is treated as broken and evicted.
	sendBuffer = 16

	maxInboundSize = 512
)

// wsConn is the subset of *websocket.Conn the subscriber uses. It is an
// interface so tests can stand in broken connections.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
	Close() error
}

// Subscriber is one open connection. It holds no identity beyond its
// lifetime in the hub's set; a reconnecting client gets a fresh one.
type Subscriber struct {
	id     string
	conn   wsConn
	hub    *Hub
	logger *slog.Logger

	// send is owned by the hub: the hub closes it exactly once when the
	// subscriber leaves the set, which ends the write pump.
	send chan []byte
}

func newSubscriber(hub *Hub, conn wsConn) *Subscriber {
	id := uuid.NewString()
	return &Subscriber{
		id:     id,
		conn:   conn,
		hub:    hub,
		logger: hub.logger.With("subscriber", id),
		send:   make(chan []byte, sendBuffer),
	}
}

// writePump drains the send channel to the connection. It exits when
// the hub closes the channel or a write fails, and always requests
// removal from the hub on the way out so eviction is idempotent.
func (s *Subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.hub.remove(s)
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				// Hub closed the channel: polite close frame, then out.
				s.conn.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeTimeout),
				)
				return
			}

			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("send failed, dropping subscriber", "err", err)
				metrics.BroadcastSendErrors.Inc()
				return
			}
			metrics.BroadcastsSent.Inc()

		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages; no client-to-server message types
// are defined. Its job is to notice the remote end going away.
func (s *Subscriber) readPump() {
	defer s.hub.remove(s)

	s.conn.SetReadLimit(maxInboundSize)
	s.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
