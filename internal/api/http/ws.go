package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// EventsHandler streams the game's state changes over a websocket. The first frame is
// the current state; the stream ends when the client goes away or the game is removed.
func (s *Server) EventsHandler(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "id", g.ID, "err", err)
		return
	}
	defer conn.Close()

	events, cancel := g.Subscribe()
	defer cancel()

	wsConnections.Inc()
	defer wsConnections.Dec()
	s.logger.Debug("event stream opened", "id", g.ID, "remote", c.Request.RemoteAddr)

	// The client never sends anything we need; reading detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v)
	}

	if err := write(EventMessage{State: g.Engine().State()}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt, open := <-events:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game removed"),
					time.Now().Add(writeWait))
				return
			}
			if err := write(EventMessage{OwnMove: evt.OwnMove, State: evt.State}); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			s.logger.Debug("event stream closed", "id", g.ID)
			return
		}
	}
}
