package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/robalobadob/lettersort/internal/game"
	"github.com/robalobadob/lettersort/internal/logging"
	"github.com/robalobadob/lettersort/internal/protocol"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPingInterval = 30 * time.Second
	wsMaxFrame     = 8 << 10
	wsQueue        = 32
)

// wsClient owns the write side of one connection; gorilla allows a single
// concurrent writer.
type wsClient struct {
	conn *websocket.Conn
	out  chan protocol.ServerMessage
	done chan struct{}
	once sync.Once
	log  *zerolog.Logger
}

func newWSClient(conn *websocket.Conn, lg *zerolog.Logger) *wsClient {
	return &wsClient{
		conn: conn,
		out:  make(chan protocol.ServerMessage, wsQueue),
		done: make(chan struct{}),
		log:  lg,
	}
}

// send queues m without blocking the session turn that produced it.
func (c *wsClient) send(m protocol.ServerMessage) {
	select {
	case c.out <- m:
	case <-c.done:
	default:
		c.log.Warn().Str("type", m.Type).Msg("client too slow, frame dropped")
	}
}

func (c *wsClient) writeLoop() {
	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	for {
		select {
		case m := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteJSON(m); err != nil {
				c.log.Debug().Err(err).Msg("websocket write")
				c.close()
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				c.close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// handleWS upgrades the caller's board to a live connection: client frames
// are applied to the session and every resulting snapshot is pushed back.
// When the last connection of a board goes away the board is unmounted:
// it leaves the store and its countdown is cancelled.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	lg := logging.FromContext(r.Context())
	sess, status, msg := s.ownedSession(r, r.URL.Query().Get("game"))
	if sess == nil {
		writeError(w, status, msg)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		lg.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	conn.SetReadLimit(wsMaxFrame)

	c := newWSClient(conn, lg)
	go c.writeLoop()
	unsubscribe := sess.Subscribe(func(snap game.Snapshot) {
		c.send(protocol.StateFrame(snap))
	})
	defer func() {
		unsubscribe()
		c.close()
		if sess.Observers() == 0 {
			_ = s.store.Delete(r.Context(), sess.ID)
		}
	}()

	// server shutdown closes the connection, which ends the read loop
	go func() {
		select {
		case <-r.Context().Done():
			c.close()
		case <-c.done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				lg.Warn().Err(err).Msg("websocket read")
			}
			return
		}
		// every frame keeps the board fresh in the store; a board that left
		// it (replaced, evicted) ends the connection
		if _, err := s.store.Get(r.Context(), sess.ID); err != nil {
			lg.Info().Err(err).Msg("board no longer stored, closing websocket")
			return
		}
		m, err := protocol.Decode(data)
		if err != nil {
			lg.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}
		reply, known := protocol.Apply(sess, m)
		if !known {
			lg.Debug().Str("type", m.Type).Msg("ignoring unknown frame")
			continue
		}
		if reply != nil {
			c.send(*reply)
		}
	}
}
