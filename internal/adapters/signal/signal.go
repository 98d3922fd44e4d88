// Package signal streams session events to the UI over a websocket.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/config"
	"github.com/dkeye/Classroom/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// SessionSource yields the live session, if any.
type SessionSource interface {
	Current() (*session.Session, bool)
}

type StreamController struct {
	Sessions SessionSource
	Registry *Registry
	cfg      config.Stream
}

func NewStreamController(sessions SessionSource, reg *Registry, cfg config.Stream) *StreamController {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	return &StreamController{Sessions: sessions, Registry: reg, cfg: cfg}
}

var _ core.EventSink = (*WsStreamConn)(nil)

type WsStreamConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsStreamConn) TrySend(frame []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- frame:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsStreamConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleStream upgrades the request and forwards the current session's events
// until the client goes away or the session is destroyed.
func (ctl *StreamController) HandleStream(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")
	sess, ok := ctl.Sessions.Current()
	if !ok || !sess.Alive() {
		c.JSON(http.StatusConflict, gin.H{"error": "no session"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.cfg.ReadLimit)
	}
	conn := &WsStreamConn{
		conn: ws,
		send: make(chan []byte, ctl.cfg.SendBuffer),
	}
	log.Info().Str("module", "signal").Str("client", token).Uint64("generation", sess.Generation()).Msg("new stream")

	ctx, cancel := context.WithCancel(ctx)
	ctl.Registry.Bind(token, sess.Generation(), conn, cancel)
	unsubscribe := ctl.forward(sess, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, token, sess, conn, func() {
		unsubscribe()
		ctl.Registry.Unbind(token, conn)
	})
}
