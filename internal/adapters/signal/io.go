package signal

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/session"
)

const writeWait = 5 * time.Second

func (ctl *StreamController) writePump(ctx context.Context, c *WsStreamConn) {
	period := ctl.cfg.PingPeriod
	if period <= 0 {
		period = 30 * time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			c.Close()
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Info().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *StreamController) readPump(ctx context.Context, token string, sess *session.Session, c *WsStreamConn, done func()) {
	defer func() {
		log.Info().Str("module", "signal").Str("client", token).Msg("readPump closing")
		done()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("client", token).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("client", token).Msg("readPump read error")
				return
			}
			ctl.handleMessage(ctx, sess, c, data)
		}
	}
}

func (ctl *StreamController) handleMessage(ctx context.Context, sess *session.Session, c *WsStreamConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		sendError(c, "bad_payload")
		return
	}

	switch env.Type {
	case "ping":
		ctl.handlePing(c)
	case "sync":
		ctl.handleSync(ctx, sess, c)
	case "pending":
		ctl.handlePending(sess, c)
	case "members":
		ctl.handleMembers(sess, c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown message")
		sendError(c, "unknown_type")
	}
}
