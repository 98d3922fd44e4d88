// Package backend is the client side of the classroom backend: one websocket
// link carrying correlated requests and server pushes.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/config"
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
	// maxQueuedPushes caps pushes waiting for the handler.
	maxQueuedPushes = 4096
)

var ErrBackpressure = errors.New("backpressure")

// Link is a lazily dialed websocket to the backend. A dropped connection fails
// every waiting call with ErrNetwork; the next call dials again.
type Link struct {
	url        string
	appKey     string
	timeout    time.Duration
	pingPeriod time.Duration
	readLimit  int64
	dialer     *websocket.Dialer

	mu   sync.Mutex
	conn *linkConn

	waitMu  sync.Mutex
	waiting map[string]chan Frame

	handlerMu sync.RWMutex
	handler   core.PushHandler
}

type linkConn struct {
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	pushes pushQueue
}

// pushQueue hands pushes from the read loop to the handler goroutine in
// arrival order. The read loop never waits on it, so a handler may Call.
type pushQueue struct {
	mu    sync.Mutex
	items []domain.PushEvent
	wake  chan struct{}
}

func (q *pushQueue) put(ev domain.PushEvent) bool {
	q.mu.Lock()
	if len(q.items) >= maxQueuedPushes {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, ev)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

func (q *pushQueue) take() []domain.PushEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (c *linkConn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

func NewLink(cfg config.Backend) *Link {
	return &Link{
		url:        cfg.URL,
		appKey:     cfg.AppKey,
		timeout:    cfg.RequestTimeout,
		pingPeriod: cfg.PingPeriod,
		readLimit:  cfg.ReadLimit,
		dialer:     websocket.DefaultDialer,
		waiting:    make(map[string]chan Frame),
	}
}

// SetPushHandler sets the receiver of server pushes.
func (l *Link) SetPushHandler(h core.PushHandler) {
	l.handlerMu.Lock()
	l.handler = h
	l.handlerMu.Unlock()
}

// Call sends method with req and decodes the response data into resp.
// Transport failures wrap domain.ErrNetwork; server refusals are RemoteErrors.
func (l *Link) Call(ctx context.Context, method string, req, resp any) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	c, err := l.connect(ctx)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	frame, err := encodeRequest(id, method, req)
	if err != nil {
		return err
	}
	wait := make(chan Frame, 1)
	l.waitMu.Lock()
	l.waiting[id] = wait
	l.waitMu.Unlock()
	defer func() {
		l.waitMu.Lock()
		delete(l.waiting, id)
		l.waitMu.Unlock()
	}()

	select {
	case c.send <- frame:
	case <-c.done:
		return fmt.Errorf("%s: %w: link closed", method, domain.ErrNetwork)
	default:
		return fmt.Errorf("%s: %w: %w", method, domain.ErrNetwork, ErrBackpressure)
	}

	select {
	case f := <-wait:
		if err := responseError(f); err != nil {
			log.Warn().Str("module", "backend").Str("method", method).Int("code", f.Code).Str("msg", f.Msg).Msg("request refused")
			return err
		}
		if resp != nil && len(f.Data) > 0 {
			if err := json.Unmarshal(f.Data, resp); err != nil {
				return fmt.Errorf("%s: decode response: %w", method, err)
			}
		}
		return nil
	case <-c.done:
		return fmt.Errorf("%s: %w: link closed", method, domain.ErrNetwork)
	case <-ctx.Done():
		return fmt.Errorf("%s: %w: %w", method, domain.ErrNetwork, ctx.Err())
	}
}

func (l *Link) connect(ctx context.Context) (*linkConn, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn != nil {
		select {
		case <-l.conn.done:
		default:
			return l.conn, nil
		}
	}

	header := http.Header{}
	if l.appKey != "" {
		header.Set("AppKey", l.appKey)
	}
	ws, _, err := l.dialer.DialContext(ctx, l.url, header)
	if err != nil {
		return nil, fmt.Errorf("dial backend: %w: %w", domain.ErrNetwork, err)
	}
	if l.readLimit > 0 {
		ws.SetReadLimit(l.readLimit)
	}
	c := &linkConn{
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		pushes: pushQueue{wake: make(chan struct{}, 1)},
	}
	l.conn = c
	go l.writePump(c)
	go l.readPump(c)
	go l.pushPump(c)
	log.Info().Str("module", "backend").Str("url", l.url).Msg("backend link connected")
	return c, nil
}

func (l *Link) writePump(c *linkConn) {
	var tick <-chan time.Time
	if l.pingPeriod > 0 {
		ticker := time.NewTicker(l.pingPeriod)
		defer ticker.Stop()
		tick = ticker.C
	}
	defer c.close()
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "backend").Msg("writePump set deadline")
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "backend").Msg("writePump write error")
				return
			}
		case <-tick:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "backend").Msg("writePump ping")
				return
			}
		}
	}
}

func (l *Link) readPump(c *linkConn) {
	defer func() {
		log.Info().Str("module", "backend").Msg("backend link closed")
		c.close()
	}()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Error().Err(err).Str("module", "backend").Msg("readPump read error")
			}
			return
		}
		f, err := decodeFrame(data)
		if err != nil {
			log.Error().Err(err).Str("module", "backend").Msg("bad frame")
			continue
		}
		if f.Type == typeResponse {
			l.resolve(f)
			continue
		}
		l.dispatchPush(c, f)
	}
}

func (l *Link) resolve(f Frame) {
	l.waitMu.Lock()
	wait, ok := l.waiting[f.ID]
	l.waitMu.Unlock()
	if !ok {
		log.Debug().Str("module", "backend").Str("id", f.ID).Msg("response without caller")
		return
	}
	select {
	case wait <- f:
	default:
	}
}

func (l *Link) dispatchPush(c *linkConn, f Frame) {
	ev, err := decodePush(f)
	if err != nil {
		log.Warn().Err(err).Str("module", "backend").Msg("push dropped")
		return
	}
	if !c.pushes.put(ev) {
		log.Warn().Str("module", "backend").Str("kind", ev.Kind()).Msg("push queue full, dropping")
	}
}

// pushPump runs the push handler for one connection, one push at a time.
func (l *Link) pushPump(c *linkConn) {
	for {
		select {
		case <-c.done:
			return
		case <-c.pushes.wake:
		}
		for _, ev := range c.pushes.take() {
			l.deliver(ev)
		}
	}
}

func (l *Link) deliver(ev domain.PushEvent) {
	l.handlerMu.RLock()
	h := l.handler
	l.handlerMu.RUnlock()
	if h == nil {
		log.Debug().Str("module", "backend").Str("kind", ev.Kind()).Msg("push without handler")
		return
	}
	h.HandlePush(ev)
}

// Close drops the connection. Waiting calls fail with ErrNetwork.
func (l *Link) Close() {
	l.mu.Lock()
	c := l.conn
	l.conn = nil
	l.mu.Unlock()
	if c != nil {
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		c.close()
	}
}
