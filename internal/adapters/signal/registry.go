package signal

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

type streamEntry struct {
	Generation uint64
	Conn       *WsStreamConn
	Cancel     context.CancelFunc
}

// Registry holds one UI stream per client token.
type Registry struct {
	mu      sync.RWMutex
	streams map[string]*streamEntry
}

func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]*streamEntry)}
}

// Bind replaces any previous stream of the same client.
func (r *Registry) Bind(token string, gen uint64, conn *WsStreamConn, cancel context.CancelFunc) {
	r.mu.Lock()
	old := r.streams[token]
	r.streams[token] = &streamEntry{Generation: gen, Conn: conn, Cancel: cancel}
	r.mu.Unlock()
	if old != nil && old.Cancel != nil {
		old.Cancel()
	}
	log.Info().Str("module", "signal.registry").Str("client", token).Uint64("generation", gen).Msg("bound stream")
}

// Unbind removes the entry only if conn is still the bound stream.
func (r *Registry) Unbind(token string, conn *WsStreamConn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.streams[token]; ok && e.Conn == conn {
		delete(r.streams, token)
		log.Info().Str("module", "signal.registry").Str("client", token).Msg("unbind stream")
	}
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}

// CancelGeneration ends the streams opened for a session generation.
func (r *Registry) CancelGeneration(gen uint64) int {
	r.mu.RLock()
	var cancels []context.CancelFunc
	for _, e := range r.streams {
		if e.Generation == gen && e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
	}
	r.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
	if len(cancels) > 0 {
		log.Info().Str("module", "signal.registry").Uint64("generation", gen).Int("count", len(cancels)).Msg("canceled streams")
	}
	return len(cancels)
}
