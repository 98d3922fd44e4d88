// Package capture is a headless screen capture host. Consent is decided by
// configuration instead of an interactive prompt.
package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

const (
	ConsentGrant = "grant"
	ConsentDeny  = "deny"
)

var ErrNotStarted = errors.New("capture not started")

type Host struct {
	mu      sync.Mutex
	consent string
	active  *Handle
}

func NewHost(consent string) *Host {
	return &Host{consent: consent}
}

// SetConsent changes the answer given to future prompts.
func (h *Host) SetConsent(consent string) {
	h.mu.Lock()
	h.consent = consent
	h.mu.Unlock()
}

func (h *Host) RequestConsent(ctx context.Context) (core.CaptureHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.consent != ConsentGrant {
		log.Info().Str("module", "capture").Msg("consent denied")
		return nil, domain.ErrCaptureDenied
	}
	return &Handle{host: h}, nil
}

// Active returns the running capture, if any.
func (h *Host) Active() *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Host) setActive(handle *Handle) {
	h.mu.Lock()
	h.active = handle
	h.mu.Unlock()
}

func (h *Host) clearActive(handle *Handle) {
	h.mu.Lock()
	if h.active == handle {
		h.active = nil
	}
	h.mu.Unlock()
}

type Handle struct {
	host *Host

	mu           sync.Mutex
	cfg          core.CaptureConfig
	started      bool
	done         bool
	onTerminated func()
}

func (c *Handle) Start(cfg core.CaptureConfig, onTerminated func()) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return ErrNotStarted
	}
	c.cfg = cfg
	c.started = true
	c.onTerminated = onTerminated
	c.mu.Unlock()

	c.host.setActive(c)
	log.Info().Str("module", "capture").Str("profile", string(cfg.Profile)).Str("prefer", string(cfg.ContentPrefer)).Msg("capture started")
	return nil
}

func (c *Handle) Config() core.CaptureConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Stop ends the capture. The termination callback never fires afterwards.
func (c *Handle) Stop() error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	c.onTerminated = nil
	c.mu.Unlock()

	c.host.clearActive(c)
	log.Info().Str("module", "capture").Msg("capture stopped")
	return nil
}

// Terminate ends the capture from the platform side, as when the user
// revokes it outside the app.
func (c *Handle) Terminate() {
	c.mu.Lock()
	if c.done || !c.started {
		c.mu.Unlock()
		return
	}
	c.done = true
	fn := c.onTerminated
	c.onTerminated = nil
	c.mu.Unlock()

	c.host.clearActive(c)
	log.Info().Str("module", "capture").Msg("capture terminated by platform")
	if fn != nil {
		fn()
	}
}
