// Package orch turns local intents into remote mutations and reacts to
// pushes that require local side effects.
package orch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app"
	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/app/room"
	"github.com/dkeye/Classroom/internal/app/roster"
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

const defaultRequestTimeout = 10 * time.Second

// Orchestrator is the media control coordinator of one session.
// Remote calls block the calling goroutine only; local state is touched after
// the remote side accepted the change.
type Orchestrator struct {
	RoomUUID domain.RoomUUID
	Config   domain.RoomConfig

	Roster *roster.Store
	Room   *room.Machine
	Bus    *event.Bus

	Members core.MemberService
	Rooms   core.RoomService
	RTC     core.RTCService
	Share   core.ShareScreenService
	Board   core.BoardService
	Capture core.CaptureHost

	// Alive reports whether the owning session still exists. Completions that
	// land after it turns false are dropped with ErrStaleSession.
	Alive func() bool
	// RequestTimeout bounds calls the coordinator makes on its own behalf.
	RequestTimeout time.Duration
	PendingTTL     time.Duration

	pending pendingSet

	shareMu       sync.Mutex
	shareReserved bool
	capture       *captureSession
}

// Bind wires push reactions. Call once, after Roster and Room are initialized.
func (o *Orchestrator) Bind() {
	o.pending.ttl = o.PendingTTL
	o.Bus.PropertyChange.Subscribe(o.onPropertyChange)
	o.Bus.MuteAllAudio.Subscribe(o.onMuteAll)
	o.Room.OnEnded(o.onRoomEnded)
}

// Pending lists the actions still in flight.
func (o *Orchestrator) Pending() []PendingAction {
	return o.pending.list()
}

func (o *Orchestrator) alive() bool {
	return o.Alive == nil || o.Alive()
}

func (o *Orchestrator) self() (domain.Member, error) {
	m, ok := o.Roster.GetLocal()
	if !ok {
		return domain.Member{}, domain.ErrNotEntered
	}
	return m, nil
}

// authorize evaluates capability c for the local member acting on target.
func (o *Orchestrator) authorize(self domain.Member, target domain.UserUUID, c domain.Capability) (app.Decision, error) {
	scope := app.ScopeFor(self.UserUUID, target)
	d := app.Evaluate(o.Config, c, self.Role, scope)
	if !d.Allows(scope) {
		log.Info().Str("module", "orch").Str("capability", string(c)).
			Str("role", string(self.Role)).Str("target", string(target)).Msg("permission denied")
		return d, domain.ErrPermissionDenied
	}
	return d, nil
}

func (o *Orchestrator) requireStarted() error {
	if o.Room.State() != domain.RoomStarted {
		return domain.ErrClassNotStarted
	}
	return nil
}

func (o *Orchestrator) background() (context.Context, context.CancelFunc) {
	t := o.RequestTimeout
	if t <= 0 {
		t = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), t)
}

func (o *Orchestrator) setLocalDevice(ctx context.Context, c domain.Capability, enabled bool) error {
	switch c {
	case domain.CapAudio:
		return o.RTC.SetLocalAudioEnabled(ctx, enabled)
	case domain.CapVideo:
		return o.RTC.SetLocalVideoEnabled(ctx, enabled)
	}
	return domain.ErrInvalidCapability
}

func isMediaCapability(c domain.Capability) bool {
	return c == domain.CapAudio || c == domain.CapVideo
}
