// Package room tracks the lifecycle of the classroom and its elapsed time.
package room

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/domain"
)

// Machine is the room lifecycle: NotStarted -> Started -> Ended, never backwards.
type Machine struct {
	writeMu sync.Mutex

	mu        sync.RWMutex
	room      domain.Room
	baseline  time.Duration
	stampedAt time.Time
	onEnded   []func(domain.Room)

	now func() time.Time
	bus *event.Bus
}

type Option func(*Machine)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func New(bus *event.Bus, opts ...Option) *Machine {
	m := &Machine{bus: bus, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Init loads the room from an entry snapshot. No event is emitted.
// A snapshot taken mid-class starts the machine in Started with the server duration.
func (m *Machine) Init(r domain.Room, step domain.RoomStep, serverDuration time.Duration) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	r.State = domain.RoomNotStarted
	switch step {
	case domain.StepStart:
		r.State = domain.RoomStarted
	case domain.StepEnd:
		r.State = domain.RoomEnded
	}
	m.room = r
	m.baseline = serverDuration
	m.stampedAt = m.now()
	log.Info().Str("module", "app.room").Str("room", string(r.UUID)).Str("state", r.State.String()).Msg("room initialized")
}

// OnEnded registers fn to run once when the room enters Ended.
func (m *Machine) OnEnded(fn func(domain.Room)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEnded = append(m.onEnded, fn)
}

// Apply feeds a remote room-state step. It reports whether the state changed.
func (m *Machine) Apply(step domain.RoomStep, serverDuration time.Duration) bool {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	prev := m.room.State
	next := transition(prev, step)
	if next == prev {
		m.mu.Unlock()
		log.Debug().Str("module", "app.room").Str("state", prev.String()).Int("step", int(step)).Msg("room step ignored")
		return false
	}
	now := m.now()
	switch next {
	case domain.RoomStarted:
		m.baseline = serverDuration
		m.stampedAt = now
	case domain.RoomEnded:
		// Freeze elapsed time at the moment the class ended.
		if prev == domain.RoomStarted {
			m.baseline += now.Sub(m.stampedAt)
		}
		m.stampedAt = now
	}
	m.room.State = next
	snap := m.snapshotLocked()
	hooks := m.onEnded
	if next == domain.RoomEnded {
		m.onEnded = nil
	}
	m.mu.Unlock()

	log.Info().Str("module", "app.room").Str("room", string(snap.UUID)).
		Str("from", prev.String()).Str("to", next.String()).Msg("room state changed")

	if m.bus != nil {
		m.bus.RoomState.Publish(event.RoomStateEvent{Room: snap, Previous: prev})
	}
	if next == domain.RoomEnded {
		for _, fn := range hooks {
			fn(snap)
		}
	}
	return true
}

func transition(cur domain.RoomState, step domain.RoomStep) domain.RoomState {
	switch cur {
	case domain.RoomNotStarted:
		switch step {
		case domain.StepStart:
			return domain.RoomStarted
		case domain.StepEnd:
			return domain.RoomEnded
		}
	case domain.RoomStarted:
		if step == domain.StepEnd {
			return domain.RoomEnded
		}
	}
	return cur
}

func (m *Machine) State() domain.RoomState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.room.State
}

// CanStart reports whether a start action should be offered.
func (m *Machine) CanStart() bool {
	return m.State() == domain.RoomNotStarted
}

// Elapsed is advisory display time, never used for authorization.
func (m *Machine) Elapsed() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.elapsedLocked()
}

func (m *Machine) Snapshot() domain.Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Machine) elapsedLocked() time.Duration {
	switch m.room.State {
	case domain.RoomStarted:
		return m.baseline + m.now().Sub(m.stampedAt)
	case domain.RoomEnded:
		return m.baseline
	default:
		return 0
	}
}

func (m *Machine) snapshotLocked() domain.Room {
	r := m.room
	r.Elapsed = m.elapsedLocked()
	return r
}
