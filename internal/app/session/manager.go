// Package session owns the lifecycle of the single classroom session of this process.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// Services are the remote collaborators a session talks to.
type Services struct {
	Auth    core.AuthService
	Members core.MemberService
	Rooms   core.RoomService
	IM      core.IMService
	RTC     core.RTCService
	Share   core.ShareScreenService
	Board   core.BoardService
	Capture core.CaptureHost
}

type Options struct {
	Bus            event.Options
	RequestTimeout time.Duration
	PendingTTL     time.Duration
}

// Manager keeps at most one live session.
type Manager struct {
	svc  Services
	opts Options

	group      singleflight.Group
	mu         sync.Mutex
	current    atomic.Pointer[Session]
	generation atomic.Uint64
}

func NewManager(svc Services, opts Options) *Manager {
	return &Manager{svc: svc, opts: opts}
}

// Init logs in and creates the session. Concurrent calls for the same pair
// share one login; a live session of the same user is returned as is and a
// session of another user is destroyed first. A session being destroyed is
// never returned: Init waits for its teardown and logs in again.
func (m *Manager) Init(ctx context.Context, uuid, token string) (*Session, error) {
	if err := domain.ValidateUserUUID(uuid); err != nil {
		return nil, err
	}
	if s := m.current.Load(); s != nil && s.creds.UserUUID == domain.UserUUID(uuid) && s.usable() {
		return s, nil
	}
	v, err, shared := m.group.Do(uuid+"\x00"+token, func() (any, error) {
		return m.create(ctx, uuid, token)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("module", "app.session").Str("user", uuid).Msg("init shared with concurrent caller")
	}
	return v.(*Session), nil
}

func (m *Manager) create(ctx context.Context, uuid, token string) (*Session, error) {
	if prev := m.current.Load(); prev != nil && (prev.creds.UserUUID != domain.UserUUID(uuid) || !prev.usable()) {
		log.Info().Str("module", "app.session").Str("previous", string(prev.creds.UserUUID)).Msg("replacing session")
		if err := prev.Destroy(ctx); err != nil {
			log.Warn().Err(err).Str("module", "app.session").Msg("destroy previous session")
		}
	}

	creds, err := m.svc.Auth.Login(ctx, uuid, token)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if creds.UserUUID == "" {
		creds.UserUUID = domain.UserUUID(uuid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.current.Load(); s != nil {
		if s.creds.UserUUID == creds.UserUUID && s.usable() {
			return s, nil
		}
		return nil, fmt.Errorf("session of %s still active: %w", s.creds.UserUUID, domain.ErrActionPending)
	}
	s := newSession(m, creds, m.generation.Add(1))
	m.current.Store(s)
	log.Info().Str("module", "app.session").Str("user", string(creds.UserUUID)).Uint64("generation", s.gen).Msg("session created")
	return s, nil
}

// Current returns the live session, if any.
func (m *Manager) Current() (*Session, bool) {
	s := m.current.Load()
	return s, s != nil
}

// Generation counts sessions created so far.
func (m *Manager) Generation() uint64 {
	return m.generation.Load()
}

// Destroy tears down the live session, if any.
func (m *Manager) Destroy(ctx context.Context) error {
	s := m.current.Load()
	if s == nil {
		return nil
	}
	return s.Destroy(ctx)
}

func (m *Manager) clear(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current.CompareAndSwap(s, nil) {
		log.Info().Str("module", "app.session").Uint64("generation", s.gen).Msg("session cleared")
	}
}
