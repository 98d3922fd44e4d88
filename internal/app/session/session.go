package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/app/orch"
	"github.com/dkeye/Classroom/internal/app/room"
	"github.com/dkeye/Classroom/internal/app/roster"
	"github.com/dkeye/Classroom/internal/domain"
)

var ErrAlreadyEntered = errors.New("class already entered")

// maxBufferedPushes caps pushes held while the entry snapshot is loading.
const maxBufferedPushes = 1024

// Session is the context object of one logged-in participant.
type Session struct {
	manager *Manager
	gen     uint64
	creds   domain.Credentials
	svc     Services
	opts    Options

	Bus    *event.Bus
	Roster *roster.Store
	Room   *room.Machine

	mu       sync.Mutex
	entering bool
	roomUUID domain.RoomUUID
	config   domain.RoomConfig
	orch     *orch.Orchestrator
	rtcUp    bool
	imUp     bool

	// pushMu orders push handling, including the replay of buffered pushes.
	pushMu   sync.Mutex
	entered  bool
	buffered []domain.PushEvent

	closing   atomic.Bool
	destroyed atomic.Bool
	done      chan struct{}
}

func newSession(m *Manager, creds domain.Credentials, gen uint64) *Session {
	bus := event.NewBus(m.opts.Bus)
	return &Session{
		manager: m,
		gen:     gen,
		creds:   creds,
		svc:     m.svc,
		opts:    m.opts,
		Bus:     bus,
		Roster:  roster.New(bus),
		Room:    room.New(bus),
		done:    make(chan struct{}),
	}
}

func (s *Session) Credentials() domain.Credentials { return s.creds }

func (s *Session) Generation() uint64 { return s.gen }

func (s *Session) RoomUUID() domain.RoomUUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomUUID
}

func (s *Session) Config() domain.RoomConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Alive reports whether the session has not been destroyed.
func (s *Session) Alive() bool { return !s.destroyed.Load() }

func (s *Session) usable() bool { return !s.closing.Load() && s.Alive() }

// Coordinator returns the media coordinator, available once the class is entered.
func (s *Session) Coordinator() (*orch.Orchestrator, error) {
	if !s.Alive() {
		return nil, domain.ErrStaleSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orch == nil {
		return nil, domain.ErrNotEntered
	}
	return s.orch, nil
}

// EnterClass joins the classroom and loads the roster and room from the
// entry snapshot before any push is applied.
func (s *Session) EnterClass(ctx context.Context, opts domain.ClassOptions) (domain.EntrySnapshot, error) {
	if !s.Alive() {
		return domain.EntrySnapshot{}, domain.ErrStaleSession
	}
	if err := domain.ValidateUsername(opts.UserName); err != nil {
		return domain.EntrySnapshot{}, err
	}
	s.mu.Lock()
	switch {
	case s.orch != nil:
		s.mu.Unlock()
		return domain.EntrySnapshot{}, ErrAlreadyEntered
	case s.entering:
		s.mu.Unlock()
		return domain.EntrySnapshot{}, domain.ErrActionPending
	}
	s.entering = true
	s.roomUUID = opts.RoomUUID
	s.mu.Unlock()

	snap, err := s.svc.Members.JoinClassroom(ctx, opts)
	if err == nil && !s.Alive() {
		err = domain.ErrStaleSession
	}
	if err != nil {
		s.mu.Lock()
		s.entering = false
		s.mu.Unlock()
		log.Warn().Err(err).Str("module", "app.session").Str("room", string(opts.RoomUUID)).Msg("enter class failed")
		if errors.Is(err, domain.ErrStaleSession) {
			return domain.EntrySnapshot{}, err
		}
		return domain.EntrySnapshot{}, fmt.Errorf("join classroom: %w", err)
	}

	if snap.SelfUUID == "" {
		snap.SelfUUID = s.creds.UserUUID
	}
	if snap.Room.UUID == "" {
		snap.Room.UUID = opts.RoomUUID
	}
	if snap.Room.Name == "" {
		snap.Room.Name = opts.RoomName
	}
	if snap.Config.SceneType == "" {
		snap.Config.SceneType = opts.SceneType
	}
	if snap.Config.Permissions == nil {
		snap.Config.Permissions = domain.DefaultPermissions()
	}

	if err := s.Roster.Init(snap.Members, snap.SelfUUID); err != nil {
		s.mu.Lock()
		s.entering = false
		s.mu.Unlock()
		return domain.EntrySnapshot{}, fmt.Errorf("entry snapshot: %w", err)
	}
	s.Room.Init(snap.Room, snap.Step, snap.Duration)

	o := &orch.Orchestrator{
		RoomUUID:       snap.Room.UUID,
		Config:         snap.Config,
		Roster:         s.Roster,
		Room:           s.Room,
		Bus:            s.Bus,
		Members:        s.svc.Members,
		Rooms:          s.svc.Rooms,
		RTC:            s.svc.RTC,
		Share:          s.svc.Share,
		Board:          s.svc.Board,
		Capture:        s.svc.Capture,
		Alive:          s.Alive,
		RequestTimeout: s.opts.RequestTimeout,
		PendingTTL:     s.opts.PendingTTL,
	}
	o.Bind()

	s.mu.Lock()
	s.roomUUID = snap.Room.UUID
	s.config = snap.Config
	s.orch = o
	s.entering = false
	s.mu.Unlock()

	if err := s.joinMedia(ctx, snap); err != nil {
		return domain.EntrySnapshot{}, err
	}

	s.pushMu.Lock()
	s.entered = true
	pending := s.buffered
	s.buffered = nil
	for _, ev := range pending {
		s.apply(ev)
	}
	s.pushMu.Unlock()
	if !s.Alive() {
		return domain.EntrySnapshot{}, domain.ErrStaleSession
	}

	snap.Room = s.Room.Snapshot()
	snap.Members = s.Roster.Snapshot()
	log.Info().Str("module", "app.session").Str("room", string(snap.Room.UUID)).
		Int("members", len(snap.Members)).Int("replayed", len(pending)).Msg("class entered")
	return snap, nil
}

// joinMedia brings up chat and RTC. Failures are logged: the class itself is
// entered. A handle acquired after Destroy is released at once and the entry
// fails with ErrStaleSession.
func (s *Session) joinMedia(ctx context.Context, snap domain.EntrySnapshot) error {
	if err := s.svc.IM.EnterChatroom(ctx, snap.Room.UUID); err != nil {
		log.Warn().Err(err).Str("module", "app.session").Msg("enter chatroom")
	} else if !s.markUp(&s.imUp) {
		if err := s.svc.IM.ExitChatroom(ctx); err != nil {
			log.Warn().Err(err).Str("module", "app.session").Msg("exit chatroom after destroy")
		}
		return domain.ErrStaleSession
	}
	if !s.Alive() {
		return domain.ErrStaleSession
	}

	self, _ := s.Roster.GetLocal()
	if err := s.svc.RTC.JoinChannel(ctx, snap.Room.UUID, self.RTCUid); err != nil {
		log.Warn().Err(err).Str("module", "app.session").Msg("join rtc channel")
		return nil
	}
	if !s.markUp(&s.rtcUp) {
		if err := s.svc.RTC.LeaveChannel(ctx); err != nil {
			log.Warn().Err(err).Str("module", "app.session").Msg("leave rtc after destroy")
		}
		return domain.ErrStaleSession
	}
	if err := s.svc.RTC.SetLocalAudioEnabled(ctx, self.Properties.HasAudio); err != nil {
		log.Warn().Err(err).Str("module", "app.session").Msg("initial audio state")
	}
	if err := s.svc.RTC.SetLocalVideoEnabled(ctx, self.Properties.HasVideo); err != nil {
		log.Warn().Err(err).Str("module", "app.session").Msg("initial video state")
	}
	return nil
}

// markUp records an acquired handle so Destroy releases it. It reports false,
// leaving the flag unset, once Destroy has started: the caller owns the release.
func (s *Session) markUp(flag *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing.Load() {
		return false
	}
	*flag = true
	return true
}

// HandlePush applies a backend push. Pushes that arrive while the entry
// snapshot is loading are held and replayed in arrival order.
func (s *Session) HandlePush(ev domain.PushEvent) {
	if !s.Alive() {
		log.Debug().Str("module", "app.session").Str("kind", ev.Kind()).Msg("push after destroy dropped")
		return
	}
	s.pushMu.Lock()
	defer s.pushMu.Unlock()
	if !s.entered {
		if len(s.buffered) >= maxBufferedPushes {
			log.Warn().Str("module", "app.session").Str("kind", ev.Kind()).Msg("push buffer full, dropping")
			return
		}
		s.buffered = append(s.buffered, ev)
		return
	}
	s.apply(ev)
}

func (s *Session) apply(ev domain.PushEvent) {
	if !s.Alive() {
		return
	}
	o, err := s.Coordinator()
	if err != nil {
		return
	}
	switch p := ev.(type) {
	case domain.RoomStatePush:
		if p.RoomUUID != "" && p.RoomUUID != o.RoomUUID {
			log.Debug().Str("module", "app.session").Str("room", string(p.RoomUUID)).Msg("room push for another room")
			return
		}
		s.Room.Apply(p.Step, p.Duration)
	case domain.MemberJoinPush:
		s.Roster.ApplyJoin(p.Members)
	case domain.MemberLeavePush:
		s.Roster.Remove(p.UserUUID)
	case domain.MemberPropertyPush:
		s.Roster.ApplyPropertyDelta(p.UserUUID, p.Delta)
	case domain.StreamChangePush:
		o.ApplyStreamChange(p)
	case domain.PermissionGrantPush:
		o.ApplyPermissionGrant(p)
	case domain.MuteAllAudioPush:
		s.Bus.MuteAllAudio.Publish(event.MuteAllAudioEvent{Muted: p.Muted})
	case domain.NetworkQualityPush:
		s.Bus.NetworkQuality.Publish(event.NetworkQualityEvent{Qualities: p.Qualities})
	default:
		log.Warn().Str("module", "app.session").Str("kind", ev.Kind()).Msg("unknown push")
	}
}

// SyncSnapshot refetches the room and reconciles local state with it.
func (s *Session) SyncSnapshot(ctx context.Context) (domain.EntrySnapshot, error) {
	o, err := s.Coordinator()
	if err != nil {
		return domain.EntrySnapshot{}, err
	}
	snap, err := s.svc.Rooms.Snapshot(ctx, o.RoomUUID)
	if err != nil {
		return domain.EntrySnapshot{}, fmt.Errorf("room snapshot: %w", err)
	}
	if !s.Alive() {
		return domain.EntrySnapshot{}, domain.ErrStaleSession
	}

	s.pushMu.Lock()
	err = s.Roster.Reconcile(snap.Members)
	if err == nil {
		s.Room.Apply(snap.Step, snap.Duration)
	}
	s.pushMu.Unlock()
	if err != nil {
		return domain.EntrySnapshot{}, fmt.Errorf("reconcile: %w", err)
	}

	snap.Room = s.Room.Snapshot()
	snap.Members = s.Roster.Snapshot()
	snap.SelfUUID = s.creds.UserUUID
	snap.Config = o.Config
	return snap, nil
}

// Destroy stops an active share, drops every subscription, releases RTC and
// chat and clears the manager's slot. Later completions are discarded.
// Concurrent callers wait for the first teardown to finish.
func (s *Session) Destroy(ctx context.Context) error {
	if !s.closing.CompareAndSwap(false, true) {
		select {
		case <-s.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	defer close(s.done)
	if o, err := s.Coordinator(); err == nil {
		o.StopLocalShare(ctx)
	}
	s.destroyed.Store(true)

	n := s.Bus.UnregisterAll()
	s.Bus.Close()

	s.mu.Lock()
	rtcUp, imUp := s.rtcUp, s.imUp
	s.rtcUp, s.imUp = false, false
	s.mu.Unlock()

	var (
		wg   conc.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	collect := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	if rtcUp {
		wg.Go(func() {
			if err := s.svc.RTC.LeaveChannel(ctx); err != nil {
				collect(fmt.Errorf("leave rtc: %w", err))
			}
		})
	}
	if imUp {
		wg.Go(func() {
			if err := s.svc.IM.ExitChatroom(ctx); err != nil {
				collect(fmt.Errorf("exit chatroom: %w", err))
			}
		})
	}
	wg.Wait()

	s.manager.clear(s)
	err := errors.Join(errs...)
	log.Info().Err(err).Str("module", "app.session").Uint64("generation", s.gen).Int("subscriptions", n).Msg("session destroyed")
	return err
}
