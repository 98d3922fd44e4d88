package event

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	channel string
	once    sync.Once
	cancel  func()
}

// Unsubscribe stops delivery to the subscriber. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

func (s *Subscription) Channel() string { return s.channel }

type tracker struct {
	mu   sync.Mutex
	subs []*Subscription
}

func (t *tracker) add(s *Subscription) {
	t.mu.Lock()
	t.subs = append(t.subs, s)
	t.mu.Unlock()
}

func (t *tracker) drain() []*Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.subs
	t.subs = nil
	return out
}

type Options struct {
	// Dispatcher selects where subscriber callbacks run. Defaults to Inline.
	Dispatcher Dispatcher
}

// Bus groups the session's event channels. Channels are independent: there is
// no ordering between events of different channels.
type Bus struct {
	RoomState       *Channel[RoomStateEvent]
	MemberJoin      *Channel[MemberJoinEvent]
	MemberLeave     *Channel[MemberLeaveEvent]
	PropertyChange  *Channel[PropertyChangeEvent]
	StreamChange    *Channel[StreamChangeEvent]
	PermissionGrant *Channel[PermissionGrantEvent]
	MuteAllAudio    *Channel[MuteAllAudioEvent]
	NetworkQuality  *Channel[NetworkQualityEvent]

	tracker *tracker
	closers []func()
	syncers []func()
	once    sync.Once
}

func NewBus(opts Options) *Bus {
	tr := &tracker{}
	d := opts.Dispatcher
	b := &Bus{
		RoomState:       newChannel[RoomStateEvent]("room_state", d, tr),
		MemberJoin:      newChannel[MemberJoinEvent]("member_join", d, tr),
		MemberLeave:     newChannel[MemberLeaveEvent]("member_leave", d, tr),
		PropertyChange:  newChannel[PropertyChangeEvent]("property_change", d, tr),
		StreamChange:    newChannel[StreamChangeEvent]("stream_change", d, tr),
		PermissionGrant: newChannel[PermissionGrantEvent]("permission_grant", d, tr),
		MuteAllAudio:    newChannel[MuteAllAudioEvent]("mute_all_audio", d, tr),
		NetworkQuality:  newChannel[NetworkQualityEvent]("network_quality", d, tr),
		tracker:         tr,
	}
	b.closers = []func(){
		b.RoomState.close, b.MemberJoin.close, b.MemberLeave.close, b.PropertyChange.close,
		b.StreamChange.close, b.PermissionGrant.close, b.MuteAllAudio.close, b.NetworkQuality.close,
	}
	b.syncers = []func(){
		b.RoomState.Sync, b.MemberJoin.Sync, b.MemberLeave.Sync, b.PropertyChange.Sync,
		b.StreamChange.Sync, b.PermissionGrant.Sync, b.MuteAllAudio.Sync, b.NetworkQuality.Sync,
	}
	return b
}

// UnregisterAll releases every subscription made through this bus.
func (b *Bus) UnregisterAll() int {
	subs := b.tracker.drain()
	for _, s := range subs {
		s.Unsubscribe()
	}
	if len(subs) > 0 {
		log.Debug().Str("module", "app.event").Int("count", len(subs)).Msg("unregistered subscriptions")
	}
	return len(subs)
}

// Close unregisters everything and drops undelivered events. Later publishes are ignored.
func (b *Bus) Close() {
	b.once.Do(func() {
		b.UnregisterAll()
		for _, c := range b.closers {
			c()
		}
	})
}

// Sync waits until every channel has delivered what was published before the call.
func (b *Bus) Sync() {
	for _, s := range b.syncers {
		s()
	}
}
