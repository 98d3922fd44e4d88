package rtc

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pion/rtp"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/domain"
)

type Kind string

const (
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
)

func (k Kind) Capability() domain.Capability {
	if k == KindVideo {
		return domain.CapVideo
	}
	return domain.CapAudio
}

type TrackState int32

const (
	TrackStatePlaying TrackState = iota
	TrackStateMuted
	TrackStateClosed
)

// Sink receives packets of remote tracks that are not muted.
type Sink interface {
	WriteRTP(uid uint64, kind Kind, pkt *rtp.Packet) error
}

// DiscardSink counts packets and drops them.
type DiscardSink struct {
	packets atomic.Uint64
}

func (d *DiscardSink) WriteRTP(uint64, Kind, *rtp.Packet) error {
	d.packets.Add(1)
	return nil
}

func (d *DiscardSink) Packets() uint64 { return d.packets.Load() }

// RemoteTrack drains one incoming track of a remote user.
type RemoteTrack struct {
	UID   uint64
	Kind  Kind
	read  func() (*rtp.Packet, error)
	state atomic.Int32
}

func (t *RemoteTrack) State() TrackState { return TrackState(t.state.Load()) }

func (t *RemoteTrack) setMuted(muted bool) {
	if muted {
		t.state.CompareAndSwap(int32(TrackStatePlaying), int32(TrackStateMuted))
		return
	}
	t.state.CompareAndSwap(int32(TrackStateMuted), int32(TrackStatePlaying))
}

func (t *RemoteTrack) close() { t.state.Store(int32(TrackStateClosed)) }

type trackKey struct {
	uid  uint64
	kind Kind
}

// Remotes tracks remote streams and the local choice to hear or see each user.
// Mute choices survive a track being replaced.
type Remotes struct {
	sink Sink

	mu     sync.Mutex
	tracks map[trackKey]*RemoteTrack
	muted  map[trackKey]bool

	// OnStream reports a remote stream appearing or ending.
	OnStream func(uid uint64, kind Kind, enabled bool)
}

func NewRemotes(sink Sink) *Remotes {
	if sink == nil {
		sink = &DiscardSink{}
	}
	return &Remotes{
		sink:   sink,
		tracks: make(map[trackKey]*RemoteTrack),
		muted:  make(map[trackKey]bool),
	}
}

// Start registers a remote track and drains it until ctx ends or read fails.
func (r *Remotes) Start(ctx context.Context, uid uint64, kind Kind, read func() (*rtp.Packet, error)) *RemoteTrack {
	t := &RemoteTrack{UID: uid, Kind: kind, read: read}
	k := trackKey{uid: uid, kind: kind}

	r.mu.Lock()
	if old, ok := r.tracks[k]; ok {
		old.close()
	}
	if r.muted[k] {
		t.state.Store(int32(TrackStateMuted))
	}
	r.tracks[k] = t
	r.mu.Unlock()

	r.notify(uid, kind, true)
	go r.drain(ctx, t)
	return t
}

func (r *Remotes) drain(ctx context.Context, t *RemoteTrack) {
	logger := log.With().Str("module", "rtc.remote").Uint64("uid", t.UID).Str("kind", string(t.Kind)).Logger()
	defer r.finish(t)
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("remote track ctx done")
			return
		default:
		}
		if t.State() == TrackStateClosed {
			return
		}
		pkt, err := t.read()
		if err != nil {
			logger.Info().Err(err).Msg("remote track ended")
			return
		}
		if t.State() != TrackStatePlaying {
			continue
		}
		if err := r.sink.WriteRTP(t.UID, t.Kind, pkt); err != nil {
			logger.Error().Err(err).Msg("sink write error")
		}
	}
}

func (r *Remotes) finish(t *RemoteTrack) {
	k := trackKey{uid: t.UID, kind: t.Kind}
	r.mu.Lock()
	current := r.tracks[k] == t
	if current {
		delete(r.tracks, k)
	}
	r.mu.Unlock()
	t.close()
	if current {
		r.notify(t.UID, t.Kind, false)
	}
}

// SetMuted records whether the local user wants uid's kind muted.
func (r *Remotes) SetMuted(uid uint64, kind Kind, muted bool) {
	k := trackKey{uid: uid, kind: kind}
	r.mu.Lock()
	r.muted[k] = muted
	t := r.tracks[k]
	r.mu.Unlock()
	if t != nil {
		t.setMuted(muted)
	}
}

func (r *Remotes) Muted(uid uint64, kind Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.muted[trackKey{uid: uid, kind: kind}]
}

// StopAll closes every remote track. Mute choices are forgotten.
func (r *Remotes) StopAll() {
	r.mu.Lock()
	tracks := r.tracks
	r.tracks = make(map[trackKey]*RemoteTrack)
	r.muted = make(map[trackKey]bool)
	r.mu.Unlock()
	for _, t := range tracks {
		t.close()
	}
}

func (r *Remotes) notify(uid uint64, kind Kind, enabled bool) {
	if r.OnStream != nil {
		r.OnStream(uid, kind, enabled)
	}
}
