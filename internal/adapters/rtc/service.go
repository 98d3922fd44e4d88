package rtc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// Signaler exchanges the offer for an answer with the media server.
type Signaler interface {
	Negotiate(ctx context.Context, channel domain.RoomUUID, uid uint64, offer string) (string, error)
	Leave(ctx context.Context, channel domain.RoomUUID) error
}

type localTrack struct {
	track   *webrtc.TrackLocalStaticSample
	sender  *webrtc.RTPSender
	enabled bool
}

// apply swaps the sender between the track and nothing.
func (l *localTrack) apply() error {
	if l.sender == nil {
		return nil
	}
	var t webrtc.TrackLocal
	if l.enabled {
		t = l.track
	}
	return l.sender.ReplaceTrack(t)
}

var _ core.RTCService = (*Service)(nil)

// Service implements core.RTCService over a single pion peer connection.
type Service struct {
	cfg     webrtc.Configuration
	signal  Signaler
	remotes *Remotes

	mu      sync.Mutex
	conn    *Conn
	channel domain.RoomUUID
	audio   localTrack
	video   localTrack
}

func New(iceServers []string, signal Signaler, sink Sink) *Service {
	return &Service{
		cfg:     ConfigFrom(iceServers),
		signal:  signal,
		remotes: NewRemotes(sink),
	}
}

// Remotes exposes the remote stream registry for stream notifications.
func (s *Service) Remotes() *Remotes { return s.remotes }

// Joined reports the current channel, empty when not joined.
func (s *Service) Joined() domain.RoomUUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channel
}

func (s *Service) JoinChannel(ctx context.Context, channel domain.RoomUUID, uid uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		if s.channel == channel {
			return nil
		}
		if err := s.closeLocked(ctx); err != nil {
			log.Warn().Err(err).Str("module", "rtc").Msg("leave previous channel")
		}
	}

	conn, err := NewConn(s.cfg, uid)
	if err != nil {
		return err
	}
	fail := func(err error) error {
		conn.Close()
		s.audio.sender, s.video.sender = nil, nil
		return err
	}
	if err := s.attachLocal(conn, uid); err != nil {
		return fail(err)
	}
	conn.OnTrack(s.onTrack)
	conn.Start(context.Background())

	offer, err := conn.CreateOffer(ctx)
	if err != nil {
		return fail(err)
	}
	answer, err := s.signal.Negotiate(ctx, channel, uid, offer)
	if err != nil {
		return fail(fmt.Errorf("negotiate: %w", err))
	}
	if err := conn.ApplyAnswer(answer); err != nil {
		return fail(fmt.Errorf("apply answer: %w", err))
	}
	// Senders need their track until the answer is applied; disabled kinds are detached after.
	if err := errors.Join(s.audio.apply(), s.video.apply()); err != nil {
		log.Warn().Err(err).Str("module", "rtc").Msg("initial local track state")
	}

	s.conn = conn
	s.channel = channel
	log.Info().Str("module", "rtc").Str("channel", string(channel)).Uint64("uid", uid).Msg("joined channel")
	return nil
}

// attachLocal adds the local tracks. Their stream id is the uid, which is how
// remote peers attribute tracks.
func (s *Service) attachLocal(conn *Conn, uid uint64) error {
	stream := strconv.FormatUint(uid, 10)
	audio, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}, "audio", stream)
	if err != nil {
		return err
	}
	video, err := webrtc.NewTrackLocalStaticSample(webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8}, "video", stream)
	if err != nil {
		return err
	}
	s.audio.track, s.video.track = audio, video

	if s.audio.sender, err = conn.AddLocalTrack(audio); err != nil {
		return err
	}
	s.video.sender, err = conn.AddLocalTrack(video)
	return err
}

func (s *Service) onTrack(ctx context.Context, track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	uid, err := strconv.ParseUint(track.StreamID(), 10, 64)
	if err != nil {
		log.Warn().Str("module", "rtc").Str("stream_id", track.StreamID()).Msg("remote stream without uid")
		return
	}
	kind := KindAudio
	if track.Kind() == webrtc.RTPCodecTypeVideo {
		kind = KindVideo
	}
	s.remotes.Start(ctx, uid, kind, func() (*rtp.Packet, error) {
		pkt, _, err := track.ReadRTP()
		return pkt, err
	})
}

func (s *Service) LeaveChannel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.closeLocked(ctx)
}

func (s *Service) closeLocked(ctx context.Context) error {
	channel := s.channel
	err := s.signal.Leave(ctx, channel)
	s.remotes.StopAll()
	s.conn.Close()
	s.conn = nil
	s.channel = ""
	s.audio.sender, s.video.sender = nil, nil
	log.Info().Str("module", "rtc").Str("channel", string(channel)).Msg("left channel")
	return err
}

// SetLocalAudioEnabled before a join is remembered and applied on join.
func (s *Service) SetLocalAudioEnabled(_ context.Context, enabled bool) error {
	return s.setLocal(&s.audio, enabled)
}

func (s *Service) SetLocalVideoEnabled(_ context.Context, enabled bool) error {
	return s.setLocal(&s.video, enabled)
}

func (s *Service) setLocal(l *localTrack, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.enabled == enabled {
		return nil
	}
	l.enabled = enabled
	if err := l.apply(); err != nil {
		l.enabled = !enabled
		return fmt.Errorf("replace track: %w", err)
	}
	return nil
}

// LocalEnabled reports the local publish state per kind.
func (s *Service) LocalEnabled(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == KindVideo {
		return s.video.enabled
	}
	return s.audio.enabled
}

func (s *Service) SetRemoteAudioEnabled(_ context.Context, uid uint64, enabled bool) error {
	s.remotes.SetMuted(uid, KindAudio, !enabled)
	return nil
}

func (s *Service) SetRemoteVideoEnabled(_ context.Context, uid uint64, enabled bool) error {
	s.remotes.SetMuted(uid, KindVideo, !enabled)
	return nil
}
