package rtc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pion/rtp"
)

type recordSink struct {
	got chan uint16
}

func (r *recordSink) WriteRTP(_ uint64, _ Kind, pkt *rtp.Packet) error {
	r.got <- pkt.SequenceNumber
	return nil
}

var errTrackEnded = errors.New("track ended")

// feed returns a read func backed by a channel; closing the channel ends the track.
func feed() (chan *rtp.Packet, func() (*rtp.Packet, error)) {
	ch := make(chan *rtp.Packet)
	return ch, func() (*rtp.Packet, error) {
		pkt, ok := <-ch
		if !ok {
			return nil, errTrackEnded
		}
		return pkt, nil
	}
}

func packet(seq uint16) *rtp.Packet {
	return &rtp.Packet{Header: rtp.Header{SequenceNumber: seq}}
}

func expectSeq(t *testing.T, sink *recordSink, want uint16) {
	t.Helper()
	select {
	case got := <-sink.got:
		if got != want {
			t.Fatalf("seq = %d, want %d", got, want)
		}
	case <-time.After(time.Second):
		t.Fatalf("no packet %d", want)
	}
}

func TestRemotesMutedTrackDropsPackets(t *testing.T) {
	sink := &recordSink{got: make(chan uint16, 8)}
	r := NewRemotes(sink)
	ch, read := feed()
	defer close(ch)

	tr := r.Start(context.Background(), 7, KindAudio, read)
	ch <- packet(1)
	expectSeq(t, sink, 1)

	r.SetMuted(7, KindAudio, true)
	if tr.State() != TrackStateMuted {
		t.Fatalf("state = %v", tr.State())
	}
	ch <- packet(2)
	// The send of 3 returns only once 2 has been dropped.
	ch <- packet(3)
	r.SetMuted(7, KindAudio, false)
	ch <- packet(4)

	select {
	case got := <-sink.got:
		if got == 2 {
			t.Fatal("muted packet delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("no packet after unmute")
	}
}

func TestRemotesMuteBeforeTrackArrives(t *testing.T) {
	r := NewRemotes(nil)
	r.SetMuted(9, KindVideo, true)
	ch, read := feed()
	defer close(ch)

	tr := r.Start(context.Background(), 9, KindVideo, read)
	if tr.State() != TrackStateMuted {
		t.Fatalf("state = %v, want muted", tr.State())
	}
	if r.Muted(9, KindAudio) {
		t.Fatal("audio should not inherit video mute")
	}
}

func TestRemotesStreamNotifications(t *testing.T) {
	r := NewRemotes(nil)
	var mu sync.Mutex
	var events []bool
	done := make(chan struct{}, 2)
	r.OnStream = func(uid uint64, kind Kind, enabled bool) {
		mu.Lock()
		events = append(events, enabled)
		mu.Unlock()
		done <- struct{}{}
	}

	ch, read := feed()
	r.Start(context.Background(), 3, KindAudio, read)
	<-done
	close(ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("no end notification")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("events = %v", events)
	}
}

func TestRemotesReplacedTrackEndsSilently(t *testing.T) {
	r := NewRemotes(nil)
	var mu sync.Mutex
	ended := 0
	r.OnStream = func(_ uint64, _ Kind, enabled bool) {
		if !enabled {
			mu.Lock()
			ended++
			mu.Unlock()
		}
	}
	ch1, read1 := feed()
	ch2, read2 := feed()
	defer close(ch2)

	first := r.Start(context.Background(), 4, KindVideo, read1)
	second := r.Start(context.Background(), 4, KindVideo, read2)
	if first.State() != TrackStateClosed {
		t.Fatalf("first state = %v", first.State())
	}
	close(ch1)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if ended != 0 {
		t.Fatalf("ended = %d, want 0", ended)
	}
	if second.State() != TrackStatePlaying {
		t.Fatalf("second state = %v", second.State())
	}
}

func TestRemotesStopAllForgetsMutes(t *testing.T) {
	r := NewRemotes(nil)
	r.SetMuted(1, KindAudio, true)
	ch, read := feed()
	defer close(ch)
	tr := r.Start(context.Background(), 2, KindAudio, read)

	r.StopAll()
	if tr.State() != TrackStateClosed {
		t.Fatalf("state = %v", tr.State())
	}
	if r.Muted(1, KindAudio) {
		t.Fatal("mute state kept after StopAll")
	}
}

func TestKindCapability(t *testing.T) {
	if KindAudio.Capability() != "audio" || KindVideo.Capability() != "video" {
		t.Fatal("kind mapping")
	}
}
