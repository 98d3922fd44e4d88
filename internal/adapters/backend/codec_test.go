package backend

import (
	"errors"
	"testing"
	"time"

	"github.com/dkeye/Classroom/internal/domain"
)

func TestResponseError(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{domain.CodeUnauthorized, domain.ErrAuth},
		{domain.CodeForbidden, domain.ErrAuth},
		{domain.CodeStreamConcurrencyOut, domain.ErrConcurrencyConflict},
		{500, domain.ErrRemoteRejected},
	}
	for _, tt := range tests {
		err := responseError(Frame{Type: typeResponse, Code: tt.code, Msg: "nope"})
		if !errors.Is(err, tt.want) {
			t.Errorf("code %d: got %v, want %v", tt.code, err, tt.want)
		}
		var remote *domain.RemoteError
		if !errors.As(err, &remote) || remote.Code != tt.code || remote.Message != "nope" {
			t.Errorf("code %d: remote error not preserved: %v", tt.code, err)
		}
	}
	if err := responseError(Frame{Type: typeResponse}); err != nil {
		t.Fatalf("ok response: %v", err)
	}
}

func TestDecodePush(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.PushEvent
	}{
		{
			`{"type":"room.state","data":{"roomUuid":"r1","step":1,"duration":1500}}`,
			domain.RoomStatePush{RoomUUID: "r1", Step: domain.StepStart, Duration: 1500 * time.Millisecond},
		},
		{
			`{"type":"member.leave","data":{"userUuid":"s1"}}`,
			domain.MemberLeavePush{UserUUID: "s1"},
		},
		{
			`{"type":"room.mute_all_audio","data":{"muted":true}}`,
			domain.MuteAllAudioPush{Muted: true},
		},
		{
			`{"type":"permission.grant","data":{"userUuid":"s1","capability":"whiteboard","granted":true,"by":"t1"}}`,
			domain.PermissionGrantPush{UserUUID: "s1", Capability: domain.CapWhiteboard, Granted: true, By: "t1"},
		},
		{
			`{"type":"stream.change","data":{"userUuid":"s1","capability":"video","enabled":false}}`,
			domain.StreamChangePush{UserUUID: "s1", Capability: domain.CapVideo},
		},
	}
	for _, tt := range tests {
		f, err := decodeFrame([]byte(tt.raw))
		if err != nil {
			t.Fatalf("%s: %v", tt.raw, err)
		}
		got, err := decodePush(f)
		if err != nil {
			t.Fatalf("%s: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("got %#v, want %#v", got, tt.want)
		}
	}
}

func TestDecodePush_MemberProperty(t *testing.T) {
	f, err := decodeFrame([]byte(`{"type":"member.property","data":{"userUuid":"s1","delta":{"hasAudio":false,"handsUp":1,"by":"t1"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	ev, err := decodePush(f)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := ev.(domain.MemberPropertyPush)
	if !ok {
		t.Fatalf("got %T", ev)
	}
	if p.Delta.HasAudio == nil || *p.Delta.HasAudio || p.Delta.HandsUp == nil || *p.Delta.HandsUp != domain.HandsUpRaised {
		t.Fatalf("delta = %+v", p.Delta)
	}
	if p.Delta.HasVideo != nil || p.Delta.By != "t1" {
		t.Fatalf("delta = %+v", p.Delta)
	}
}

func TestDecodeFrame_Errors(t *testing.T) {
	if _, err := decodeFrame([]byte(`{"id":"1"}`)); err == nil {
		t.Fatal("missing type accepted")
	}
	if _, err := decodeFrame([]byte(`not json`)); err == nil {
		t.Fatal("garbage accepted")
	}
	if _, err := decodePush(Frame{Type: "mystery", Data: []byte(`{}`)}); err == nil {
		t.Fatal("unknown push accepted")
	}
}

func TestPropertyRoutes(t *testing.T) {
	req := PropertyRequest{RoomUUID: "r1", UserUUID: "s1", Key: domain.KeyAudio, Value: domain.ValueOpen}
	if m, _ := RouteFor(false).Route(req); m != methodUpdateProperty {
		t.Fatalf("direct route method %q", m)
	}
	m, payload := RouteFor(true).Route(req)
	env, ok := payload.(passthroughEnvelope)
	if m != methodPassthrough || !ok || env.Method != methodUpdateProperty || env.Body != req {
		t.Fatalf("passthrough route = %q %#v", m, payload)
	}
}
