package signal

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/config"
	"github.com/dkeye/Classroom/internal/core/mocks"
	"github.com/dkeye/Classroom/internal/domain"
)

type rawFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mocks.NewMockAuthService(ctrl)
	auth.EXPECT().Login(gomock.Any(), "t1", "tok").Return(domain.Credentials{UserUUID: "t1"}, nil).AnyTimes()
	return session.NewManager(session.Services{
		Auth:    auth,
		Members: mocks.NewMockMemberService(ctrl),
		Rooms:   mocks.NewMockRoomService(ctrl),
		IM:      mocks.NewMockIMService(ctrl),
		RTC:     mocks.NewMockRTCService(ctrl),
		Share:   mocks.NewMockShareScreenService(ctrl),
		Board:   mocks.NewMockBoardService(ctrl),
		Capture: mocks.NewMockCaptureHost(ctrl),
	}, session.Options{})
}

func startServer(t *testing.T, ctl *StreamController) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("client_token", "client-1")
		ctl.HandleStream(context.Background(), c)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"`+typ+`"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, conn *websocket.Conn) rawFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f rawFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return f
}

func TestStreamWithoutSession(t *testing.T) {
	ctl := NewStreamController(newManager(t), NewRegistry(), config.Stream{})
	url := startServer(t, ctl)
	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil || resp == nil || resp.StatusCode != 409 {
		t.Fatalf("expected 409 rejection, err = %v", err)
	}
}

func TestStreamForwardsBusEvents(t *testing.T) {
	mgr := newManager(t)
	sess, err := mgr.Init(context.Background(), "t1", "tok")
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	ctl := NewStreamController(mgr, reg, config.Stream{SendBuffer: 8})
	conn := dial(t, startServer(t, ctl))

	send(t, conn, "ping")
	if f := read(t, conn); f.Type != "pong" {
		t.Fatalf("type = %q", f.Type)
	}
	if reg.Count() != 1 {
		t.Fatalf("registry count = %d", reg.Count())
	}

	sess.Bus.MuteAllAudio.Publish(event.MuteAllAudioEvent{Muted: true})
	f := read(t, conn)
	if f.Type != "mute_all_audio" {
		t.Fatalf("type = %q", f.Type)
	}
	var ev event.MuteAllAudioEvent
	if err := json.Unmarshal(f.Data, &ev); err != nil || !ev.Muted {
		t.Fatalf("data = %s err = %v", f.Data, err)
	}
}

func TestStreamQueriesBeforeEnter(t *testing.T) {
	mgr := newManager(t)
	if _, err := mgr.Init(context.Background(), "t1", "tok"); err != nil {
		t.Fatal(err)
	}
	conn := dial(t, startServer(t, NewStreamController(mgr, NewRegistry(), config.Stream{})))

	send(t, conn, "pending")
	f := read(t, conn)
	if f.Type != "error" || !strings.Contains(string(f.Data), domain.ErrNotEntered.Error()) {
		t.Fatalf("frame = %s %s", f.Type, f.Data)
	}

	send(t, conn, "bogus")
	if f := read(t, conn); f.Type != "error" {
		t.Fatalf("type = %q", f.Type)
	}
}

func TestStreamEndsWithGeneration(t *testing.T) {
	mgr := newManager(t)
	sess, err := mgr.Init(context.Background(), "t1", "tok")
	if err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry()
	conn := dial(t, startServer(t, NewStreamController(mgr, reg, config.Stream{})))
	send(t, conn, "ping")
	read(t, conn)

	if n := reg.CancelGeneration(sess.Generation()); n != 1 {
		t.Fatalf("canceled = %d", n)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("stream still open")
	}
}

func TestIntentLimiterPerClient(t *testing.T) {
	l := NewIntentLimiter(0, 2)
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("burst not honored")
	}
	if l.Allow("a") {
		t.Fatal("third call allowed")
	}
	if !l.Allow("b") {
		t.Fatal("other client throttled")
	}
	l.Forget("a")
	if !l.Allow("a") {
		t.Fatal("forget did not reset")
	}
}
