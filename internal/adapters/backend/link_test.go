package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/dkeye/Classroom/internal/config"
	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// fakeBackend answers requests with reply and records the methods it saw.
// Frames in push go out before every reply; send pushes at any time.
type fakeBackend struct {
	t     *testing.T
	reply func(f Frame) Frame
	push  []Frame

	mu      sync.Mutex
	methods []string

	wmu sync.Mutex
	ws  *websocket.Conn
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{}
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		b.t.Errorf("upgrade: %v", err)
		return
	}
	defer ws.Close()
	b.wmu.Lock()
	b.ws = ws
	b.wmu.Unlock()
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var req Frame
		if err := json.Unmarshal(data, &req); err != nil {
			b.t.Errorf("bad request: %v", err)
			return
		}
		b.mu.Lock()
		b.methods = append(b.methods, req.Type)
		b.mu.Unlock()

		for _, p := range b.push {
			if err := b.write(ws, p); err != nil {
				return
			}
		}
		resp := b.reply(req)
		resp.ID = req.ID
		resp.Type = typeResponse
		if err := b.write(ws, resp); err != nil {
			return
		}
	}
}

func (b *fakeBackend) write(ws *websocket.Conn, f Frame) error {
	out, _ := json.Marshal(f)
	b.wmu.Lock()
	defer b.wmu.Unlock()
	return ws.WriteMessage(websocket.TextMessage, out)
}

// send pushes f on the open connection.
func (b *fakeBackend) send(f Frame) {
	b.wmu.Lock()
	ws := b.ws
	b.wmu.Unlock()
	if ws == nil {
		b.t.Fatal("backend not connected")
	}
	if err := b.write(ws, f); err != nil {
		b.t.Fatalf("push: %v", err)
	}
}

func (b *fakeBackend) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.methods...)
}

func newLink(t *testing.T, b *fakeBackend) *Link {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	l := NewLink(config.Backend{
		URL:            "ws" + strings.TrimPrefix(srv.URL, "http"),
		RequestTimeout: 2 * time.Second,
	})
	t.Cleanup(l.Close)
	return l
}

func TestLink_LoginRoundTrip(t *testing.T) {
	b := &fakeBackend{t: t, reply: func(f Frame) Frame {
		return Frame{Data: json.RawMessage(`{"userUuid":"t1","userToken":"ut","rtcKey":"rk"}`)}
	}}
	svc := NewServices(newLink(t, b), nil)

	creds, err := svc.Auth.Login(context.Background(), "t1", "tok")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if creds.UserUUID != "t1" || creds.UserToken != "ut" || creds.RTCKey != "rk" {
		t.Fatalf("creds = %+v", creds)
	}
	if got := b.seen(); len(got) != 1 || got[0] != methodLogin {
		t.Fatalf("methods = %v", got)
	}
}

func TestLink_ServerConflictIsTyped(t *testing.T) {
	b := &fakeBackend{t: t, reply: func(Frame) Frame {
		return Frame{Code: domain.CodeStreamConcurrencyOut, Msg: "stream concurrency out"}
	}}
	svc := NewServices(newLink(t, b), nil)

	err := svc.Share.ShareScreen(context.Background(), "r1", "t1")
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestLink_PassthroughRoute(t *testing.T) {
	b := &fakeBackend{t: t, reply: func(Frame) Frame { return Frame{} }}
	svc := NewServices(newLink(t, b), RouteFor(true))

	if err := svc.Members.UpdateProperty(context.Background(), "r1", "s1", domain.KeyAudio, domain.ValueOpen); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := b.seen(); len(got) != 1 || got[0] != methodPassthrough {
		t.Fatalf("methods = %v", got)
	}
}

func TestLink_DeliversPushes(t *testing.T) {
	b := &fakeBackend{
		t:     t,
		reply: func(Frame) Frame { return Frame{} },
		push:  []Frame{{Type: pushMemberLeave, Data: json.RawMessage(`{"userUuid":"s1"}`)}},
	}
	l := newLink(t, b)
	got := make(chan domain.PushEvent, 1)
	l.SetPushHandler(core.PushHandlerFunc(func(ev domain.PushEvent) { got <- ev }))

	if err := NewServices(l, nil).Rooms.StartClass(context.Background(), "r1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	select {
	case ev := <-got:
		if ev != (domain.MemberLeavePush{UserUUID: "s1"}) {
			t.Fatalf("push = %#v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push not delivered")
	}
}

func TestLink_DialFailureIsNetworkError(t *testing.T) {
	l := NewLink(config.Backend{URL: "ws://127.0.0.1:1/none", RequestTimeout: time.Second})
	err := l.Call(context.Background(), methodLogin, nil, nil)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("got %v, want network error", err)
	}
}
