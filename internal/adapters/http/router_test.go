package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/mock/gomock"

	"github.com/dkeye/Classroom/internal/adapters/signal"
	"github.com/dkeye/Classroom/internal/app/session"
	"github.com/dkeye/Classroom/internal/config"
	"github.com/dkeye/Classroom/internal/core/mocks"
	"github.com/dkeye/Classroom/internal/domain"
)

type fixture struct {
	router  *gin.Engine
	mgr     *session.Manager
	auth    *mocks.MockAuthService
	members *mocks.MockMemberService
	im      *mocks.MockIMService
	rtc     *mocks.MockRTCService
	cookies map[string]*http.Cookie
}

func newFixture(t *testing.T, limiter *signal.IntentLimiter) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	f := &fixture{
		auth:    mocks.NewMockAuthService(ctrl),
		members: mocks.NewMockMemberService(ctrl),
		im:      mocks.NewMockIMService(ctrl),
		rtc:     mocks.NewMockRTCService(ctrl),
		cookies: make(map[string]*http.Cookie),
	}
	f.mgr = session.NewManager(session.Services{
		Auth:    f.auth,
		Members: f.members,
		Rooms:   mocks.NewMockRoomService(ctrl),
		IM:      f.im,
		RTC:     f.rtc,
		Share:   mocks.NewMockShareScreenService(ctrl),
		Board:   mocks.NewMockBoardService(ctrl),
		Capture: mocks.NewMockCaptureHost(ctrl),
	}, session.Options{})

	cfg := &config.Config{Mode: "test", Secret: "test-secret"}
	api := &API{
		Sessions: f.mgr,
		Stream:   signal.NewStreamController(f.mgr, signal.NewRegistry(), cfg.Stream),
		Limiter:  limiter,
	}
	f.router = SetupRouter(context.Background(), cfg, api)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range f.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		f.cookies[ck.Name] = ck
	}
	return w
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.auth.EXPECT().Login(gomock.Any(), "t1", "tok").Return(domain.Credentials{UserUUID: "t1"}, nil)
	w := f.do(t, http.MethodPost, "/api/session", initRequest{UserUUID: "t1", UserToken: "tok"})
	if w.Code != http.StatusOK {
		t.Fatalf("init status = %d body = %s", w.Code, w.Body)
	}
}

func (f *fixture) enter(t *testing.T) {
	t.Helper()
	opts := domain.ClassOptions{RoomUUID: "r1", RoomName: "Physics", UserName: "teacher", Role: domain.RoleHost, SceneType: domain.SceneSmall}
	f.members.EXPECT().JoinClassroom(gomock.Any(), opts).Return(domain.EntrySnapshot{
		Room:     domain.Room{UUID: "r1", Name: "Physics"},
		Step:     domain.StepStart,
		SelfUUID: "t1",
		Members: []domain.Member{
			{UserUUID: "t1", Role: domain.RoleHost, DisplayName: "teacher", RTCUid: 1},
			{UserUUID: "s1", Role: domain.RoleStudent, DisplayName: "pupil", RTCUid: 2},
		},
	}, nil)
	f.im.EXPECT().EnterChatroom(gomock.Any(), domain.RoomUUID("r1")).Return(nil)
	f.rtc.EXPECT().JoinChannel(gomock.Any(), domain.RoomUUID("r1"), uint64(1)).Return(nil)
	f.rtc.EXPECT().SetLocalAudioEnabled(gomock.Any(), false).Return(nil)
	f.rtc.EXPECT().SetLocalVideoEnabled(gomock.Any(), false).Return(nil)

	w := f.do(t, http.MethodPost, "/api/class/enter", opts)
	if w.Code != http.StatusOK {
		t.Fatalf("enter status = %d body = %s", w.Code, w.Body)
	}
}

func TestInitSession(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	w := f.do(t, http.MethodGet, "/api/session", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp sessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.UserUUID != "t1" || resp.Generation != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestInitSession_AuthFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.auth.EXPECT().Login(gomock.Any(), "t1", "bad").Return(domain.Credentials{}, domain.NewRemoteError(domain.CodeUnauthorized, "expired"))

	w := f.do(t, http.MethodPost, "/api/session", initRequest{UserUUID: "t1", UserToken: "bad"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["code"] != float64(domain.CodeUnauthorized) {
		t.Fatalf("body = %v", body)
	}
}

func TestIntentWithoutSession(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(t, http.MethodPost, "/api/intents/class/start", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestIntentBeforeEnter(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	w := f.do(t, http.MethodPost, "/api/intents/hand", handRequest{Raise: true})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d body = %s", w.Code, w.Body)
	}
}

func TestToggleMediaAndSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.enter(t)

	f.members.EXPECT().UpdateProperty(gomock.Any(), domain.RoomUUID("r1"), domain.UserUUID("t1"), domain.KeyAudio, 1).Return(nil)
	f.rtc.EXPECT().SetLocalAudioEnabled(gomock.Any(), true).Return(nil)

	enabled := true
	w := f.do(t, http.MethodPost, "/api/intents/media", mediaRequest{Capability: domain.CapAudio, Enabled: &enabled})
	if w.Code != http.StatusNoContent {
		t.Fatalf("toggle status = %d body = %s", w.Code, w.Body)
	}

	w = f.do(t, http.MethodGet, "/api/class", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", w.Code)
	}
	var resp classResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Members) != 2 {
		t.Fatalf("members = %d", len(resp.Members))
	}
	for _, m := range resp.Members {
		if m.UserUUID == "t1" && !m.Properties.HasAudio {
			t.Fatal("self audio not on")
		}
	}
}

func TestToggleRemoteMediaNeedsState(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.enter(t)

	w := f.do(t, http.MethodPost, "/api/intents/media", mediaRequest{UserUUID: "s1", Capability: domain.CapVideo})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestInvalidCapability(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.enter(t)

	w := f.do(t, http.MethodPost, "/api/intents/media", mediaRequest{Capability: domain.CapWhiteboard})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestIntentThrottle(t *testing.T) {
	f := newFixture(t, signal.NewIntentLimiter(0, 1))
	f.login(t)

	if w := f.do(t, http.MethodPost, "/api/intents/class/start", nil); w.Code == http.StatusTooManyRequests {
		t.Fatal("first intent throttled")
	}
	if w := f.do(t, http.MethodPost, "/api/intents/class/start", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
}

func TestClientTokenLivesInSession(t *testing.T) {
	f := newFixture(t, signal.NewIntentLimiter(0, 1))
	f.login(t)

	if _, ok := f.cookies[sessionCookie]; !ok {
		t.Fatalf("cookies = %v, want %s", f.cookies, sessionCookie)
	}
	if w := f.do(t, http.MethodPost, "/api/intents/class/start", nil); w.Code == http.StatusTooManyRequests {
		t.Fatal("first intent throttled")
	}
	if w := f.do(t, http.MethodPost, "/api/intents/class/start", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("same client: status = %d, want 429", w.Code)
	}

	// A browser without the session cookie gets its own token and budget.
	f.cookies = make(map[string]*http.Cookie)
	if w := f.do(t, http.MethodPost, "/api/intents/class/start", nil); w.Code == http.StatusTooManyRequests {
		t.Fatal("new client throttled")
	}
}

func TestPlayback(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.enter(t)

	f.rtc.EXPECT().SetRemoteVideoEnabled(gomock.Any(), uint64(2), false).Return(nil)

	w := f.do(t, http.MethodPost, "/api/intents/playback", playbackRequest{UserUUID: "s1", Capability: domain.CapVideo})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d body = %s", w.Code, w.Body)
	}
	if w := f.do(t, http.MethodPost, "/api/intents/playback", playbackRequest{UserUUID: "ghost", Capability: domain.CapVideo}); w.Code != http.StatusNotFound {
		t.Fatalf("ghost status = %d", w.Code)
	}
	if w := f.do(t, http.MethodPost, "/api/intents/playback", playbackRequest{Capability: domain.CapVideo}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing member status = %d", w.Code)
	}
}

func TestDestroySession(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.enter(t)

	f.rtc.EXPECT().LeaveChannel(gomock.Any()).Return(nil)
	f.im.EXPECT().ExitChatroom(gomock.Any()).Return(nil)

	if w := f.do(t, http.MethodDelete, "/api/session", nil); w.Code != http.StatusNoContent {
		t.Fatalf("destroy status = %d", w.Code)
	}
	if w := f.do(t, http.MethodGet, "/api/session", nil); w.Code != http.StatusConflict {
		t.Fatalf("after destroy status = %d", w.Code)
	}
	if w := f.do(t, http.MethodDelete, "/api/session", nil); w.Code != http.StatusNoContent {
		t.Fatalf("second destroy status = %d", w.Code)
	}
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrPermissionDenied, http.StatusForbidden},
		{fmt.Errorf("share: %w", domain.NewRemoteError(domain.CodeStreamConcurrencyOut, "busy")), http.StatusConflict},
		{domain.ErrActionPending, http.StatusConflict},
		{domain.ErrStaleSession, http.StatusGone},
		{fmt.Errorf("call: %w", domain.ErrNetwork), http.StatusBadGateway},
		{domain.ErrMemberNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusOf(tc.err); got != tc.want {
			t.Errorf("statusOf(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
