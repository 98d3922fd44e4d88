package backend

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// Request methods on the wire.
const (
	methodLogin          = "auth.login"
	methodJoinClassroom  = "member.join"
	methodUpdateProperty = "member.update_property"
	methodPassthrough    = "passthrough"
	methodStartClass     = "room.start"
	methodFinishClass    = "room.finish"
	methodSnapshot       = "room.snapshot"
	methodEnterChatroom  = "im.enter"
	methodExitChatroom   = "im.exit"
	methodShareScreen    = "share.start"
	methodFinishShare    = "share.finish"
	methodGrantShare     = "share.grant"
	methodGrantBoard     = "board.grant"
	methodRTCNegotiate   = "rtc.negotiate"
	methodRTCLeave       = "rtc.leave"
)

// Caller is what the service clients need from the link.
type Caller interface {
	Call(ctx context.Context, method string, req, resp any) error
}

// Services bundles the backend implementations of the core contracts.
type Services struct {
	Auth    *AuthClient
	Members *MemberClient
	Rooms   *RoomClient
	IM      *IMClient
	Share   *ShareClient
	Board   *BoardClient
	Signal  *RTCSignalClient
}

func NewServices(c Caller, route PropertyRoute) Services {
	if route == nil {
		route = DirectRoute{}
	}
	return Services{
		Auth:    &AuthClient{c: c},
		Members: &MemberClient{c: c, route: route},
		Rooms:   &RoomClient{c: c},
		IM:      &IMClient{c: c},
		Share:   &ShareClient{c: c},
		Board:   &BoardClient{c: c},
		Signal:  &RTCSignalClient{c: c},
	}
}

var (
	_ core.AuthService        = (*AuthClient)(nil)
	_ core.MemberService      = (*MemberClient)(nil)
	_ core.RoomService        = (*RoomClient)(nil)
	_ core.IMService          = (*IMClient)(nil)
	_ core.ShareScreenService = (*ShareClient)(nil)
	_ core.BoardService       = (*BoardClient)(nil)
)

type AuthClient struct{ c Caller }

func (a *AuthClient) Login(ctx context.Context, uuid, token string) (domain.Credentials, error) {
	var creds domain.Credentials
	err := a.c.Call(ctx, methodLogin, map[string]string{"userUuid": uuid, "userToken": token}, &creds)
	return creds, err
}

// PropertyRoute picks the wire method for member property updates.
type PropertyRoute interface {
	Route(req PropertyRequest) (method string, payload any)
}

type PropertyRequest struct {
	RoomUUID domain.RoomUUID    `json:"roomUuid"`
	UserUUID domain.UserUUID    `json:"userUuid"`
	Key      domain.PropertyKey `json:"key"`
	Value    int                `json:"value"`
}

// DirectRoute sends updates to the member endpoint.
type DirectRoute struct{}

func (DirectRoute) Route(req PropertyRequest) (string, any) {
	return methodUpdateProperty, req
}

// PassthroughRoute tunnels updates through the passthrough endpoint.
type PassthroughRoute struct{}

type passthroughEnvelope struct {
	Method string `json:"method"`
	Body   any    `json:"body"`
}

func (PassthroughRoute) Route(req PropertyRequest) (string, any) {
	return methodPassthrough, passthroughEnvelope{Method: methodUpdateProperty, Body: req}
}

// RouteFor returns the route selected by configuration.
func RouteFor(passthrough bool) PropertyRoute {
	if passthrough {
		return PassthroughRoute{}
	}
	return DirectRoute{}
}

type MemberClient struct {
	c     Caller
	route PropertyRoute
}

func (m *MemberClient) JoinClassroom(ctx context.Context, opts domain.ClassOptions) (domain.EntrySnapshot, error) {
	var w entryWire
	if err := m.c.Call(ctx, methodJoinClassroom, opts, &w); err != nil {
		return domain.EntrySnapshot{}, err
	}
	return w.snapshot(), nil
}

func (m *MemberClient) UpdateProperty(ctx context.Context, room domain.RoomUUID, user domain.UserUUID, key domain.PropertyKey, value int) error {
	method, payload := m.route.Route(PropertyRequest{RoomUUID: room, UserUUID: user, Key: key, Value: value})
	return m.c.Call(ctx, method, payload, nil)
}

type roomRequest struct {
	RoomUUID domain.RoomUUID `json:"roomUuid"`
}

type RoomClient struct{ c Caller }

func (r *RoomClient) StartClass(ctx context.Context, room domain.RoomUUID) error {
	return r.c.Call(ctx, methodStartClass, roomRequest{RoomUUID: room}, nil)
}

func (r *RoomClient) FinishClass(ctx context.Context, room domain.RoomUUID) error {
	return r.c.Call(ctx, methodFinishClass, roomRequest{RoomUUID: room}, nil)
}

func (r *RoomClient) Snapshot(ctx context.Context, room domain.RoomUUID) (domain.EntrySnapshot, error) {
	var w entryWire
	if err := r.c.Call(ctx, methodSnapshot, roomRequest{RoomUUID: room}, &w); err != nil {
		return domain.EntrySnapshot{}, err
	}
	return w.snapshot(), nil
}

type IMClient struct{ c Caller }

func (i *IMClient) EnterChatroom(ctx context.Context, room domain.RoomUUID) error {
	return i.c.Call(ctx, methodEnterChatroom, roomRequest{RoomUUID: room}, nil)
}

func (i *IMClient) ExitChatroom(ctx context.Context) error {
	return i.c.Call(ctx, methodExitChatroom, nil, nil)
}

type memberRequest struct {
	RoomUUID domain.RoomUUID `json:"roomUuid"`
	UserUUID domain.UserUUID `json:"userUuid"`
	Granted  *bool           `json:"granted,omitempty"`
}

type ShareClient struct{ c Caller }

func (s *ShareClient) ShareScreen(ctx context.Context, room domain.RoomUUID, user domain.UserUUID) error {
	return s.c.Call(ctx, methodShareScreen, memberRequest{RoomUUID: room, UserUUID: user}, nil)
}

func (s *ShareClient) FinishShareScreen(ctx context.Context, room domain.RoomUUID, user domain.UserUUID) error {
	return s.c.Call(ctx, methodFinishShare, memberRequest{RoomUUID: room, UserUUID: user}, nil)
}

func (s *ShareClient) GrantPermission(ctx context.Context, room domain.RoomUUID, user domain.UserUUID, granted bool) error {
	return s.c.Call(ctx, methodGrantShare, memberRequest{RoomUUID: room, UserUUID: user, Granted: &granted}, nil)
}

// BoardClient covers the whiteboard. SetEnableDraw only flips local state.
type BoardClient struct {
	c Caller

	mu      sync.Mutex
	drawing bool
}

func (b *BoardClient) GrantPermission(ctx context.Context, room domain.RoomUUID, user domain.UserUUID, granted bool) error {
	return b.c.Call(ctx, methodGrantBoard, memberRequest{RoomUUID: room, UserUUID: user, Granted: &granted}, nil)
}

func (b *BoardClient) SetEnableDraw(_ context.Context, enabled bool) error {
	b.mu.Lock()
	b.drawing = enabled
	b.mu.Unlock()
	log.Info().Str("module", "backend.board").Bool("enabled", enabled).Msg("whiteboard drawing toggled")
	return nil
}

func (b *BoardClient) Drawing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drawing
}

// RTCSignalClient exchanges session descriptions for the media channel.
type RTCSignalClient struct{ c Caller }

type negotiateRequest struct {
	Channel domain.RoomUUID `json:"channel"`
	UID     uint64          `json:"uid"`
	SDP     string          `json:"sdp"`
}

type negotiateResponse struct {
	SDP string `json:"sdp"`
}

func (s *RTCSignalClient) Negotiate(ctx context.Context, channel domain.RoomUUID, uid uint64, offer string) (string, error) {
	var resp negotiateResponse
	if err := s.c.Call(ctx, methodRTCNegotiate, negotiateRequest{Channel: channel, UID: uid, SDP: offer}, &resp); err != nil {
		return "", err
	}
	return resp.SDP, nil
}

func (s *RTCSignalClient) Leave(ctx context.Context, channel domain.RoomUUID) error {
	return s.c.Call(ctx, methodRTCLeave, roomRequest{RoomUUID: channel}, nil)
}
