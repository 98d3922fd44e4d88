package core

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/Classroom/internal/domain"
)

// AuthService exchanges a user uuid/token pair for session credentials.
type AuthService interface {
	Login(ctx context.Context, uuid, token string) (domain.Credentials, error)
}

// MemberService owns remote roster mutations.
type MemberService interface {
	JoinClassroom(ctx context.Context, opts domain.ClassOptions) (domain.EntrySnapshot, error)
	UpdateProperty(ctx context.Context, room domain.RoomUUID, user domain.UserUUID, key domain.PropertyKey, value int) error
}

// IMService is the chat side of a classroom. Only its lifecycle matters here.
type IMService interface {
	EnterChatroom(ctx context.Context, room domain.RoomUUID) error
	ExitChatroom(ctx context.Context) error
}

// PushHandler receives backend push events.
type PushHandler interface {
	HandlePush(ev domain.PushEvent)
}

type PushHandlerFunc func(ev domain.PushEvent)

func (f PushHandlerFunc) HandlePush(ev domain.PushEvent) { f(ev) }
