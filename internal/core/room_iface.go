package core

//go:generate mockgen -source=room_iface.go -destination=mocks/room_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/Classroom/internal/domain"
)

// RoomService is the remote side of the room lifecycle.
// Transitions it requests are only observed locally through room-state pushes.
type RoomService interface {
	StartClass(ctx context.Context, room domain.RoomUUID) error
	FinishClass(ctx context.Context, room domain.RoomUUID) error
	Snapshot(ctx context.Context, room domain.RoomUUID) (domain.EntrySnapshot, error)
}
