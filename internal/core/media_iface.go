package core

//go:generate mockgen -source=media_iface.go -destination=mocks/media_mock.go -package=mocks

import (
	"context"

	"github.com/dkeye/Classroom/internal/domain"
)

type RTCService interface {
	JoinChannel(ctx context.Context, channel domain.RoomUUID, uid uint64) error
	// LeaveChannel is safe to call when not joined.
	LeaveChannel(ctx context.Context) error
	SetLocalAudioEnabled(ctx context.Context, enabled bool) error
	SetLocalVideoEnabled(ctx context.Context, enabled bool) error
	SetRemoteAudioEnabled(ctx context.Context, uid uint64, enabled bool) error
	SetRemoteVideoEnabled(ctx context.Context, uid uint64, enabled bool) error
}

type ShareScreenService interface {
	ShareScreen(ctx context.Context, room domain.RoomUUID, user domain.UserUUID) error
	FinishShareScreen(ctx context.Context, room domain.RoomUUID, user domain.UserUUID) error
	GrantPermission(ctx context.Context, room domain.RoomUUID, user domain.UserUUID, granted bool) error
}

type BoardService interface {
	GrantPermission(ctx context.Context, room domain.RoomUUID, user domain.UserUUID, granted bool) error
	SetEnableDraw(ctx context.Context, enabled bool) error
}

type VideoProfile string

const VideoProfileHD1080p VideoProfile = "hd1080p"

type ContentPrefer string

const (
	ContentPreferMotion  ContentPrefer = "motion"
	ContentPreferDetails ContentPrefer = "details"
)

type CaptureConfig struct {
	Profile       VideoProfile
	ContentPrefer ContentPrefer
}

// CaptureHost is the platform side of screen capture: it asks the user for consent.
// A denied or cancelled prompt returns domain.ErrCaptureDenied or the context error.
type CaptureHost interface {
	RequestConsent(ctx context.Context) (CaptureHandle, error)
}

// CaptureHandle is a granted capture. onTerminated fires when the platform ends
// the capture on its own, never after Stop.
type CaptureHandle interface {
	Start(cfg CaptureConfig, onTerminated func()) error
	Stop() error
}
