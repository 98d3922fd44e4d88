package orch

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/core/mocks"
	"github.com/dkeye/Classroom/internal/domain"
)

func TestShareScreen_ConsentDenied(t *testing.T) {
	f := newFixture(t, host.UserUUID, domain.StepStart, host, student)
	f.capture.EXPECT().RequestConsent(gomock.Any()).Return(nil, domain.ErrCaptureDenied)

	if err := f.o.ShareScreen(context.Background()); !errors.Is(err, domain.ErrCaptureDenied) {
		t.Fatalf("got %v, want capture denied", err)
	}
	if f.member(t, "t1").Properties.HasSubVideo || f.o.Capturing() {
		t.Fatal("nothing may change on a denied prompt")
	}
}

func TestShareScreen_NotAllowedSkipsPrompt(t *testing.T) {
	f := newFixture(t, student.UserUUID, domain.StepStart, host, student)
	if err := f.o.ShareScreen(context.Background()); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("got %v", err)
	}
}

func TestShareScreen_TerminatedByPlatform(t *testing.T) {
	f := newFixture(t, host.UserUUID, domain.StepStart, host, student)
	handle := mocks.NewMockCaptureHandle(f.ctrl)

	var onTerminated func()
	f.capture.EXPECT().RequestConsent(gomock.Any()).Return(handle, nil)
	f.share.EXPECT().ShareScreen(gomock.Any(), testRoom, domain.UserUUID("t1")).Return(nil)
	handle.EXPECT().Start(ShareCaptureConfig, gomock.Any()).DoAndReturn(func(_ core.CaptureConfig, fn func()) error {
		onTerminated = fn
		return nil
	})

	if err := f.o.ShareScreen(context.Background()); err != nil {
		t.Fatalf("share: %v", err)
	}
	if !f.o.Capturing() || !f.member(t, "t1").Properties.HasSubVideo {
		t.Fatal("share should be active")
	}

	f.share.EXPECT().FinishShareScreen(gomock.Any(), testRoom, domain.UserUUID("t1")).Return(nil)
	onTerminated()
	onTerminated()

	if f.o.Capturing() || f.member(t, "t1").Properties.HasSubVideo {
		t.Fatal("share should be stopped after termination")
	}
}

func TestShareScreen_CaptureStartFailsRollsBack(t *testing.T) {
	f := newFixture(t, host.UserUUID, domain.StepStart, host, student)
	handle := mocks.NewMockCaptureHandle(f.ctrl)

	f.capture.EXPECT().RequestConsent(gomock.Any()).Return(handle, nil)
	f.share.EXPECT().ShareScreen(gomock.Any(), testRoom, domain.UserUUID("t1")).Return(nil)
	handle.EXPECT().Start(ShareCaptureConfig, gomock.Any()).Return(errors.New("display gone"))
	f.share.EXPECT().FinishShareScreen(gomock.Any(), testRoom, domain.UserUUID("t1")).Return(nil)
	handle.EXPECT().Stop().Return(nil)

	if err := f.o.ShareScreen(context.Background()); err == nil {
		t.Fatal("expected capture error")
	}
	if f.o.Capturing() || f.member(t, "t1").Properties.HasSubVideo {
		t.Fatal("share should be rolled back")
	}
}

func TestShareScreen_RemoteRejectReleasesCapture(t *testing.T) {
	f := newFixture(t, host.UserUUID, domain.StepStart, host, student)
	handle := mocks.NewMockCaptureHandle(f.ctrl)

	f.capture.EXPECT().RequestConsent(gomock.Any()).Return(handle, nil)
	f.share.EXPECT().ShareScreen(gomock.Any(), testRoom, domain.UserUUID("t1")).
		Return(domain.NewRemoteError(domain.CodeStreamConcurrencyOut, "stream concurrency out"))
	handle.EXPECT().Stop().Return(nil)

	if err := f.o.ShareScreen(context.Background()); !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("got %v", err)
	}
}
