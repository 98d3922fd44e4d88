package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/core"
	"github.com/dkeye/Classroom/internal/domain"
)

// ShareCaptureConfig is what every local screen share is captured with.
var ShareCaptureConfig = core.CaptureConfig{
	Profile:       core.VideoProfileHD1080p,
	ContentPrefer: core.ContentPreferDetails,
}

type captureSession struct {
	handle core.CaptureHandle
	user   domain.UserUUID
}

// ShareScreen asks the platform for capture consent, announces the share and
// starts capturing. A refused prompt leaves everything untouched.
func (o *Orchestrator) ShareScreen(ctx context.Context) error {
	self, err := o.self()
	if err != nil {
		return err
	}
	if err := o.checkCanShare(self, self.UserUUID); err != nil {
		return err
	}

	handle, err := o.Capture.RequestConsent(ctx)
	if err != nil {
		log.Info().Err(err).Str("module", "orch.capture").Msg("capture consent not granted")
		if errors.Is(err, domain.ErrCaptureDenied) {
			return err
		}
		return fmt.Errorf("capture consent: %w", err)
	}

	if err := o.StartScreenShare(ctx, self.UserUUID); err != nil {
		if stopErr := handle.Stop(); stopErr != nil {
			log.Warn().Err(stopErr).Str("module", "orch.capture").Msg("release unused capture")
		}
		return err
	}

	cs := &captureSession{handle: handle, user: self.UserUUID}
	o.setCapture(cs)
	if err := handle.Start(ShareCaptureConfig, func() { o.onCaptureTerminated(cs) }); err != nil {
		log.Error().Err(err).Str("module", "orch.capture").Msg("capture failed to start, rolling back share")
		if err := o.StopScreenShare(context.WithoutCancel(ctx), self.UserUUID); err != nil {
			log.Error().Err(err).Str("module", "orch.capture").Msg("share rollback failed")
		}
		return fmt.Errorf("start capture: %w", err)
	}
	log.Info().Str("module", "orch.capture").Str("profile", string(ShareCaptureConfig.Profile)).Msg("capture started")
	return nil
}

// Capturing reports whether a local capture is running.
func (o *Orchestrator) Capturing() bool {
	o.shareMu.Lock()
	defer o.shareMu.Unlock()
	return o.capture != nil
}

func (o *Orchestrator) setCapture(cs *captureSession) {
	o.shareMu.Lock()
	prev := o.capture
	o.capture = cs
	o.shareMu.Unlock()
	if prev != nil {
		_ = prev.handle.Stop()
	}
}

// takeCapture clears cs if it is still the active capture.
func (o *Orchestrator) takeCapture(cs *captureSession) bool {
	o.shareMu.Lock()
	defer o.shareMu.Unlock()
	if o.capture != cs {
		return false
	}
	o.capture = nil
	return true
}

func (o *Orchestrator) releaseCapture() {
	o.shareMu.Lock()
	cs := o.capture
	o.capture = nil
	o.shareMu.Unlock()
	if cs == nil {
		return
	}
	if err := cs.handle.Stop(); err != nil {
		log.Warn().Err(err).Str("module", "orch.capture").Msg("capture stop failed")
	}
}

// onCaptureTerminated handles the platform ending a capture on its own.
func (o *Orchestrator) onCaptureTerminated(cs *captureSession) {
	if !o.takeCapture(cs) {
		return
	}
	log.Info().Str("module", "orch.capture").Str("user", string(cs.user)).Msg("capture terminated by platform")
	if !o.alive() {
		return
	}
	ctx, cancel := o.background()
	defer cancel()
	if err := o.StopScreenShare(ctx, cs.user); err != nil {
		log.Warn().Err(err).Str("module", "orch.capture").Msg("stop share after termination")
	}
}
