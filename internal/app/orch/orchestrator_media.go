package orch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app"
	"github.com/dkeye/Classroom/internal/domain"
)

// ToggleLocalMedia switches the local microphone or camera. A nil desired negates
// the current value. On failure neither the roster nor the device change.
func (o *Orchestrator) ToggleLocalMedia(ctx context.Context, c domain.Capability, desired *bool) error {
	if !isMediaCapability(c) {
		return domain.ErrInvalidCapability
	}
	self, err := o.self()
	if err != nil {
		return err
	}
	if _, err := o.authorize(self, self.UserUUID, c); err != nil {
		return err
	}

	cur, _ := self.Properties.MediaFlag(c)
	want := !cur
	if desired != nil {
		want = *desired
	}
	if want == cur {
		return nil
	}

	action, err := o.pending.begin(self.UserUUID, c, want)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	key, _ := domain.PropertyKeyFor(c)
	if err := o.Members.UpdateProperty(ctx, o.RoomUUID, self.UserUUID, key, domain.OpenClose(want)); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("capability", string(c)).Bool("enabled", want).Msg("local media toggle rejected")
		return fmt.Errorf("toggle local %s: %w", c, err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}

	if err := o.setLocalDevice(ctx, c, want); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("capability", string(c)).Msg("local device toggle failed")
		if rerr := o.Members.UpdateProperty(ctx, o.RoomUUID, self.UserUUID, key, domain.OpenClose(cur)); rerr != nil {
			log.Warn().Err(rerr).Str("module", "orch").Str("capability", string(c)).Msg("restore remote media state")
		}
		return fmt.Errorf("toggle local %s device: %w", c, err)
	}

	delta, _ := domain.MediaDelta(c, want)
	delta.By = self.UserUUID
	o.Roster.ApplyPropertyDelta(self.UserUUID, delta)
	log.Info().Str("module", "orch").Str("capability", string(c)).Bool("enabled", want).Msg("local media toggled")
	return nil
}

// ToggleRemoteMedia sets another member's audio or video. It needs the Any grant.
func (o *Orchestrator) ToggleRemoteMedia(ctx context.Context, target domain.UserUUID, c domain.Capability, desired bool) error {
	if !isMediaCapability(c) {
		return domain.ErrInvalidCapability
	}
	self, err := o.self()
	if err != nil {
		return err
	}
	if target == self.UserUUID {
		return o.ToggleLocalMedia(ctx, c, &desired)
	}
	if _, err := o.authorize(self, target, c); err != nil {
		return err
	}
	if _, ok := o.Roster.Get(target); !ok {
		return domain.ErrMemberNotFound
	}

	action, err := o.pending.begin(target, c, desired)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	key, _ := domain.PropertyKeyFor(c)
	if err := o.Members.UpdateProperty(ctx, o.RoomUUID, target, key, domain.OpenClose(desired)); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("target", string(target)).Str("capability", string(c)).Msg("remote media toggle rejected")
		return fmt.Errorf("toggle %s of %s: %w", c, target, err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}

	// The confirming push carries the same values; the roster drops it as a no-op.
	delta, _ := domain.MediaDelta(c, desired)
	delta.By = self.UserUUID
	o.Roster.ApplyPropertyDelta(target, delta)
	log.Info().Str("module", "orch").Str("target", string(target)).Str("capability", string(c)).Bool("enabled", desired).Msg("remote media toggled")
	return nil
}

// SetPlayback mutes or resumes this client's playback of another member's
// audio or video. Nothing is sent to the backend and the roster is untouched.
func (o *Orchestrator) SetPlayback(ctx context.Context, target domain.UserUUID, c domain.Capability, enabled bool) error {
	if !isMediaCapability(c) {
		return domain.ErrInvalidCapability
	}
	self, err := o.self()
	if err != nil {
		return err
	}
	if target == self.UserUUID {
		return fmt.Errorf("playback of self: %w", domain.ErrInvalidCapability)
	}
	m, ok := o.Roster.Get(target)
	if !ok {
		return domain.ErrMemberNotFound
	}
	if c == domain.CapAudio {
		err = o.RTC.SetRemoteAudioEnabled(ctx, m.RTCUid, enabled)
	} else {
		err = o.RTC.SetRemoteVideoEnabled(ctx, m.RTCUid, enabled)
	}
	if err != nil {
		return fmt.Errorf("playback %s of %s: %w", c, target, err)
	}
	log.Info().Str("module", "orch").Str("target", string(target)).Uint64("uid", m.RTCUid).Str("capability", string(c)).Bool("enabled", enabled).Msg("playback toggled")
	return nil
}

// GrantCapability grants or revokes whiteboard or screen-share rights. The
// roster only changes when the backend pushes the grant back.
func (o *Orchestrator) GrantCapability(ctx context.Context, target domain.UserUUID, c domain.Capability, granted bool) error {
	if c != domain.CapWhiteboard && c != domain.CapSubVideo {
		return domain.ErrInvalidCapability
	}
	self, err := o.self()
	if err != nil {
		return err
	}
	d, err := o.authorize(self, target, c)
	if err != nil {
		return err
	}
	if d != app.Any {
		return domain.ErrPermissionDenied
	}
	if err := o.requireStarted(); err != nil {
		return err
	}
	if _, ok := o.Roster.Get(target); !ok {
		return domain.ErrMemberNotFound
	}

	action, err := o.pending.begin(target, c, granted)
	if err != nil {
		return err
	}
	if c == domain.CapWhiteboard {
		err = o.Board.GrantPermission(ctx, o.RoomUUID, target, granted)
	} else {
		err = o.Share.GrantPermission(ctx, o.RoomUUID, target, granted)
	}
	if err != nil {
		o.pending.end(action)
		log.Warn().Err(err).Str("module", "orch").Str("target", string(target)).Str("capability", string(c)).Msg("grant rejected")
		return fmt.Errorf("grant %s to %s: %w", c, target, err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	log.Info().Str("module", "orch").Str("target", string(target)).Str("capability", string(c)).Bool("granted", granted).Msg("grant requested")
	return nil
}

// StartScreenShare announces a share for user. Only one share may exist or be
// starting in the room at a time.
func (o *Orchestrator) StartScreenShare(ctx context.Context, user domain.UserUUID) error {
	self, err := o.self()
	if err != nil {
		return err
	}
	if err := o.checkCanShare(self, user); err != nil {
		return err
	}

	if err := o.reserveShare(user); err != nil {
		return err
	}
	defer o.releaseShare()

	if err := o.Share.ShareScreen(ctx, o.RoomUUID, user); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("user", string(user)).Msg("screen share rejected")
		return fmt.Errorf("start screen share: %w", err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	o.Roster.ApplyPropertyDelta(user, domain.PropertyDelta{HasSubVideo: domain.Bool(true), By: self.UserUUID})
	log.Info().Str("module", "orch").Str("user", string(user)).Msg("screen share started")
	return nil
}

// StopScreenShare ends user's share. The local capture is released even if the
// backend refuses.
func (o *Orchestrator) StopScreenShare(ctx context.Context, user domain.UserUUID) error {
	self, err := o.self()
	if err != nil {
		return err
	}
	if _, err := o.authorize(self, user, domain.CapSubVideo); err != nil {
		return err
	}
	m, ok := o.Roster.Get(user)
	if !ok {
		return domain.ErrMemberNotFound
	}
	if user == self.UserUUID {
		o.releaseCapture()
	}
	if !m.Properties.HasSubVideo {
		return nil
	}

	action, err := o.pending.begin(user, domain.CapSubVideo, false)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	if err := o.Share.FinishShareScreen(ctx, o.RoomUUID, user); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("user", string(user)).Msg("screen share stop rejected")
		return fmt.Errorf("stop screen share: %w", err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	o.Roster.ApplyPropertyDelta(user, domain.PropertyDelta{HasSubVideo: domain.Bool(false), By: self.UserUUID})
	log.Info().Str("module", "orch").Str("user", string(user)).Msg("screen share stopped")
	return nil
}

func (o *Orchestrator) checkCanShare(self domain.Member, user domain.UserUUID) error {
	d, err := o.authorize(self, user, domain.CapSubVideo)
	if err != nil {
		return err
	}
	if d != app.Any {
		if m, ok := o.Roster.Get(user); !ok || !m.Properties.GrantedScreenShare {
			return domain.ErrPermissionDenied
		}
	}
	if err := o.requireStarted(); err != nil {
		return err
	}
	if _, ok := o.Roster.Get(user); !ok {
		return domain.ErrMemberNotFound
	}
	return nil
}

// reserveShare takes the room-wide share slot.
func (o *Orchestrator) reserveShare(user domain.UserUUID) error {
	o.shareMu.Lock()
	defer o.shareMu.Unlock()
	if sharer, ok := o.Roster.ScreenSharer(); ok {
		log.Info().Str("module", "orch").Str("user", string(user)).Str("sharer", string(sharer.UserUUID)).Msg("screen share already active")
		return domain.ErrConcurrencyConflict
	}
	if o.shareReserved {
		return domain.ErrConcurrencyConflict
	}
	o.shareReserved = true
	return nil
}

func (o *Orchestrator) releaseShare() {
	o.shareMu.Lock()
	o.shareReserved = false
	o.shareMu.Unlock()
}
