package orch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app"
	"github.com/dkeye/Classroom/internal/domain"
)

// StartClass asks the backend to start the class. The local state machine
// moves when the room-state push arrives.
func (o *Orchestrator) StartClass(ctx context.Context) error {
	self, err := o.self()
	if err != nil {
		return err
	}
	if _, err := o.authorize(self, self.UserUUID, domain.CapRoomState); err != nil {
		return err
	}
	if !o.Room.CanStart() {
		return nil
	}
	action, err := o.pending.begin(self.UserUUID, domain.CapRoomState, true)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	if err := o.Rooms.StartClass(ctx, o.RoomUUID); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("room", string(o.RoomUUID)).Msg("start class rejected")
		return fmt.Errorf("start class: %w", err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	log.Info().Str("module", "orch").Str("room", string(o.RoomUUID)).Msg("start class requested")
	return nil
}

func (o *Orchestrator) FinishClass(ctx context.Context) error {
	self, err := o.self()
	if err != nil {
		return err
	}
	if _, err := o.authorize(self, self.UserUUID, domain.CapRoomState); err != nil {
		return err
	}
	switch o.Room.State() {
	case domain.RoomNotStarted:
		return domain.ErrClassNotStarted
	case domain.RoomEnded:
		return nil
	}
	action, err := o.pending.begin(self.UserUUID, domain.CapRoomState, false)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	if err := o.Rooms.FinishClass(ctx, o.RoomUUID); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("room", string(o.RoomUUID)).Msg("finish class rejected")
		return fmt.Errorf("finish class: %w", err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	log.Info().Str("module", "orch").Str("room", string(o.RoomUUID)).Msg("finish class requested")
	return nil
}

// RaiseHand raises or lowers the local member's hand.
func (o *Orchestrator) RaiseHand(ctx context.Context, raise bool) error {
	self, err := o.self()
	if err != nil {
		return err
	}
	if _, err := o.authorize(self, self.UserUUID, domain.CapHandsUp); err != nil {
		return err
	}
	if err := o.requireStarted(); err != nil {
		return err
	}
	state := domain.HandsUpIdle
	if raise {
		state = domain.HandsUpRaised
	}
	if self.Properties.HandsUp == state {
		return nil
	}

	action, err := o.pending.begin(self.UserUUID, domain.CapHandsUp, raise)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	if err := o.Members.UpdateProperty(ctx, o.RoomUUID, self.UserUUID, domain.KeyHandsUp, int(state)); err != nil {
		return fmt.Errorf("raise hand: %w", err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	o.Roster.ApplyPropertyDelta(self.UserUUID, domain.PropertyDelta{HandsUp: domain.HandsUp(state), By: self.UserUUID})
	return nil
}

// SetOnStage brings a member on or off the stage of a big room, answering a
// raised hand.
func (o *Orchestrator) SetOnStage(ctx context.Context, target domain.UserUUID, onStage bool) error {
	if !o.Config.IsBig() {
		return fmt.Errorf("stage in %s room: %w", o.Config.SceneType, domain.ErrInvalidCapability)
	}
	self, err := o.self()
	if err != nil {
		return err
	}
	d, err := o.authorize(self, target, domain.CapHandsUp)
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

	action, err := o.pending.begin(target, domain.CapHandsUp, onStage)
	if err != nil {
		return err
	}
	defer o.pending.end(action)

	if err := o.Members.UpdateProperty(ctx, o.RoomUUID, target, domain.KeyOnStage, domain.OpenClose(onStage)); err != nil {
		return fmt.Errorf("set %s on stage: %w", target, err)
	}
	if !o.alive() {
		return domain.ErrStaleSession
	}
	hands := domain.HandsUpIdle
	if onStage {
		hands = domain.HandsUpAccepted
	}
	o.Roster.ApplyPropertyDelta(target, domain.PropertyDelta{
		OnStage: domain.Bool(onStage),
		HandsUp: domain.HandsUp(hands),
		By:      self.UserUUID,
	})
	return nil
}

// onRoomEnded runs once when the class ends: stop sharing, then leave RTC.
func (o *Orchestrator) onRoomEnded(r domain.Room) {
	log.Info().Str("module", "orch").Str("room", string(r.UUID)).Msg("class ended, releasing media")
	ctx, cancel := o.background()
	defer cancel()
	o.StopLocalShare(ctx)
	if err := o.RTC.LeaveChannel(ctx); err != nil {
		log.Warn().Err(err).Str("module", "orch").Msg("rtc leave after class end")
	}
}

// StopLocalShare stops the local member's share if there is one. Errors are logged.
func (o *Orchestrator) StopLocalShare(ctx context.Context) {
	self, err := o.self()
	if err != nil {
		return
	}
	if !self.Properties.HasSubVideo && !o.Capturing() {
		return
	}
	if err := o.StopScreenShare(ctx, self.UserUUID); err != nil {
		log.Warn().Err(err).Str("module", "orch").Msg("stop local share")
	}
}
