package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/domain"
)

// ApplyPermissionGrant records the backend's canonical answer to a grant.
func (o *Orchestrator) ApplyPermissionGrant(p domain.PermissionGrantPush) {
	d := domain.PropertyDelta{By: p.By}
	switch p.Capability {
	case domain.CapWhiteboard:
		d.GrantedWhiteboard = domain.Bool(p.Granted)
	case domain.CapSubVideo:
		d.GrantedScreenShare = domain.Bool(p.Granted)
	default:
		log.Warn().Str("module", "orch").Str("capability", string(p.Capability)).Msg("grant push for unsupported capability")
		return
	}
	o.pending.resolve(p.UserUUID, p.Capability)

	m, eff, ok := o.Roster.ApplyPropertyDelta(p.UserUUID, d)
	if !ok || eff.IsEmpty() {
		return
	}
	o.Bus.PermissionGrant.Publish(event.PermissionGrantEvent{Member: m, Capability: p.Capability, Granted: p.Granted})
}

// ApplyStreamChange mirrors a published stream appearing or vanishing.
func (o *Orchestrator) ApplyStreamChange(p domain.StreamChangePush) {
	d, ok := domain.MediaDelta(p.Capability, p.Enabled)
	if !ok {
		return
	}
	m, eff, ok := o.Roster.ApplyPropertyDelta(p.UserUUID, d)
	if !ok || eff.IsEmpty() {
		return
	}
	o.Bus.StreamChange.Publish(event.StreamChangeEvent{Member: m, Capability: p.Capability, Enabled: p.Enabled})
}

func (o *Orchestrator) onPropertyChange(ev event.PropertyChangeEvent) {
	if !ev.Member.IsSelf || !o.alive() {
		return
	}
	ctx, cancel := o.background()
	defer cancel()
	d := ev.Delta

	// Someone else changed our media: follow with the device.
	if d.By != ev.Member.UserUUID {
		if d.HasAudio != nil {
			if err := o.RTC.SetLocalAudioEnabled(ctx, *d.HasAudio); err != nil {
				log.Error().Err(err).Str("module", "orch").Msg("apply moderated audio")
			}
		}
		if d.HasVideo != nil {
			if err := o.RTC.SetLocalVideoEnabled(ctx, *d.HasVideo); err != nil {
				log.Error().Err(err).Str("module", "orch").Msg("apply moderated video")
			}
		}
	}
	if d.GrantedWhiteboard != nil {
		if err := o.Board.SetEnableDraw(ctx, *d.GrantedWhiteboard); err != nil {
			log.Error().Err(err).Str("module", "orch").Msg("toggle whiteboard drawing")
		}
	}
	if d.GrantedScreenShare != nil && !*d.GrantedScreenShare && !o.hasAnyShareGrant(ev.Member) {
		o.StopLocalShare(ctx)
	}
}

// hasAnyShareGrant reports whether m may share without an explicit grant.
func (o *Orchestrator) hasAnyShareGrant(m domain.Member) bool {
	return o.Config.Permissions[domain.CapSubVideo][m.Role] == domain.GrantAll
}

func (o *Orchestrator) onMuteAll(ev event.MuteAllAudioEvent) {
	if !ev.Muted || !o.alive() {
		return
	}
	self, err := o.self()
	if err != nil || self.Role.IsHost() || !self.Properties.HasAudio {
		return
	}
	// The property reaction turns the device off.
	o.Roster.ApplyPropertyDelta(self.UserUUID, domain.PropertyDelta{HasAudio: domain.Bool(false)})
	log.Info().Str("module", "orch").Msg("muted by host")
}
