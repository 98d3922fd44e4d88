package signal

import (
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/app/session"
)

type frameSender interface {
	TrySend(frame []byte) error
}

// Frame is what the UI receives.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func sendFrame(c frameSender, typ string, data any) {
	b, err := json.Marshal(Frame{Type: typ, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("type", typ).Msg("marshal frame")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("type", typ).Msg("frame dropped")
	}
}

func relay[T any](ch *event.Channel[T], c frameSender) *event.Subscription {
	name := ch.Name()
	return ch.Subscribe(func(ev T) { sendFrame(c, name, ev) })
}

// forward subscribes c to every channel of the session bus.
func (ctl *StreamController) forward(sess *session.Session, c frameSender) func() {
	b := sess.Bus
	subs := []*event.Subscription{
		relay(b.RoomState, c),
		relay(b.MemberJoin, c),
		relay(b.MemberLeave, c),
		relay(b.PropertyChange, c),
		relay(b.StreamChange, c),
		relay(b.PermissionGrant, c),
		relay(b.MuteAllAudio, c),
		relay(b.NetworkQuality, c),
	}
	return func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
}
