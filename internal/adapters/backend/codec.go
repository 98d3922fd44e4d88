package backend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/dkeye/Classroom/internal/domain"
)

// Frame is the envelope of every message on the backend link.
// Requests and responses share ID; pushes carry no ID.
type Frame struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Code int             `json:"code,omitempty"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

const typeResponse = "response"

// Push types on the wire.
const (
	pushRoomState       = "room.state"
	pushMemberJoin      = "member.join"
	pushMemberLeave     = "member.leave"
	pushMemberProperty  = "member.property"
	pushStreamChange    = "stream.change"
	pushMuteAllAudio    = "room.mute_all_audio"
	pushPermissionGrant = "permission.grant"
	pushNetworkQuality  = "rtc.network_quality"
)

func encodeRequest(id, method string, payload any) ([]byte, error) {
	f := Frame{ID: id, Type: method}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", method, err)
		}
		f.Data = data
	}
	return json.Marshal(f)
}

func decodeFrame(b []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(b, &f); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	if f.Type == "" {
		return Frame{}, fmt.Errorf("decode frame: missing type")
	}
	return f, nil
}

// responseError turns a non-OK response into a classified RemoteError.
func responseError(f Frame) error {
	if f.Code == domain.CodeOK {
		return nil
	}
	return domain.NewRemoteError(f.Code, f.Msg)
}

type roomStateWire struct {
	RoomUUID   domain.RoomUUID `json:"roomUuid"`
	Step       int             `json:"step"`
	DurationMs int64           `json:"duration"`
}

type entryWire struct {
	Room       domain.Room       `json:"room"`
	Step       int               `json:"step"`
	DurationMs int64             `json:"duration"`
	Members    []domain.Member   `json:"members"`
	SelfUUID   domain.UserUUID   `json:"selfUuid"`
	Config     domain.RoomConfig `json:"config"`
}

func (w entryWire) snapshot() domain.EntrySnapshot {
	return domain.EntrySnapshot{
		Room:     w.Room,
		Step:     domain.RoomStep(w.Step),
		Duration: time.Duration(w.DurationMs) * time.Millisecond,
		Members:  w.Members,
		SelfUUID: w.SelfUUID,
		Config:   w.Config,
	}
}

// decodePush maps an unsolicited frame onto a domain push event.
func decodePush(f Frame) (domain.PushEvent, error) {
	var (
		ev  domain.PushEvent
		err error
	)
	switch f.Type {
	case pushRoomState:
		var w roomStateWire
		err = json.Unmarshal(f.Data, &w)
		ev = domain.RoomStatePush{
			RoomUUID: w.RoomUUID,
			Step:     domain.RoomStep(w.Step),
			Duration: time.Duration(w.DurationMs) * time.Millisecond,
		}
	case pushMemberJoin:
		var p domain.MemberJoinPush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	case pushMemberLeave:
		var p domain.MemberLeavePush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	case pushMemberProperty:
		var p domain.MemberPropertyPush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	case pushStreamChange:
		var p domain.StreamChangePush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	case pushMuteAllAudio:
		var p domain.MuteAllAudioPush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	case pushPermissionGrant:
		var p domain.PermissionGrantPush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	case pushNetworkQuality:
		var p domain.NetworkQualityPush
		err = json.Unmarshal(f.Data, &p)
		ev = p
	default:
		return nil, fmt.Errorf("unknown push %q", f.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Type, err)
	}
	return ev, nil
}
