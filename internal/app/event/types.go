package event

import "github.com/dkeye/Classroom/internal/domain"

type RoomStateEvent struct {
	Room     domain.Room      `json:"room"`
	Previous domain.RoomState `json:"previous"`
}

type MemberJoinEvent struct {
	Members []domain.Member `json:"members"`
}

type MemberLeaveEvent struct {
	Member domain.Member `json:"member"`
}

// PropertyChangeEvent carries the member after the change and the fields that changed.
type PropertyChangeEvent struct {
	Member domain.Member        `json:"member"`
	Delta  domain.PropertyDelta `json:"delta"`
}

type StreamChangeEvent struct {
	Member     domain.Member     `json:"member"`
	Capability domain.Capability `json:"capability"`
	Enabled    bool              `json:"enabled"`
}

type PermissionGrantEvent struct {
	Member     domain.Member     `json:"member"`
	Capability domain.Capability `json:"capability"`
	Granted    bool              `json:"granted"`
}

type MuteAllAudioEvent struct {
	Muted bool `json:"muted"`
}

type NetworkQualityEvent struct {
	Qualities []domain.NetworkQuality `json:"qualities"`
}
