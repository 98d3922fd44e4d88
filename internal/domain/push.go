package domain

import "time"

// PushEvent is an unsolicited notification from the backend.
type PushEvent interface {
	Kind() string
}

type RoomStatePush struct {
	RoomUUID RoomUUID      `json:"roomUuid"`
	Step     RoomStep      `json:"step"`
	Duration time.Duration `json:"duration"`
}

type MemberJoinPush struct {
	Members []Member `json:"members"`
}

type MemberLeavePush struct {
	UserUUID UserUUID `json:"userUuid"`
}

type MemberPropertyPush struct {
	UserUUID UserUUID      `json:"userUuid"`
	Delta    PropertyDelta `json:"delta"`
}

// StreamChangePush reports that a member's published stream appeared or vanished.
type StreamChangePush struct {
	UserUUID   UserUUID   `json:"userUuid"`
	Capability Capability `json:"capability"`
	Enabled    bool       `json:"enabled"`
}

type MuteAllAudioPush struct {
	Muted bool `json:"muted"`
}

type PermissionGrantPush struct {
	UserUUID   UserUUID   `json:"userUuid"`
	Capability Capability `json:"capability"`
	Granted    bool       `json:"granted"`
	By         UserUUID   `json:"by,omitempty"`
}

type NetworkQuality struct {
	RTCUid uint64 `json:"rtcUid"`
	Up     int    `json:"up"`
	Down   int    `json:"down"`
}

type NetworkQualityPush struct {
	Qualities []NetworkQuality `json:"qualities"`
}

func (RoomStatePush) Kind() string       { return "room_state" }
func (MemberJoinPush) Kind() string      { return "member_join" }
func (MemberLeavePush) Kind() string     { return "member_leave" }
func (MemberPropertyPush) Kind() string  { return "member_property" }
func (StreamChangePush) Kind() string    { return "stream_change" }
func (MuteAllAudioPush) Kind() string    { return "mute_all_audio" }
func (PermissionGrantPush) Kind() string { return "permission_grant" }
func (NetworkQualityPush) Kind() string  { return "network_quality" }
