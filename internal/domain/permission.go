package domain

type Capability string

const (
	CapAudio      Capability = "audio"
	CapVideo      Capability = "video"
	CapSubVideo   Capability = "sub_video"
	CapWhiteboard Capability = "whiteboard"
	CapRoomState  Capability = "room_state"
	CapHandsUp    Capability = "hands_up"
)

func (c Capability) Valid() bool {
	switch c {
	case CapAudio, CapVideo, CapSubVideo, CapWhiteboard, CapRoomState, CapHandsUp:
		return true
	}
	return false
}

// Grant is one cell of the permission matrix.
type Grant int

const (
	GrantNone Grant = iota
	GrantOwn
	GrantAll
)

type PermissionMatrix map[Capability]map[Role]Grant

// RoomConfig is fixed for the lifetime of a room.
type RoomConfig struct {
	SceneType   SceneType        `json:"sceneType"`
	Permissions PermissionMatrix `json:"permissions"`
}

func (c RoomConfig) IsBig() bool { return c.SceneType == SceneBig }

// DefaultPermissions is the matrix the backend ships for classrooms that do not override it.
func DefaultPermissions() PermissionMatrix {
	return PermissionMatrix{
		CapAudio:      {RoleHost: GrantAll, RoleAssistant: GrantAll, RoleStudent: GrantOwn},
		CapVideo:      {RoleHost: GrantAll, RoleAssistant: GrantAll, RoleStudent: GrantOwn},
		CapSubVideo:   {RoleHost: GrantAll, RoleStudent: GrantOwn},
		CapWhiteboard: {RoleHost: GrantAll, RoleAssistant: GrantAll},
		CapRoomState:  {RoleHost: GrantOwn},
		CapHandsUp:    {RoleHost: GrantAll, RoleStudent: GrantOwn},
	}
}
