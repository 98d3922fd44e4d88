package domain

import "time"

type RoomUUID string

type RoomState int

const (
	RoomNotStarted RoomState = iota
	RoomStarted
	RoomEnded
)

func (s RoomState) String() string {
	switch s {
	case RoomStarted:
		return "started"
	case RoomEnded:
		return "ended"
	default:
		return "not_started"
	}
}

// RoomStep is the step code carried by remote room-state events.
type RoomStep int

const (
	StepIdle  RoomStep = 0
	StepStart RoomStep = 1
	StepEnd   RoomStep = 2
)

type SceneType string

const (
	SceneOneToOne SceneType = "one_to_one"
	SceneSmall    SceneType = "small"
	SceneBig      SceneType = "big"
)

type Room struct {
	UUID    RoomUUID      `json:"roomUuid"`
	Name    string        `json:"roomName"`
	State   RoomState     `json:"state"`
	Elapsed time.Duration `json:"elapsed"`
}

// EntrySnapshot is the consistent state bundle returned on join and on resync.
type EntrySnapshot struct {
	Room     Room          `json:"room"`
	Step     RoomStep      `json:"step"`
	Duration time.Duration `json:"duration"`
	Members  []Member      `json:"members"`
	SelfUUID UserUUID      `json:"selfUuid"`
	Config   RoomConfig    `json:"config"`
}

// ClassOptions are the parameters of entering a class.
type ClassOptions struct {
	RoomUUID  RoomUUID  `json:"roomUuid"`
	RoomName  string    `json:"roomName"`
	UserName  string    `json:"userName"`
	Role      Role      `json:"role"`
	SceneType SceneType `json:"sceneType"`
	Audio     bool      `json:"audio"`
	Video     bool      `json:"video"`
}
