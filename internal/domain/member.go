package domain

type Role string

const (
	RoleHost      Role = "host"
	RoleAssistant Role = "assistant"
	RoleStudent   Role = "broadcaster" // backend wire value for students
	RoleObserver  Role = "observer"
)

func (r Role) IsHost() bool { return r == RoleHost }

type HandsUpState int

const (
	HandsUpIdle HandsUpState = iota
	HandsUpRaised
	HandsUpAccepted
	HandsUpRejected
)

func (s HandsUpState) String() string {
	switch s {
	case HandsUpRaised:
		return "raised"
	case HandsUpAccepted:
		return "accepted"
	case HandsUpRejected:
		return "rejected"
	default:
		return "idle"
	}
}

// MemberProperties is the media and permission state of one participant.
type MemberProperties struct {
	HasAudio           bool         `json:"hasAudio"`
	HasVideo           bool         `json:"hasVideo"`
	HasSubVideo        bool         `json:"hasSubVideo"`
	GrantedWhiteboard  bool         `json:"grantedWhiteboard"`
	GrantedScreenShare bool         `json:"grantedScreenShare"`
	HandsUp            HandsUpState `json:"handsUp"`
	OnStage            bool         `json:"onStage"`
}

// Member represents user's participation meta for a room.
// No transport or lifecycle logic here.
type Member struct {
	UserUUID    UserUUID         `json:"userUuid"`
	Role        Role             `json:"role"`
	DisplayName string           `json:"userName"`
	RTCUid      uint64           `json:"rtcUid"`
	IsSelf      bool             `json:"isSelf"`
	Properties  MemberProperties `json:"properties"`
}

// PropertyDelta is a partial update of MemberProperties. Nil fields are untouched.
// By names the operator that caused the change when the backend reports it.
type PropertyDelta struct {
	HasAudio           *bool         `json:"hasAudio,omitempty"`
	HasVideo           *bool         `json:"hasVideo,omitempty"`
	HasSubVideo        *bool         `json:"hasSubVideo,omitempty"`
	GrantedWhiteboard  *bool         `json:"grantedWhiteboard,omitempty"`
	GrantedScreenShare *bool         `json:"grantedScreenShare,omitempty"`
	HandsUp            *HandsUpState `json:"handsUp,omitempty"`
	OnStage            *bool         `json:"onStage,omitempty"`
	By                 UserUUID      `json:"by,omitempty"`
}

func Bool(v bool) *bool { return &v }

func HandsUp(s HandsUpState) *HandsUpState { return &s }

// IsEmpty reports whether the delta changes nothing.
func (d PropertyDelta) IsEmpty() bool {
	return d.HasAudio == nil && d.HasVideo == nil && d.HasSubVideo == nil &&
		d.GrantedWhiteboard == nil && d.GrantedScreenShare == nil &&
		d.HandsUp == nil && d.OnStage == nil
}

// Apply merges d into p and returns the subset of d that actually changed p.
func (p *MemberProperties) Apply(d PropertyDelta) PropertyDelta {
	eff := PropertyDelta{By: d.By}
	setBool := func(dst *bool, v *bool, out **bool) {
		if v != nil && *dst != *v {
			*dst = *v
			*out = Bool(*v)
		}
	}
	setBool(&p.HasAudio, d.HasAudio, &eff.HasAudio)
	setBool(&p.HasVideo, d.HasVideo, &eff.HasVideo)
	setBool(&p.HasSubVideo, d.HasSubVideo, &eff.HasSubVideo)
	setBool(&p.GrantedWhiteboard, d.GrantedWhiteboard, &eff.GrantedWhiteboard)
	setBool(&p.GrantedScreenShare, d.GrantedScreenShare, &eff.GrantedScreenShare)
	setBool(&p.OnStage, d.OnStage, &eff.OnStage)
	if d.HandsUp != nil && p.HandsUp != *d.HandsUp {
		p.HandsUp = *d.HandsUp
		eff.HandsUp = HandsUp(*d.HandsUp)
	}
	return eff
}

// Diff returns the delta that turns p into next.
func (p MemberProperties) Diff(next MemberProperties) PropertyDelta {
	cp := p
	return cp.Apply(PropertyDelta{
		HasAudio:           Bool(next.HasAudio),
		HasVideo:           Bool(next.HasVideo),
		HasSubVideo:        Bool(next.HasSubVideo),
		GrantedWhiteboard:  Bool(next.GrantedWhiteboard),
		GrantedScreenShare: Bool(next.GrantedScreenShare),
		HandsUp:            HandsUp(next.HandsUp),
		OnStage:            Bool(next.OnStage),
	})
}

// MediaFlag returns the current value of the media property behind capability c.
func (p MemberProperties) MediaFlag(c Capability) (bool, bool) {
	switch c {
	case CapAudio:
		return p.HasAudio, true
	case CapVideo:
		return p.HasVideo, true
	case CapSubVideo:
		return p.HasSubVideo, true
	case CapWhiteboard:
		return p.GrantedWhiteboard, true
	default:
		return false, false
	}
}

// MediaDelta builds the delta setting the media property behind capability c.
func MediaDelta(c Capability, v bool) (PropertyDelta, bool) {
	switch c {
	case CapAudio:
		return PropertyDelta{HasAudio: Bool(v)}, true
	case CapVideo:
		return PropertyDelta{HasVideo: Bool(v)}, true
	case CapSubVideo:
		return PropertyDelta{HasSubVideo: Bool(v)}, true
	default:
		return PropertyDelta{}, false
	}
}

// PropertyKey names a member property on the backend.
type PropertyKey string

const (
	KeyAudio    PropertyKey = "audio"
	KeyVideo    PropertyKey = "video"
	KeySubVideo PropertyKey = "subVideo"
	KeyHandsUp  PropertyKey = "handsUp"
	KeyOnStage  PropertyKey = "onStage"
)

// Backend values for open/close style properties.
const (
	ValueClose = 0
	ValueOpen  = 1
)

func OpenClose(v bool) int {
	if v {
		return ValueOpen
	}
	return ValueClose
}

// PropertyKeyFor maps a media capability to its backend key.
func PropertyKeyFor(c Capability) (PropertyKey, bool) {
	switch c {
	case CapAudio:
		return KeyAudio, true
	case CapVideo:
		return KeyVideo, true
	case CapSubVideo:
		return KeySubVideo, true
	default:
		return "", false
	}
}
