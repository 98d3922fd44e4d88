package app

import "github.com/dkeye/Classroom/internal/domain"

// Decision is the outcome of a permission evaluation.
type Decision int

const (
	Denied Decision = iota
	OwnOnly
	Any
)

func (d Decision) String() string {
	switch d {
	case OwnOnly:
		return "own_only"
	case Any:
		return "any"
	default:
		return "denied"
	}
}

// Scope says whether the acting member targets itself or somebody else.
type Scope int

const (
	ScopeSelf Scope = iota
	ScopeOther
)

// Evaluate looks up (capability, role) in the room's matrix. It never touches state.
func Evaluate(cfg domain.RoomConfig, c domain.Capability, role domain.Role, scope Scope) Decision {
	roles, ok := cfg.Permissions[c]
	if !ok {
		return Denied
	}
	switch roles[role] {
	case domain.GrantAll:
		return Any
	case domain.GrantOwn:
		if scope == ScopeSelf {
			return OwnOnly
		}
		return Denied
	default:
		return Denied
	}
}

// Allows reports whether d permits acting in scope.
func (d Decision) Allows(scope Scope) bool {
	switch d {
	case Any:
		return true
	case OwnOnly:
		return scope == ScopeSelf
	default:
		return false
	}
}

// ScopeFor derives the scope of acting on target.
func ScopeFor(actor, target domain.UserUUID) Scope {
	if actor == target {
		return ScopeSelf
	}
	return ScopeOther
}
