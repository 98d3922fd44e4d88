// Package roster holds the authoritative in-memory member list of a session.
package roster

import (
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/domain"
)

// Store is a single-writer registry keyed by user uuid.
// Mutations are serialized together with the events they emit, so subscribers
// observe changes in mutation order. Reads return copies.
type Store struct {
	writeMu sync.Mutex

	mu      sync.RWMutex
	members map[domain.UserUUID]domain.Member
	self    domain.UserUUID

	bus *event.Bus
}

func New(bus *event.Bus) *Store {
	return &Store{
		members: make(map[domain.UserUUID]domain.Member),
		bus:     bus,
	}
}

// Init replaces the roster with an entry snapshot without emitting events.
func (s *Store) Init(members []domain.Member, self domain.UserUUID) error {
	if self == "" {
		return domain.ErrUserUUIDEmpty
	}
	next := make(map[domain.UserUUID]domain.Member, len(members))
	for _, m := range members {
		m.IsSelf = m.UserUUID == self
		next[m.UserUUID] = m
	}
	if _, ok := next[self]; !ok {
		return domain.ErrMemberNotFound
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	s.members = next
	s.self = self
	s.mu.Unlock()
	log.Info().Str("module", "app.roster").Str("self", string(self)).Int("members", len(next)).Msg("roster initialized")
	return nil
}

// ApplyJoin merges members and returns the ones that were not known yet.
func (s *Store) ApplyJoin(members []domain.Member) []domain.Member {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	var added []domain.Member
	for _, m := range members {
		if m.UserUUID == "" {
			continue
		}
		if _, ok := s.members[m.UserUUID]; ok {
			continue
		}
		m.IsSelf = m.UserUUID == s.self
		s.members[m.UserUUID] = m
		added = append(added, m)
	}
	s.mu.Unlock()

	if len(added) == 0 {
		return nil
	}
	log.Info().Str("module", "app.roster").Int("count", len(added)).Msg("members joined")
	s.publishJoin(added)
	return added
}

// ApplyPropertyDelta merges delta into the member's properties. It reports the
// member after the change and the part of delta that actually changed something.
// Unknown members are ignored: they may already have left.
func (s *Store) ApplyPropertyDelta(uuid domain.UserUUID, delta domain.PropertyDelta) (domain.Member, domain.PropertyDelta, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	m, ok := s.members[uuid]
	if !ok {
		s.mu.Unlock()
		log.Warn().Str("module", "app.roster").Str("user", string(uuid)).Msg("property delta for unknown member ignored")
		return domain.Member{}, domain.PropertyDelta{}, false
	}
	eff := m.Properties.Apply(delta)
	s.members[uuid] = m

	// Only one screen share at a time: the newest report wins.
	var cleared []domain.Member
	if eff.HasSubVideo != nil && *eff.HasSubVideo {
		for id, other := range s.members {
			if id == uuid || !other.Properties.HasSubVideo {
				continue
			}
			other.Properties.HasSubVideo = false
			s.members[id] = other
			cleared = append(cleared, other)
		}
	}
	s.mu.Unlock()

	for _, c := range cleared {
		log.Warn().Str("module", "app.roster").Str("user", string(c.UserUUID)).Str("sharer", string(uuid)).Msg("screen share superseded")
		s.publishProperty(c, domain.PropertyDelta{HasSubVideo: domain.Bool(false), By: delta.By})
	}
	if eff.IsEmpty() {
		return m, eff, true
	}
	s.publishProperty(m, eff)
	return m, eff, true
}

// Remove drops a member that left or was kicked. The self entry is never removed.
func (s *Store) Remove(uuid domain.UserUUID) (domain.Member, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	m, ok := s.members[uuid]
	if !ok || uuid == s.self {
		s.mu.Unlock()
		if ok {
			log.Warn().Str("module", "app.roster").Str("user", string(uuid)).Msg("refusing to remove self")
		}
		return domain.Member{}, false
	}
	delete(s.members, uuid)
	s.mu.Unlock()

	log.Info().Str("module", "app.roster").Str("user", string(uuid)).Msg("member left")
	s.publishLeave(m)
	return m, true
}

// Reconcile replaces the roster with a full snapshot, emitting the joins,
// leaves and property changes needed to get there.
func (s *Store) Reconcile(members []domain.Member) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	incoming := make(map[domain.UserUUID]domain.Member, len(members))
	for _, m := range members {
		m.IsSelf = m.UserUUID == s.self
		incoming[m.UserUUID] = m
	}
	if _, ok := incoming[s.self]; !ok {
		s.mu.Unlock()
		return domain.ErrMemberNotFound
	}

	type change struct {
		member domain.Member
		delta  domain.PropertyDelta
	}
	var (
		left    []domain.Member
		added   []domain.Member
		changed []change
	)
	for id, old := range s.members {
		if _, ok := incoming[id]; !ok {
			left = append(left, old)
		}
	}
	for id, m := range incoming {
		old, ok := s.members[id]
		if !ok {
			added = append(added, m)
			continue
		}
		if d := old.Properties.Diff(m.Properties); !d.IsEmpty() {
			changed = append(changed, change{member: m, delta: d})
		}
	}
	s.members = incoming
	s.mu.Unlock()

	for _, m := range left {
		s.publishLeave(m)
	}
	if len(added) > 0 {
		sortMembers(added)
		s.publishJoin(added)
	}
	for _, c := range changed {
		s.publishProperty(c.member, c.delta)
	}
	log.Info().Str("module", "app.roster").
		Int("joined", len(added)).Int("left", len(left)).Int("changed", len(changed)).
		Msg("roster reconciled")
	return nil
}

// GetLocal returns the self member, or false before Init.
func (s *Store) GetLocal() (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.self == "" {
		return domain.Member{}, false
	}
	m, ok := s.members[s.self]
	return m, ok
}

func (s *Store) Get(uuid domain.UserUUID) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[uuid]
	return m, ok
}

func (s *Store) GetByRTCUid(uid uint64) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.RTCUid == uid {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (s *Store) IsSelf(uuid domain.UserUUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.self != "" && s.self == uuid
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Snapshot copies the roster, ordered by uuid.
func (s *Store) Snapshot() []domain.Member {
	s.mu.RLock()
	out := make([]domain.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	s.mu.RUnlock()
	sortMembers(out)
	return out
}

// ScreenSharer returns the member currently sharing a screen, if any.
func (s *Store) ScreenSharer() (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.Properties.HasSubVideo {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (s *Store) publishJoin(members []domain.Member) {
	if s.bus != nil {
		s.bus.MemberJoin.Publish(event.MemberJoinEvent{Members: members})
	}
}

func (s *Store) publishLeave(m domain.Member) {
	if s.bus != nil {
		s.bus.MemberLeave.Publish(event.MemberLeaveEvent{Member: m})
	}
}

func (s *Store) publishProperty(m domain.Member, d domain.PropertyDelta) {
	if s.bus != nil {
		s.bus.PropertyChange.Publish(event.PropertyChangeEvent{Member: m, Delta: d})
	}
}

func sortMembers(ms []domain.Member) {
	slices.SortFunc(ms, func(a, b domain.Member) int {
		return strings.Compare(string(a.UserUUID), string(b.UserUUID))
	})
}
