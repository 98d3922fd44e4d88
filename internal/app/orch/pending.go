package orch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/Classroom/internal/domain"
)

// DefaultPendingTTL bounds how long a provisional action blocks duplicates
// when the confirming push never arrives.
const DefaultPendingTTL = 15 * time.Second

// PendingAction is an in-flight request for one (user, capability) pair.
type PendingAction struct {
	ID         uuid.UUID         `json:"id"`
	UserUUID   domain.UserUUID   `json:"userUuid"`
	Capability domain.Capability `json:"capability"`
	Desired    bool              `json:"desired"`
	StartedAt  time.Time         `json:"startedAt"`
}

type pendingKey struct {
	user domain.UserUUID
	cap  domain.Capability
}

type pendingSet struct {
	mu      sync.Mutex
	actions map[pendingKey]PendingAction
	ttl     time.Duration
	now     func() time.Time
}

func (p *pendingSet) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// begin reserves (user, c). A live reservation makes it fail with ErrActionPending.
func (p *pendingSet) begin(user domain.UserUUID, c domain.Capability, desired bool) (PendingAction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.actions == nil {
		p.actions = make(map[pendingKey]PendingAction)
	}
	now := p.clock()
	k := pendingKey{user: user, cap: c}
	if cur, ok := p.actions[k]; ok && now.Sub(cur.StartedAt) < p.ttlOrDefault() {
		return PendingAction{}, domain.ErrActionPending
	}
	a := PendingAction{ID: uuid.New(), UserUUID: user, Capability: c, Desired: desired, StartedAt: now}
	p.actions[k] = a
	return a, nil
}

// end drops a only if it is still the current action for its key.
func (p *pendingSet) end(a PendingAction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := pendingKey{user: a.UserUUID, cap: a.Capability}
	if cur, ok := p.actions[k]; ok && cur.ID == a.ID {
		delete(p.actions, k)
	}
}

// resolve drops whatever is pending for (user, c), reporting whether something was.
func (p *pendingSet) resolve(user domain.UserUUID, c domain.Capability) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := pendingKey{user: user, cap: c}
	_, ok := p.actions[k]
	delete(p.actions, k)
	return ok
}

func (p *pendingSet) list() []PendingAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.clock()
	out := make([]PendingAction, 0, len(p.actions))
	for k, a := range p.actions {
		if now.Sub(a.StartedAt) >= p.ttlOrDefault() {
			delete(p.actions, k)
			continue
		}
		out = append(out, a)
	}
	return out
}

func (p *pendingSet) ttlOrDefault() time.Duration {
	if p.ttl > 0 {
		return p.ttl
	}
	return DefaultPendingTTL
}
