package signal

import (
	"sync"

	"golang.org/x/time/rate"
)

// IntentLimiter throttles UI intents per client token.
type IntentLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewIntentLimiter(perSecond float64, burst int) *IntentLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IntentLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *IntentLimiter) Allow(token string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[token]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[token] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Forget drops the bucket of a client.
func (l *IntentLimiter) Forget(token string) {
	l.mu.Lock()
	delete(l.limiters, token)
	l.mu.Unlock()
}
