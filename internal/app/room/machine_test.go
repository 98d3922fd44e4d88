package room

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkeye/Classroom/internal/app/event"
	"github.com/dkeye/Classroom/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newMachine(t *testing.T) (*Machine, *event.Bus, *fakeClock) {
	t.Helper()
	bus := event.NewBus(event.Options{})
	t.Cleanup(bus.Close)
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := New(bus, WithClock(clock.Now))
	m.Init(domain.Room{UUID: "r1", Name: "Physics"}, domain.StepIdle, 0)
	return m, bus, clock
}

func TestMachine_TransitionTable(t *testing.T) {
	const other = domain.RoomStep(7)
	tests := []struct {
		from domain.RoomStep
		step domain.RoomStep
		want domain.RoomState
	}{
		{domain.StepIdle, domain.StepStart, domain.RoomStarted},
		{domain.StepIdle, domain.StepEnd, domain.RoomEnded},
		{domain.StepIdle, other, domain.RoomNotStarted},
		{domain.StepStart, domain.StepStart, domain.RoomStarted},
		{domain.StepStart, domain.StepEnd, domain.RoomEnded},
		{domain.StepStart, other, domain.RoomStarted},
		{domain.StepEnd, domain.StepStart, domain.RoomEnded},
		{domain.StepEnd, domain.StepEnd, domain.RoomEnded},
		{domain.StepEnd, other, domain.RoomEnded},
	}
	for _, tt := range tests {
		m := New(nil)
		m.Init(domain.Room{UUID: "r1"}, tt.from, 0)
		m.Apply(tt.step, 0)
		if got := m.State(); got != tt.want {
			t.Errorf("from step %d apply %d: got %v, want %v", tt.from, tt.step, got, tt.want)
		}
	}
}

func TestMachine_MonotonicSequence(t *testing.T) {
	m, bus, _ := newMachine(t)

	var mu sync.Mutex
	visited := []domain.RoomState{m.State()}
	bus.RoomState.Subscribe(func(ev event.RoomStateEvent) {
		mu.Lock()
		visited = append(visited, ev.Room.State)
		mu.Unlock()
	})

	other := domain.RoomStep(5)
	for _, step := range []domain.RoomStep{other, domain.StepStart, other, domain.StepEnd, domain.StepStart} {
		m.Apply(step, 0)
	}
	bus.Sync()

	if m.State() != domain.RoomEnded {
		t.Fatalf("final state %v, want ended", m.State())
	}
	mu.Lock()
	defer mu.Unlock()
	want := []domain.RoomState{domain.RoomNotStarted, domain.RoomStarted, domain.RoomEnded}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, want %v", visited, want)
		}
	}
}

func TestMachine_Elapsed(t *testing.T) {
	m, _, clock := newMachine(t)
	if m.Elapsed() != 0 {
		t.Fatal("elapsed must be zero before start")
	}
	m.Apply(domain.StepStart, 90*time.Second)
	clock.Advance(30 * time.Second)
	if got := m.Elapsed(); got != 2*time.Minute {
		t.Fatalf("elapsed %v, want 2m", got)
	}
	m.Apply(domain.StepEnd, 0)
	clock.Advance(time.Hour)
	if got := m.Elapsed(); got != 2*time.Minute {
		t.Fatalf("elapsed after end %v, want frozen 2m", got)
	}
}

func TestMachine_InitMidClass(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	m := New(nil, WithClock(clock.Now))
	m.Init(domain.Room{UUID: "r1"}, domain.StepStart, 10*time.Minute)
	clock.Advance(time.Minute)
	if m.State() != domain.RoomStarted || m.CanStart() {
		t.Fatalf("state %v, CanStart %v", m.State(), m.CanStart())
	}
	if got := m.Elapsed(); got != 11*time.Minute {
		t.Fatalf("elapsed %v, want 11m", got)
	}
}

func TestMachine_EndedHookRunsOnce(t *testing.T) {
	m, _, _ := newMachine(t)
	var calls atomic.Int32
	m.OnEnded(func(r domain.Room) {
		if r.State != domain.RoomEnded {
			t.Errorf("hook saw state %v", r.State)
		}
		calls.Add(1)
	})
	m.Apply(domain.StepStart, 0)
	m.Apply(domain.StepEnd, 0)
	m.Apply(domain.StepEnd, 0)
	if calls.Load() != 1 {
		t.Fatalf("hook ran %d times, want 1", calls.Load())
	}
}
