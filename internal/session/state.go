// Package session owns the in-process view of the running focus session and
// the supervisor that drives its lifecycle.
package session

import (
	"sync"
	"time"

	"github.com/alexanderramin/lockedin/internal/feed"
)

// Snapshot is an immutable copy of the session state. The zero value is Idle.
type Snapshot struct {
	IsBlocking              bool
	SessionID               string
	ScheduleID              string
	ScheduleName            string
	StartTime               time.Time
	EndTime                 time.Time
	BlockedApps             int
	AwaitingEndConfirmation bool
}

// Remaining returns the time left until EndTime, never negative.
func (s Snapshot) Remaining(now time.Time) time.Duration {
	if !s.IsBlocking || !now.Before(s.EndTime) {
		return 0
	}
	return s.EndTime.Sub(now)
}

// Progress returns the elapsed fraction of the session in [0, 1].
func (s Snapshot) Progress(now time.Time) float64 {
	total := s.EndTime.Sub(s.StartTime)
	if !s.IsBlocking || total <= 0 {
		return 0
	}
	p := float64(now.Sub(s.StartTime)) / float64(total)
	return min(max(p, 0), 1)
}

// State is the per-process cache of the session. The durable store stays
// authoritative: a fresh State is always Idle and startup reconciliation
// closes whatever the previous process left open.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
	feed feed.Feed[Snapshot]
}

func NewState() *State {
	return &State{}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *State) IsBlocking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.IsBlocking
}

// Subscribe registers fn for every state change.
func (s *State) Subscribe(fn func(Snapshot)) func() {
	return s.feed.Subscribe(fn)
}

// update applies fn under the write lock and publishes the result when fn
// reports a change.
func (s *State) update(fn func(*Snapshot) bool) (Snapshot, bool) {
	s.mu.Lock()
	changed := fn(&s.snap)
	snap := s.snap
	s.mu.Unlock()
	if changed {
		s.feed.Publish(snap)
	}
	return snap, changed
}

func (s *State) activate(snap Snapshot) {
	snap.IsBlocking = true
	snap.AwaitingEndConfirmation = false
	s.update(func(cur *Snapshot) bool {
		*cur = snap
		return true
	})
}

func (s *State) setAwaitingEndConfirmation(v bool) (Snapshot, bool) {
	return s.update(func(cur *Snapshot) bool {
		if !cur.IsBlocking {
			return false
		}
		cur.AwaitingEndConfirmation = v
		return true
	})
}

func (s *State) extend(d time.Duration) (Snapshot, bool) {
	return s.update(func(cur *Snapshot) bool {
		if !cur.IsBlocking {
			return false
		}
		cur.EndTime = cur.EndTime.Add(d)
		return true
	})
}

// Reset returns the state to Idle.
func (s *State) Reset() {
	s.update(func(cur *Snapshot) bool {
		if *cur == (Snapshot{}) {
			return false
		}
		*cur = Snapshot{}
		return true
	})
}
