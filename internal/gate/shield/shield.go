// Package shield scores each session's request stream for scraping
// behaviour and degrades the data returned to suspicious sessions.
package shield

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
)

const (
	rapidFireWindow = time.Second
	rapidFireScore  = 10
	exportScore     = 40
)

// Tier thresholds, inclusive lower bounds.
const (
	ElevatedThreshold = 20
	HighThreshold     = 45
	CriticalThreshold = 70
)

var exportMarkers = []string{"all", "export", "csv", "dump"}

// Profile is a read-only view of a session's accumulated state.
type Profile struct {
	SessionID   string
	Score       int
	Flags       []string
	Count       int
	LastRequest time.Time
}

type profile struct {
	mu      sync.Mutex
	score   int
	flags   []string
	count   int
	last    time.Time
	evicted bool
}

// Shield holds one profile per session for the life of the process, or
// until EvictIdle removes it. The zero value is not usable; call New.
type Shield struct {
	mu       sync.Mutex
	profiles map[string]*profile
	now      func() time.Time
}

type Option func(*Shield)

// WithClock overrides the clock used for signatures without a timestamp
// and for idle eviction.
func WithClock(now func() time.Time) Option {
	return func(s *Shield) { s.now = now }
}

func New(opts ...Option) *Shield {
	s := &Shield{
		profiles: make(map[string]*profile),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify maps a score to its tier and degradation mode.
func Classify(score int) (domain.Tier, domain.DegradationMode) {
	switch {
	case score >= CriticalThreshold:
		return domain.TierCritical, domain.DegradeBlackout
	case score >= HighThreshold:
		return domain.TierHigh, domain.DegradeZeroed
	case score >= ElevatedThreshold:
		return domain.TierElevated, domain.DegradeRounded
	default:
		return domain.TierClear, domain.DegradeNone
	}
}

// Evaluate folds sig into its session's profile and returns the resulting
// assessment. Concurrent calls for one session are serialized; the score
// never decreases.
func (s *Shield) Evaluate(sig domain.RequestSignature) domain.ThreatAssessment {
	ts := sig.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	exporting := looksLikeExport(sig.Args)

	p := s.lockProfile(sig.SessionID)
	defer p.mu.Unlock()

	// 1. Requests closer together than the window count as rapid fire.
	if p.count > 0 && ts.Sub(p.last) < rapidFireWindow {
		p.score += rapidFireScore
		p.flags = append(p.flags, domain.FlagRapidFire)
	}

	// 2. Bulk extraction wording anywhere in the arguments.
	if exporting {
		p.score += exportScore
		p.flags = append(p.flags, domain.FlagExportAttempt)
	}

	// 3. Always record the request.
	p.last = ts
	p.count++

	tier, mode := Classify(p.score)
	return domain.ThreatAssessment{
		Tier:        tier,
		Score:       p.score,
		Degradation: mode,
		Flags:       slices.Clone(p.flags),
	}
}

// lockProfile returns the session's live profile with its lock held,
// creating it if needed.
func (s *Shield) lockProfile(sessionID string) *profile {
	for {
		s.mu.Lock()
		p, ok := s.profiles[sessionID]
		if !ok {
			p = &profile{}
			s.profiles[sessionID] = p
		}
		s.mu.Unlock()

		p.mu.Lock()
		if !p.evicted {
			return p
		}
		// Evicted between lookup and lock; the map now has no entry.
		p.mu.Unlock()
	}
}

// Snapshot returns the current state of a session, if it has been seen.
func (s *Shield) Snapshot(sessionID string) (Profile, bool) {
	s.mu.Lock()
	p, ok := s.profiles[sessionID]
	s.mu.Unlock()
	if !ok {
		return Profile{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.evicted {
		return Profile{}, false
	}
	return Profile{
		SessionID:   sessionID,
		Score:       p.score,
		Flags:       slices.Clone(p.flags),
		Count:       p.count,
		LastRequest: p.last,
	}, true
}

// Len reports how many sessions are tracked.
func (s *Shield) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// EvictIdle forgets sessions whose last request is older than idle and
// returns how many were removed.
func (s *Shield) EvictIdle(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, p := range s.profiles {
		p.mu.Lock()
		if p.count > 0 && p.last.Before(cutoff) {
			p.evicted = true
			delete(s.profiles, id)
			removed++
		}
		p.mu.Unlock()
	}
	return removed
}

func looksLikeExport(args map[string]any) bool {
	text := argsText(args)
	for _, marker := range exportMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// argsText renders keys and values as lower-case text.
func argsText(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	b, err := json.Marshal(args)
	if err != nil {
		return strings.ToLower(fmt.Sprint(args))
	}
	return strings.ToLower(string(b))
}
