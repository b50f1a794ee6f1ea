package shield

import (
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func sig(session string, at time.Time, args map[string]any) domain.RequestSignature {
	return domain.RequestSignature{SessionID: session, Timestamp: at, Intent: "search_listings", Args: args}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score int
		tier  domain.Tier
		mode  domain.DegradationMode
	}{
		{0, domain.TierClear, domain.DegradeNone},
		{19, domain.TierClear, domain.DegradeNone},
		{20, domain.TierElevated, domain.DegradeRounded},
		{44, domain.TierElevated, domain.DegradeRounded},
		{45, domain.TierHigh, domain.DegradeZeroed},
		{69, domain.TierHigh, domain.DegradeZeroed},
		{70, domain.TierCritical, domain.DegradeBlackout},
		{500, domain.TierCritical, domain.DegradeBlackout},
	}

	for _, tt := range tests {
		tier, mode := Classify(tt.score)
		require.Equal(t, tt.tier, tier, "score %d", tt.score)
		require.Equal(t, tt.mode, mode, "score %d", tt.score)
	}
}

func TestEvaluateFirstRequestIsClear(t *testing.T) {
	s := New()

	a := s.Evaluate(sig("s1", t0, map[string]any{"area": "Marina"}))
	require.Equal(t, domain.TierClear, a.Tier)
	require.Zero(t, a.Score)
	require.Empty(t, a.Flags)
}

func TestEvaluateRapidFire(t *testing.T) {
	s := New()

	s.Evaluate(sig("s1", t0, nil))
	a := s.Evaluate(sig("s1", t0.Add(300*time.Millisecond), nil))
	require.Equal(t, 10, a.Score)
	require.Equal(t, domain.TierClear, a.Tier)

	a = s.Evaluate(sig("s1", t0.Add(600*time.Millisecond), nil))
	require.Equal(t, 20, a.Score)
	require.Equal(t, domain.TierElevated, a.Tier)
	require.Equal(t, domain.DegradeRounded, a.Degradation)
	require.Equal(t, []string{domain.FlagRapidFire, domain.FlagRapidFire}, a.Flags)
}

func TestEvaluateSpacedRequestsStayClear(t *testing.T) {
	s := New()

	for i := range 10 {
		a := s.Evaluate(sig("s1", t0.Add(time.Duration(i)*time.Second), nil))
		require.Zero(t, a.Score)
	}

	p, ok := s.Snapshot("s1")
	require.True(t, ok)
	require.Equal(t, 10, p.Count)
}

func TestEvaluateExportAttempt(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want bool
	}{
		{"export value", map[string]any{"mode": "export"}, true},
		{"csv upper case", map[string]any{"format": "CSV"}, true},
		{"dump key", map[string]any{"dump": true}, true},
		{"all nested", map[string]any{"filter": map[string]any{"scope": "ALL"}}, true},
		{"plain search", map[string]any{"area": "Downtown", "beds": 2}, false},
		{"no args", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New().Evaluate(sig("s1", t0, tt.args))
			if tt.want {
				require.Equal(t, 40, a.Score)
				require.Equal(t, domain.TierElevated, a.Tier)
				require.Equal(t, []string{domain.FlagExportAttempt}, a.Flags)
			} else {
				require.Zero(t, a.Score)
			}
		})
	}
}

func TestEvaluateEscalatesToCritical(t *testing.T) {
	s := New()
	args := map[string]any{"q": "export everything"}

	a := s.Evaluate(sig("s1", t0, args))
	require.Equal(t, domain.TierElevated, a.Tier) // 40

	a = s.Evaluate(sig("s1", t0.Add(100*time.Millisecond), args))
	require.Equal(t, 90, a.Score) // +10 rapid, +40 export
	require.Equal(t, domain.TierCritical, a.Tier)
	require.Equal(t, domain.DegradeBlackout, a.Degradation)
}

func TestEvaluateMonotonic(t *testing.T) {
	s := New()
	prev := 0
	for i := range 50 {
		var args map[string]any
		if i%7 == 0 {
			args = map[string]any{"format": "csv"}
		}
		a := s.Evaluate(sig("s1", t0.Add(time.Duration(i*400)*time.Millisecond), args))
		require.GreaterOrEqual(t, a.Score, prev)
		prev = a.Score
	}
}

func TestEvaluateSessionsAreIndependent(t *testing.T) {
	s := New()

	s.Evaluate(sig("attacker", t0, map[string]any{"q": "dump"}))
	a := s.Evaluate(sig("broker", t0, map[string]any{"q": "villa"}))

	require.Equal(t, domain.TierClear, a.Tier)
}

func TestEvaluateReturnsFlagCopy(t *testing.T) {
	s := New()
	a := s.Evaluate(sig("s1", t0, map[string]any{"q": "export"}))
	a.Flags[0] = "TAMPERED"

	p, _ := s.Snapshot("s1")
	require.Equal(t, []string{domain.FlagExportAttempt}, p.Flags)
}

func TestEvaluateUsesClockForZeroTimestamp(t *testing.T) {
	now := t0
	s := New(WithClock(func() time.Time { return now }))

	s.Evaluate(domain.RequestSignature{SessionID: "s1"})
	now = now.Add(200 * time.Millisecond)
	a := s.Evaluate(domain.RequestSignature{SessionID: "s1"})

	require.Equal(t, 10, a.Score)
}

func TestEvaluateConcurrentSameSession(t *testing.T) {
	s := New()
	const n = 200

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Evaluate(sig("burst", t0, map[string]any{"q": "export"}))
		}()
	}
	wg.Wait()

	// Every request exports; all but the first land inside the window.
	p, ok := s.Snapshot("burst")
	require.True(t, ok)
	require.Equal(t, n, p.Count)
	require.Equal(t, n*exportScore+(n-1)*rapidFireScore, p.Score)
}

func TestEvictIdle(t *testing.T) {
	now := t0
	s := New(WithClock(func() time.Time { return now }))

	s.Evaluate(sig("old", t0, map[string]any{"q": "export"}))
	s.Evaluate(sig("fresh", t0.Add(50*time.Minute), nil))

	now = t0.Add(time.Hour)
	require.Equal(t, 1, s.EvictIdle(30*time.Minute))
	require.Equal(t, 1, s.Len())

	_, ok := s.Snapshot("old")
	require.False(t, ok)

	// A returning session starts from a clean profile.
	a := s.Evaluate(sig("old", now, nil))
	require.Zero(t, a.Score)
}
