package service

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/gate/internal/gate/domain"
	"github.com/aussiebroadwan/gate/internal/gate/shield"
	"github.com/stretchr/testify/require"
)

type countingEvictor struct {
	calls atomic.Int32
}

func (e *countingEvictor) EvictIdle(time.Duration) int {
	e.calls.Add(1)
	return 0
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHousekeepingSweepEvictsIdleProfiles(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sh := shield.New(shield.WithClock(func() time.Time { return now }))
	sh.Evaluate(domain.RequestSignature{SessionID: "old", Timestamp: now.Add(-2 * time.Hour)})
	sh.Evaluate(domain.RequestSignature{SessionID: "fresh", Timestamp: now})

	hk := NewHousekeepingService(sh, quietLogger(), time.Minute, time.Hour)
	require.Equal(t, 1, hk.Sweep())
	require.Equal(t, 1, sh.Len())

	_, ok := sh.Snapshot("old")
	require.False(t, ok)
}

func TestHousekeepingDisabledWithoutTTL(t *testing.T) {
	e := &countingEvictor{}
	hk := NewHousekeepingService(e, quietLogger(), time.Minute, 0)

	require.Zero(t, hk.Sweep())
	require.Zero(t, e.calls.Load())
}

func TestHousekeepingStartStop(t *testing.T) {
	e := &countingEvictor{}
	hk := NewHousekeepingService(e, quietLogger(), 5*time.Millisecond, time.Hour)

	hk.Start()
	require.Eventually(t, func() bool { return e.calls.Load() > 0 }, time.Second, 5*time.Millisecond)
	hk.Stop()
}

func TestHousekeepingDefaultInterval(t *testing.T) {
	hk := NewHousekeepingService(&countingEvictor{}, nil, 0, 0)
	require.Equal(t, time.Hour, hk.Interval)
	require.NotNil(t, hk.Logger)
}
