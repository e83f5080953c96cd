package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottleDelayWithinBounds(t *testing.T) {
	throttle := NewThrottle(7, 20)
	for i := 0; i < 100; i++ {
		d := throttle.NextDelay()
		require.GreaterOrEqual(t, d, 7*time.Second)
		require.LessOrEqual(t, d, 20*time.Second)
	}
}

func TestThrottleSwappedBounds(t *testing.T) {
	throttle := NewThrottle(5, 2)
	require.Equal(t, 5*time.Second, throttle.NextDelay())
}

func TestSessionTrackerDeduplicates(t *testing.T) {
	tracker := NewSessionTracker()

	require.True(t, tracker.Add(1, "2024-03-01", "2024-03-02"))
	require.False(t, tracker.Add(1, "2024-03-01", "2024-03-02"))
	// Different checkout is a different session key
	require.True(t, tracker.Add(1, "2024-03-01", "2024-03-03"))
	require.True(t, tracker.Add(2, "2024-03-01", "2024-03-02"))
	require.Equal(t, 3, tracker.Count())
}

func TestReportingClockFallsBackToUTC(t *testing.T) {
	clock := NewReportingClock("Not/AZone")
	require.Equal(t, time.UTC, clock.Now().Location())
}
