package utils

import (
	"math/rand"
	"time"
)

// Throttle inserts a randomized pause between outgoing requests
type Throttle struct {
	minSeconds int
	maxSeconds int
	sleep      func(time.Duration)
}

// NewThrottle creates a Throttle with inclusive bounds in seconds
func NewThrottle(minSeconds, maxSeconds int) *Throttle {
	if maxSeconds < minSeconds {
		maxSeconds = minSeconds
	}
	return &Throttle{
		minSeconds: minSeconds,
		maxSeconds: maxSeconds,
		sleep:      time.Sleep,
	}
}

// NextDelay returns a random delay within the configured bounds
func (t *Throttle) NextDelay() time.Duration {
	span := t.maxSeconds - t.minSeconds + 1
	return time.Duration(t.minSeconds+rand.Intn(span)) * time.Second
}

// Wait blocks for a randomized delay and returns how long it waited
func (t *Throttle) Wait() time.Duration {
	d := t.NextDelay()
	t.sleep(d)
	return d
}
