package utils

import (
	"fmt"
	"sync"
)

// SessionTracker records (hotel, checkin, checkout) keys already processed in
// this run, guarding against scraping the same session twice when date lists
// overlap.
type SessionTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewSessionTracker creates a new tracker
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{seen: make(map[string]struct{})}
}

// Add returns true if the key is new (not seen before), false if duplicate
func (t *SessionTracker) Add(hotelID int64, checkin, checkout string) bool {
	key := fmt.Sprintf("%d|%s|%s", hotelID, checkin, checkout)
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.seen[key]; exists {
		return false
	}
	t.seen[key] = struct{}{}
	return true
}

// Count returns the number of tracked keys
func (t *SessionTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
