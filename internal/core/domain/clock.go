package domain

import "time"

// NextUpdate returns the updatedAt value for a mutation observed at now.
// The result is always strictly after prev so that updatedAt advances even
// when two mutations land within the clock's resolution.
func NextUpdate(prev, now time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}
