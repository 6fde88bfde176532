package utils

import "time"

// Clock supplies the current time to services, so rules bucketed by
// calendar month (allocations, distribution eligibility, digests) stay
// deterministic under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock pins Now to a fixed instant for tests.
type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}
