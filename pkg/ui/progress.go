package ui

import (
	"fmt"
	"sync"
	"time"
)

// StatusTracker counts what a run has done so far
type StatusTracker struct {
	mu              sync.Mutex
	startTime       time.Time
	requests        int
	rateLimitWaits  int
	transientErrors int
	waited          time.Duration
}

// NewStatusTracker creates a new status tracker
func NewStatusTracker() *StatusTracker {
	return &StatusTracker{
		startTime: time.Now(),
	}
}

// RecordRateLimit notes a wait on the upstream rate limit
func (st *StatusTracker) RecordRateLimit(delay time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.rateLimitWaits++
	st.waited += delay
}

// RecordTransient notes a retried transport failure
func (st *StatusTracker) RecordTransient(delay time.Duration) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.transientErrors++
	st.waited += delay
}

// Summary is a snapshot of a tracker
type Summary struct {
	Users           int
	Repositories    int
	RateLimitWaits  int
	TransientErrors int
	Waited          time.Duration
	Elapsed         time.Duration
}

// Snapshot combines the tracker's counters with the run totals
func (st *StatusTracker) Snapshot(users, repositories int) Summary {
	st.mu.Lock()
	defer st.mu.Unlock()
	return Summary{
		Users:           users,
		Repositories:    repositories,
		RateLimitWaits:  st.rateLimitWaits,
		TransientErrors: st.transientErrors,
		Waited:          st.waited,
		Elapsed:         time.Since(st.startTime),
	}
}

// PrintSummary prints the end-of-run report
func PrintSummary(s Summary) {
	PrintHighlight("\n[RUN COMPLETE]")
	PrintInfo("Users", fmt.Sprintf("%d", s.Users))
	PrintInfo("Repositories", fmt.Sprintf("%d", s.Repositories))
	if s.RateLimitWaits > 0 || s.TransientErrors > 0 {
		PrintInfo("Retries", fmt.Sprintf("%d rate limit, %d transient (%s waiting)",
			s.RateLimitWaits, s.TransientErrors, formatDuration(s.Waited)))
	}
	PrintInfo("Elapsed", formatDuration(s.Elapsed))
}

// formatDuration renders d as 1h02m03s, 2m03s or 3s
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
