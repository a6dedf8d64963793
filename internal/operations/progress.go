package operations

import (
	"sync"
	"time"
)

// ProgressTracker tracks progress for a running report job
type ProgressTracker struct {
	Total     int
	Current   int
	StartTime time.Time
	Message   string
	mu        sync.Mutex
}

// NewProgressTracker creates a tracker over total steps
func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// Increment advances the current step by 1
func (p *ProgressTracker) Increment(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Current++
	p.Message = message
}

// Percentage returns progress as an integer 0..100
func (p *ProgressTracker) Percentage() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Total <= 0 {
		return 0
	}
	pct := p.Current * 100 / p.Total
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Snapshot returns the current progress state
func (p *ProgressTracker) Snapshot() (current, total int, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.Current, p.Total, p.Message
}
