package services

import (
	"context"
	"runtime"
	"time"

	"branchscope/internal/operations"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	startTime time.Time
	store     *operations.MemoryJobStore
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Jobs      map[string]int `json:"jobs,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, store *operations.MemoryJobStore) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		store:     store,
	}
}

// Check returns the current health status
func (s *HealthService) Check(_ context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime: map[string]any{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
	if s.store != nil {
		status.Jobs = s.store.GetStats()
	}
	return status
}
