package operations

import (
	"time"

	"github.com/google/uuid"

	"branchscope/internal/report"
)

// JobStatus represents the status of a report job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// ReportRequest describes one report run. It is bound from the HTTP request
// body and validated before a job is created.
type ReportRequest struct {
	Areas             []string `json:"areas" validate:"required,min=1,dive,required"`
	Years             []int    `json:"years" validate:"required,min=1,dive,gte=1994,lte=2030"`
	TargetYear        int      `json:"target_year,omitempty" validate:"omitempty,gte=1994,lte=2030"`
	MajorityThreshold float64  `json:"majority_threshold,omitempty" validate:"omitempty,gt=0,lte=100"`
	Export            bool     `json:"export,omitempty"`
}

// Job represents an async report job
type Job struct {
	ID          string           `json:"id"`
	Status      JobStatus        `json:"status"`
	Progress    int              `json:"progress"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
	Request     *ReportRequest   `json:"request,omitempty"`
	Document    *report.Document `json:"-"`
	Artifacts   []string         `json:"artifacts,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// NewJob creates a pending job for the given request.
func NewJob(req *ReportRequest) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    JobStatusPending,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// JobStore interface for job persistence
type JobStore interface {
	CreateJob(job *Job) error
	GetJob(id string) (*Job, error)
	UpdateJob(job *Job) error
	ListJobs(filter JobFilter) ([]*Job, error)
	DeleteJob(id string) error
}

// JobFilter for querying jobs
type JobFilter struct {
	Status JobStatus
	Since  time.Time
	Limit  int
}
