package operations

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() *ReportRequest {
	return &ReportRequest{
		Areas: []string{"cook-il"},
		Years: []int{2022, 2023},
	}
}

func TestJobLifecycle(t *testing.T) {
	store := NewMemoryJobStore()

	job := NewJob(sampleRequest())
	require.NoError(t, uuid.Validate(job.ID))
	assert.Equal(t, JobStatusPending, job.Status)
	assert.False(t, job.Terminal())

	require.NoError(t, store.CreateJob(job))

	got, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, []string{"cook-il"}, got.Request.Areas)

	now := time.Now().UTC()
	got.Status = JobStatusRunning
	got.StartedAt = &now
	got.Progress = 40
	require.NoError(t, store.UpdateJob(got))

	got, err = store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusRunning, got.Status)
	assert.Equal(t, 40, got.Progress)

	got.Status = JobStatusCompleted
	got.CompletedAt = &now
	require.NoError(t, store.UpdateJob(got))

	got, err = store.GetJob(job.ID)
	require.NoError(t, err)
	assert.True(t, got.Terminal())
}

func TestJobStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryJobStore()
	job := NewJob(sampleRequest())
	require.NoError(t, store.CreateJob(job))

	got, err := store.GetJob(job.ID)
	require.NoError(t, err)
	got.Status = JobStatusFailed

	again, err := store.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, again.Status)
}

func TestJobStoreErrors(t *testing.T) {
	store := NewMemoryJobStore()
	job := NewJob(sampleRequest())
	require.NoError(t, store.CreateJob(job))

	assert.Error(t, store.CreateJob(job))
	assert.Error(t, store.UpdateJob(&Job{ID: "missing"}))
	assert.Error(t, store.DeleteJob("missing"))

	_, err := store.GetJob("missing")
	assert.Error(t, err)

	require.NoError(t, store.DeleteJob(job.ID))
	_, err = store.GetJob(job.ID)
	assert.Error(t, err)
}

func TestListJobsFilterAndOrder(t *testing.T) {
	store := NewMemoryJobStore()

	old := NewJob(sampleRequest())
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	old.Status = JobStatusCompleted
	require.NoError(t, store.CreateJob(old))

	recent := NewJob(sampleRequest())
	recent.Status = JobStatusRunning
	require.NoError(t, store.CreateJob(recent))

	t.Run("by status", func(t *testing.T) {
		jobs, err := store.ListJobs(JobFilter{Status: JobStatusRunning})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, recent.ID, jobs[0].ID)
	})

	t.Run("since cutoff", func(t *testing.T) {
		jobs, err := store.ListJobs(JobFilter{Since: time.Now().Add(-time.Hour)})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, recent.ID, jobs[0].ID)
	})

	t.Run("newest first with limit", func(t *testing.T) {
		jobs, err := store.ListJobs(JobFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, recent.ID, jobs[0].ID)
	})
}

func TestCleanupOldJobs(t *testing.T) {
	store := NewMemoryJobStore()

	done := NewJob(sampleRequest())
	done.Status = JobStatusCompleted
	done.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.CreateJob(done))

	stale := NewJob(sampleRequest())
	stale.Status = JobStatusRunning
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.CreateJob(stale))

	deleted, err := store.CleanupOldJobs(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	// Running jobs survive cleanup regardless of age.
	_, err = store.GetJob(stale.ID)
	assert.NoError(t, err)
}

func TestJobStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryJobStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job := NewJob(sampleRequest())
			if err := store.CreateJob(job); err != nil {
				t.Error(err)
				return
			}
			got, err := store.GetJob(job.ID)
			if err != nil {
				t.Error(err)
				return
			}
			got.Status = JobStatusCompleted
			if err := store.UpdateJob(got); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	stats := store.GetStats()
	assert.Equal(t, 20, stats["total_jobs"])
	assert.Equal(t, 20, stats["completed"])
}

func TestProgressTracker(t *testing.T) {
	p := NewProgressTracker(4)
	assert.Equal(t, 0, p.Percentage())

	p.Increment("fetched records")
	p.Increment("analysis complete")
	assert.Equal(t, 50, p.Percentage())

	current, total, message := p.Snapshot()
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, total)
	assert.Equal(t, "analysis complete", message)

	p.Increment("narratives generated")
	p.Increment("document assembled")
	p.Increment("extra step")
	assert.Equal(t, 100, p.Percentage())
}
