package model

import (
	"math"
	"time"
)

// JobStatus is the raw status string reported by the provider.
type JobStatus string

const (
	JobStatusActive    JobStatus = "Active"
	JobStatusComplete  JobStatus = "Complete"
	JobStatusCancelled JobStatus = "Cancelled"
	JobStatusFailed    JobStatus = "Failed"
)

// Job is an immutable view over one raw batch-job record. Every derived
// value is recomputed from the backing fields on each call.
type Job struct {
	ID           string
	Description  string
	Status       JobStatus
	CreationTime time.Time // normalized to UTC
	TotalTasks   int64
	Succeeded    int64
	Failed       int64

	// ActiveSeconds is the provider-reported elapsed active time. The
	// provider reports 0 here while a job is still active, so it is only
	// trusted for inactive jobs.
	ActiveSeconds int64
}

// IsActive reports whether the job is still running. Any status outside the
// terminal set is treated as active-like.
func (j Job) IsActive() bool {
	switch j.Status {
	case JobStatusComplete, JobStatusCancelled, JobStatusFailed:
		return false
	}
	return true
}

// CompletedTasks returns the number of tasks that finished, successfully or not.
func (j Job) CompletedTasks() int64 {
	return j.Succeeded + j.Failed
}

// CompletedRatio returns completed/total, or 0 for an empty job.
func (j Job) CompletedRatio() float64 {
	return j.ratio(j.CompletedTasks())
}

// SuccessRatio returns succeeded/total, or 0 for an empty job.
func (j Job) SuccessRatio() float64 {
	return j.ratio(j.Succeeded)
}

// FailureRatio returns failed/total, or 0 for an empty job.
func (j Job) FailureRatio() float64 {
	return j.ratio(j.Failed)
}

func (j Job) ratio(n int64) float64 {
	if j.TotalTasks == 0 {
		return 0
	}
	return float64(n) / float64(j.TotalTasks)
}

// Elapsed returns how long the job has been running. Active jobs use wall
// clock since creation because the provider reports ActiveSeconds as 0 until
// the job leaves the active state.
func (j Job) Elapsed(now time.Time) time.Duration {
	if j.IsActive() {
		return now.Sub(j.CreationTime)
	}
	return time.Duration(j.ActiveSeconds) * time.Second
}

// ElapsedHours returns Elapsed in fractional hours.
func (j Job) ElapsedHours(now time.Time) float64 {
	return j.Elapsed(now).Hours()
}

// ETA extrapolates the completion time assuming constant throughput since
// creation. It returns nil for inactive or empty jobs.
func (j Job) ETA(now time.Time) *time.Time {
	if !j.IsActive() || j.TotalTasks == 0 {
		return nil
	}
	ratio := j.CompletedRatio()
	if ratio == 0 {
		return nil
	}
	eta := j.CreationTime.Add(time.Duration(float64(j.Elapsed(now)) / ratio))
	return &eta
}

// TasksPerHour returns the completed-task throughput, or 0 when no time has
// elapsed.
func (j Job) TasksPerHour(now time.Time) int64 {
	hours := j.ElapsedHours(now)
	if hours == 0 {
		return 0
	}
	return int64(math.Floor(float64(j.CompletedTasks()) / hours))
}
