// Package filter selects the visible subset of jobs for the current UI state.
package filter

import (
	"strings"

	"github.com/ivoronin/s3bmon/internal/model"
)

// Engine holds the active filter state. The zero value matches every job.
type Engine struct {
	ActiveOnly bool
	Text       string
}

// Apply returns the jobs matching the current state, preserving input order.
// The text filter is a case-insensitive substring match on the description;
// jobs without a description never match a non-empty text filter.
func (e Engine) Apply(jobs []model.Job) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if e.matches(job) {
			out = append(out, job)
		}
	}
	return out
}

func (e Engine) matches(job model.Job) bool {
	if e.ActiveOnly && !job.IsActive() {
		return false
	}
	if e.Text == "" {
		return true
	}
	if job.Description == "" {
		return false
	}
	return strings.Contains(strings.ToLower(job.Description), strings.ToLower(e.Text))
}
