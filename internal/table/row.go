// Package table builds display rows for jobs and reconciles them into a
// render surface with minimal operations.
package table

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ivoronin/s3bmon/internal/model"
)

// Column indices of the display row, in render order.
const (
	ColJobID = iota
	ColDescription
	ColStatus
	ColCreationTime
	ColTotal
	ColSuccessPct
	ColFailurePct
	ColTasksPerHour
	ColElapsedHours
	ColETA
	NumColumns
)

// Titles holds the column headers in render order.
var Titles = [NumColumns]string{
	"JOB ID", "DESCRIPTION", "STATUS", "CREATION TIME", "TOTAL",
	"%SUCC", "%FAIL", "OBJ/HR", "ACT", "ESTIMATED DONE",
}

// timeFormat sorts lexicographically within a century.
const timeFormat = "06-01-02 15:04"

var statusStyles = map[model.JobStatus]lipgloss.Style{
	model.JobStatusActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // Green
	model.JobStatusCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // Yellow
	model.JobStatusFailed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // Red
}

// Row is one visible table row, keyed by job id.
type Row struct {
	Key       string
	CreatedAt time.Time
	Fields    [NumColumns]string
}

// BuildRow derives the display fields for a job at the given evaluation time.
func BuildRow(job model.Job, now time.Time) Row {
	id := job.ID
	if len(id) > 8 {
		id = id[:8]
	}

	description := job.Description
	if description == "" {
		description = "-"
	}

	status := string(job.Status)
	if style, ok := statusStyles[job.Status]; ok {
		status = style.Render(status)
	}

	eta := "-"
	if at := job.ETA(now); at != nil {
		eta = at.Format(timeFormat)
	}

	return Row{
		Key:       job.ID,
		CreatedAt: job.CreationTime,
		Fields: [NumColumns]string{
			ColJobID:        id,
			ColDescription:  description,
			ColStatus:       status,
			ColCreationTime: job.CreationTime.Format(timeFormat),
			ColTotal:        Humanize(float64(job.TotalTasks)),
			ColSuccessPct:   fmt.Sprintf("%.2f", job.SuccessRatio()*100),
			ColFailurePct:   fmt.Sprintf("%.2f", job.FailureRatio()*100),
			ColTasksPerHour: Humanize(float64(job.TasksPerHour(now))),
			ColElapsedHours: fmt.Sprintf("%.1fH", job.ElapsedHours(now)),
			ColETA:          eta,
		},
	}
}

// BuildRows derives display rows for a job list at one evaluation time.
func BuildRows(jobs []model.Job, now time.Time) []Row {
	rows := make([]Row, len(jobs))
	for i, job := range jobs {
		rows[i] = BuildRow(job, now)
	}
	return rows
}

// Humanize formats a count with one decimal place, stepping through K, M and
// B units per factor of 1000.
func Humanize(n float64) string {
	for _, unit := range []string{"", "K", "M"} {
		if math.Abs(n) < 1000 {
			return fmt.Sprintf("%.1f%s", n, unit)
		}
		n /= 1000
	}
	return fmt.Sprintf("%.1fB", n)
}
