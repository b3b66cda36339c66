// Package provider exposes the upstream batch-job API the dashboard polls.
package provider

import (
	"context"
	"fmt"

	"github.com/ivoronin/s3bmon/internal/model"
)

// Client is the upstream data source contract. Implementations return
// *Error for communication failures.
type Client interface {
	// AccountID resolves the account the session is operating in.
	AccountID(ctx context.Context) (string, error)
	// ListJobs returns all batch jobs for the account, transparently
	// paginating. A failure mid-pagination discards the whole call.
	ListJobs(ctx context.Context, accountID string) ([]model.Job, error)
	// DescribeJob returns the extended raw record for one job.
	DescribeJob(ctx context.Context, accountID, jobID string) (map[string]any, error)
}

// Error is a provider-communication failure (network, auth, throttling).
// It is the only error kind the UI treats specially.
type Error struct {
	Op   string
	Code string
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
