package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/s3control/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/ivoronin/s3bmon/internal/model"
)

type fakeSTS struct {
	account string
	err     error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &sts.GetCallerIdentityOutput{Account: aws.String(f.account)}, nil
}

type listPage struct {
	out *s3control.ListJobsOutput
	err error
}

type fakeS3Control struct {
	pages    []listPage
	calls    int
	describe *s3control.DescribeJobOutput
	err      error
}

func (f *fakeS3Control) ListJobs(ctx context.Context, params *s3control.ListJobsInput, optFns ...func(*s3control.Options)) (*s3control.ListJobsOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page.out, page.err
}

func (f *fakeS3Control) DescribeJob(ctx context.Context, params *s3control.DescribeJobInput, optFns ...func(*s3control.Options)) (*s3control.DescribeJobOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.describe, nil
}

func descriptor(id string, created time.Time) types.JobListDescriptor {
	return types.JobListDescriptor{
		JobId:        aws.String(id),
		Description:  aws.String("desc " + id),
		Status:       types.JobStatusActive,
		CreationTime: aws.Time(created),
		ProgressSummary: &types.JobProgressSummary{
			TotalNumberOfTasks:     aws.Int64(100),
			NumberOfTasksSucceeded: aws.Int64(40),
			NumberOfTasksFailed:    aws.Int64(10),
			Timers:                 &types.JobTimers{ElapsedTimeInActiveSeconds: aws.Int64(0)},
		},
	}
}

func TestAWSClient_AccountID(t *testing.T) {
	client := &AWSClient{sts: &fakeSTS{account: "123456789012"}}

	got, err := client.AccountID(context.Background())
	if err != nil {
		t.Fatalf("AccountID() error = %v", err)
	}
	if got != "123456789012" {
		t.Errorf("AccountID() = %q, want %q", got, "123456789012")
	}
}

func TestAWSClient_AccountID_WrapsError(t *testing.T) {
	client := &AWSClient{sts: &fakeSTS{err: errors.New("connection refused")}}

	_, err := client.AccountID(context.Background())
	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Fatalf("AccountID() error = %v, want *provider.Error", err)
	}
	if provErr.Op != "get caller identity" {
		t.Errorf("Op = %q, want %q", provErr.Op, "get caller identity")
	}
}

func TestAWSClient_ListJobs_Paginates(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s3 := &fakeS3Control{pages: []listPage{
		{out: &s3control.ListJobsOutput{
			Jobs:      []types.JobListDescriptor{descriptor("job-1", created)},
			NextToken: aws.String("page2"),
		}},
		{out: &s3control.ListJobsOutput{
			Jobs: []types.JobListDescriptor{descriptor("job-2", created.Add(time.Hour))},
		}},
	}}
	client := &AWSClient{s3control: s3}

	jobs, err := client.ListJobs(context.Background(), "123456789012")
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("len(jobs) = %d, want 2", len(jobs))
	}
	if s3.calls != 2 {
		t.Errorf("ListJobs calls = %d, want 2", s3.calls)
	}

	job := jobs[0]
	want := model.Job{
		ID:           "job-1",
		Description:  "desc job-1",
		Status:       model.JobStatusActive,
		CreationTime: created,
		TotalTasks:   100,
		Succeeded:    40,
		Failed:       10,
	}
	if job != want {
		t.Errorf("jobs[0] = %+v, want %+v", job, want)
	}
}

func TestAWSClient_ListJobs_MidPaginationFailureDiscardsAll(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s3 := &fakeS3Control{pages: []listPage{
		{out: &s3control.ListJobsOutput{
			Jobs:      []types.JobListDescriptor{descriptor("job-1", created)},
			NextToken: aws.String("page2"),
		}},
		{err: errors.New("throttled")},
	}}
	client := &AWSClient{s3control: s3}

	jobs, err := client.ListJobs(context.Background(), "123456789012")
	if err == nil {
		t.Fatal("ListJobs() error = nil, want error")
	}
	if jobs != nil {
		t.Errorf("jobs = %v, want nil on failure", jobs)
	}
	var provErr *Error
	if !errors.As(err, &provErr) {
		t.Errorf("error = %v, want *provider.Error", err)
	}
}

func TestAWSClient_ListJobs_MissingProgressSummary(t *testing.T) {
	s3 := &fakeS3Control{pages: []listPage{
		{out: &s3control.ListJobsOutput{
			Jobs: []types.JobListDescriptor{{
				JobId:  aws.String("bare"),
				Status: types.JobStatusNew,
			}},
		}},
	}}
	client := &AWSClient{s3control: s3}

	jobs, err := client.ListJobs(context.Background(), "123456789012")
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if jobs[0].TotalTasks != 0 || jobs[0].ActiveSeconds != 0 {
		t.Errorf("jobs[0] = %+v, want zero counters", jobs[0])
	}
}

func TestAWSClient_DescribeJob(t *testing.T) {
	s3 := &fakeS3Control{describe: &s3control.DescribeJobOutput{
		Job: &types.JobDescriptor{
			JobId:    aws.String("job-1"),
			Status:   types.JobStatusComplete,
			Priority: 10,
		},
	}}
	client := &AWSClient{s3control: s3}

	raw, err := client.DescribeJob(context.Background(), "123456789012", "job-1")
	if err != nil {
		t.Fatalf("DescribeJob() error = %v", err)
	}
	if raw["JobId"] != "job-1" {
		t.Errorf("raw[JobId] = %v, want %q", raw["JobId"], "job-1")
	}
}
