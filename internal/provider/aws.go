package provider

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/s3control/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"

	"github.com/ivoronin/s3bmon/internal/model"
)

// stsAPI is the slice of the STS client the provider uses.
type stsAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// s3ControlAPI is the slice of the S3 Control client the provider uses.
type s3ControlAPI interface {
	ListJobs(ctx context.Context, params *s3control.ListJobsInput, optFns ...func(*s3control.Options)) (*s3control.ListJobsOutput, error)
	DescribeJob(ctx context.Context, params *s3control.DescribeJobInput, optFns ...func(*s3control.Options)) (*s3control.DescribeJobOutput, error)
}

// AWSClient implements Client on top of the AWS SDK.
type AWSClient struct {
	sts       stsAPI
	s3control s3ControlAPI
}

// Options configures credential and region resolution.
type Options struct {
	Profile string
	Region  string
}

// NewAWSClient builds a client using the default AWS credential chain.
func NewAWSClient(ctx context.Context, opts Options) (*AWSClient, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, wrap("load aws config", err)
	}

	return &AWSClient{
		sts:       sts.NewFromConfig(cfg),
		s3control: s3control.NewFromConfig(cfg),
	}, nil
}

// AccountID resolves the caller's account via STS.
func (c *AWSClient) AccountID(ctx context.Context) (string, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", wrap("get caller identity", err)
	}
	return aws.ToString(out.Account), nil
}

// ListJobs fetches every page of batch jobs for the account.
func (c *AWSClient) ListJobs(ctx context.Context, accountID string) ([]model.Job, error) {
	var jobs []model.Job
	var nextToken *string

	for {
		out, err := c.s3control.ListJobs(ctx, &s3control.ListJobsInput{
			AccountId: aws.String(accountID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, wrap("list jobs", err)
		}

		for _, item := range out.Jobs {
			jobs = append(jobs, jobFromDescriptor(item))
		}

		nextToken = out.NextToken
		if nextToken == nil {
			break
		}
	}

	return jobs, nil
}

// DescribeJob returns the raw extended record for the details view.
func (c *AWSClient) DescribeJob(ctx context.Context, accountID, jobID string) (map[string]any, error) {
	out, err := c.s3control.DescribeJob(ctx, &s3control.DescribeJobInput{
		AccountId: aws.String(accountID),
		JobId:     aws.String(jobID),
	})
	if err != nil {
		return nil, wrap("describe job", err)
	}

	data, err := json.Marshal(out.Job)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func jobFromDescriptor(item types.JobListDescriptor) model.Job {
	job := model.Job{
		ID:          aws.ToString(item.JobId),
		Description: aws.ToString(item.Description),
		Status:      model.JobStatus(item.Status),
	}
	if item.CreationTime != nil {
		job.CreationTime = item.CreationTime.UTC()
	}
	if ps := item.ProgressSummary; ps != nil {
		job.TotalTasks = aws.ToInt64(ps.TotalNumberOfTasks)
		job.Succeeded = aws.ToInt64(ps.NumberOfTasksSucceeded)
		job.Failed = aws.ToInt64(ps.NumberOfTasksFailed)
		if ps.Timers != nil {
			job.ActiveSeconds = aws.ToInt64(ps.Timers.ElapsedTimeInActiveSeconds)
		}
	}
	return job
}

func wrap(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &Error{Op: op, Code: apiErr.ErrorCode(), Err: err}
	}
	return &Error{Op: op, Err: err}
}
