package repository

import (
	"context"
	"time"

	"commander-deck-service/internal/domain/model"
)

// JobStore holds job descriptors, progress messages, status and results,
// each under a per-job key group with its own expiry. Per-job keys are
// read-your-own-write consistent for the single worker that owns the job;
// no consistency is required across jobs.
type JobStore interface {
	// PutJob writes the descriptor and its pending status with the given TTL.
	PutJob(ctx context.Context, job *model.DeckJob, ttl time.Duration) error
	GetJob(ctx context.Context, jobID string) (*model.DeckJob, error)

	// ListJobIDs enumerates root descriptors only, never sub-keys.
	ListJobIDs(ctx context.Context) ([]string, error)

	GetStatus(ctx context.Context, jobID string) (model.JobStatus, error)
	SetStatus(ctx context.Context, jobID string, status model.JobStatus, ttl time.Duration) error

	// ClaimJob atomically transitions pending -> processing. It returns
	// false when the job was already claimed, finished or expired.
	ClaimJob(ctx context.Context, jobID string, ttl time.Duration) (bool, error)

	// AppendProgress / PopProgress form a per-job FIFO; each message is
	// consumed destructively so it is delivered at most once.
	AppendProgress(ctx context.Context, jobID, message string) error
	PopProgress(ctx context.Context, jobID string) (string, error)

	PutResult(ctx context.Context, jobID string, payload []byte, ttl time.Duration) error
	GetResult(ctx context.Context, jobID string) ([]byte, error)

	// DeleteJob removes every key of the job's group.
	DeleteJob(ctx context.Context, jobID string) error
	// DeleteDescriptor removes only the root descriptor, leaving the
	// terminal status and result for the relay's grace window.
	DeleteDescriptor(ctx context.Context, jobID string) error
}
