package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.JobStore = (*JobStore)(nil)

// keyPrefix groups every key of one job so the group can be deleted together.
const keyPrefix = "deckjob:"

// JobStore keeps job descriptors, progress and results in Redis with
// per-key expiries. TTLs are the backstop that reclaims abandoned jobs.
type JobStore struct {
	client *Client
}

func NewJobStore(client *Client) *JobStore {
	return &JobStore{client: client}
}

func jobKey(id string) string      { return keyPrefix + id }
func statusKey(id string) string   { return keyPrefix + id + ":status" }
func resultKey(id string) string   { return keyPrefix + id + ":result" }
func progressKey(id string) string { return keyPrefix + id + ":progress" }

func (s *JobStore) PutJob(ctx context.Context, job *model.DeckJob, ttl time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.ID, err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), data, ttl); err != nil {
		return fmt.Errorf("put job %s: %w", job.ID, err)
	}
	return s.SetStatus(ctx, job.ID, job.Status, ttl)
}

func (s *JobStore) GetJob(ctx context.Context, jobID string) (*model.DeckJob, error) {
	data, err := s.client.Get(ctx, jobKey(jobID))
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}
	var job model.DeckJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job %s: %w", jobID, err)
	}
	return &job, nil
}

// ListJobIDs returns root descriptors only; status/result/progress sub-keys
// are filtered out.
func (s *JobStore) ListJobIDs(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan job keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		id := strings.TrimPrefix(k, keyPrefix)
		if strings.Contains(id, ":") {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *JobStore) GetStatus(ctx context.Context, jobID string) (model.JobStatus, error) {
	v, err := s.client.Get(ctx, statusKey(jobID))
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get status %s: %w", jobID, err)
	}
	return model.JobStatus(v), nil
}

func (s *JobStore) SetStatus(ctx context.Context, jobID string, status model.JobStatus, ttl time.Duration) error {
	if err := s.client.Set(ctx, statusKey(jobID), string(status), ttl); err != nil {
		return fmt.Errorf("set status %s: %w", jobID, err)
	}
	return nil
}

// claimScript transitions a job's status pending -> processing only if it is
// still pending, so two workers racing on one job cannot both claim it.
var claimScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
	return 1
else
	return 0
end`)

// claimExpiryMillis converts the claim TTL to PX milliseconds. Redis rejects
// an expiry of zero, so sub-millisecond TTLs are floored at 1ms.
func claimExpiryMillis(ttl time.Duration) int64 {
	ms := ttl.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return ms
}

func (s *JobStore) ClaimJob(ctx context.Context, jobID string, ttl time.Duration) (bool, error) {
	res, err := claimScript.Run(ctx, s.client.cli, []string{statusKey(jobID)},
		string(model.JobStatusPending), string(model.JobStatusProcessing), claimExpiryMillis(ttl)).Result()
	if err != nil {
		return false, fmt.Errorf("claim job %s: %w", jobID, err)
	}
	n, _ := res.(int64)
	return n == 1, nil
}

func (s *JobStore) AppendProgress(ctx context.Context, jobID, message string) error {
	if err := s.client.RPush(ctx, progressKey(jobID), message); err != nil {
		return fmt.Errorf("append progress %s: %w", jobID, err)
	}
	return nil
}

func (s *JobStore) PopProgress(ctx context.Context, jobID string) (string, error) {
	v, err := s.client.LPop(ctx, progressKey(jobID))
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("pop progress %s: %w", jobID, err)
	}
	return v, nil
}

func (s *JobStore) PutResult(ctx context.Context, jobID string, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, resultKey(jobID), payload, ttl); err != nil {
		return fmt.Errorf("put result %s: %w", jobID, err)
	}
	return nil
}

func (s *JobStore) GetResult(ctx context.Context, jobID string) ([]byte, error) {
	v, err := s.client.Get(ctx, resultKey(jobID))
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", jobID, err)
	}
	return []byte(v), nil
}

func (s *JobStore) DeleteJob(ctx context.Context, jobID string) error {
	return s.client.Del(ctx, jobKey(jobID), statusKey(jobID), resultKey(jobID), progressKey(jobID))
}

func (s *JobStore) DeleteDescriptor(ctx context.Context, jobID string) error {
	return s.client.Del(ctx, jobKey(jobID))
}
