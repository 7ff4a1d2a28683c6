package usecase

import (
	"context"
	"fmt"
	"time"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SubmitUseCase accepts a generation request and enqueues it as a pending
// job. It returns immediately and never blocks on deck construction.
type SubmitUseCase interface {
	Submit(ctx context.Context, userID string, req *model.GenerateRequest) (string, error)
}

var _ SubmitUseCase = (*submitUseCase)(nil)

type submitUseCase struct {
	store  repository.JobStore
	jobTTL time.Duration
	log    *zerolog.Logger
}

func NewSubmitUseCase(store repository.JobStore, jobTTL time.Duration, log *zerolog.Logger) SubmitUseCase {
	return &submitUseCase{store: store, jobTTL: jobTTL, log: log}
}

func (uc *submitUseCase) Submit(ctx context.Context, userID string, req *model.GenerateRequest) (string, error) {
	if err := validateRequest(req); err != nil {
		return "", err
	}

	job := &model.DeckJob{
		ID:        uuid.NewString(),
		UserID:    userID,
		Request:   *req,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.store.PutJob(ctx, job, uc.jobTTL); err != nil {
		return "", fmt.Errorf("enqueue job: %w", err)
	}

	uc.log.Info().Str("job_id", job.ID).Str("user_id", userID).
		Int("pool_size", len(req.CardPool)).Int("bracket", req.Bracket).
		Msg("deck generation job submitted")
	return job.ID, nil
}

func validateRequest(req *model.GenerateRequest) error {
	if req == nil || len(req.CardPool) == 0 {
		return fmt.Errorf("%w: card pool is empty", domain.ErrInvalidArgument)
	}
	if req.Bracket < 1 || req.Bracket > 5 {
		return fmt.Errorf("%w: bracket must be between 1 and 5, got %d", domain.ErrInvalidArgument, req.Bracket)
	}
	if req.CommanderRef == "" {
		return fmt.Errorf("%w: commanderRef is required", domain.ErrInvalidArgument)
	}
	for i := range req.CardPool {
		c := &req.CardPool[i]
		if c.ID == req.CommanderRef || c.Name == req.CommanderRef {
			return nil
		}
	}
	return fmt.Errorf("%w: commander %q not present in card pool", domain.ErrInvalidArgument, req.CommanderRef)
}
