package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Event types forwarded to the client, in order: zero or more steps, then
// exactly one terminal deck or error event.
const (
	EventStep  = "step"
	EventDeck  = "deck"
	EventError = "error"
)

// Event is one entry of a job's ordered progress stream.
type Event struct {
	Type string
	Data []byte
}

// EmitFunc forwards one event to the client. A non-nil error stops the relay
// (typically the client went away).
type EmitFunc func(Event) error

// RelayUseCase drains a job's progress messages and terminal result from the
// store and forwards them as an ordered event stream, then cleans up.
type RelayUseCase interface {
	Stream(ctx context.Context, jobID string, emit EmitFunc) error
}

var _ RelayUseCase = (*relayUseCase)(nil)

type relayUseCase struct {
	store        repository.JobStore
	pollInterval time.Duration
	log          *zerolog.Logger
}

func NewRelayUseCase(store repository.JobStore, pollInterval time.Duration, log *zerolog.Logger) RelayUseCase {
	return &relayUseCase{store: store, pollInterval: pollInterval, log: log}
}

func (uc *relayUseCase) Stream(ctx context.Context, jobID string, emit EmitFunc) error {
	for {
		if err := uc.drainProgress(ctx, jobID, emit); err != nil {
			return uc.emitError(jobID, emit, "progress stream interrupted")
		}

		status, err := uc.store.GetStatus(ctx, jobID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return uc.emitError(jobID, emit, domain.ErrJobExpired.Error())
		case err != nil:
			uc.log.Error().Err(err).Str("job_id", jobID).Msg("relay status read failed")
			return uc.emitError(jobID, emit, "job status unavailable")
		}

		// A result is only trusted once the status is observed terminal.
		switch status {
		case model.JobStatusComplete:
			if err := uc.drainProgress(ctx, jobID, emit); err != nil {
				return uc.emitError(jobID, emit, "progress stream interrupted")
			}
			payload, err := uc.store.GetResult(ctx, jobID)
			if err != nil {
				uc.log.Error().Err(err).Str("job_id", jobID).Msg("relay result read failed")
				return uc.emitError(jobID, emit, "job result unavailable")
			}
			uc.cleanup(ctx, jobID)
			return emit(Event{Type: EventDeck, Data: payload})

		case model.JobStatusFailed:
			if err := uc.drainProgress(ctx, jobID, emit); err != nil {
				return uc.emitError(jobID, emit, "progress stream interrupted")
			}
			payload, err := uc.store.GetResult(ctx, jobID)
			if err != nil {
				payload = errorPayload("deck generation failed")
			}
			uc.cleanup(ctx, jobID)
			return emit(Event{Type: EventError, Data: payload})
		}

		select {
		case <-ctx.Done():
			// Client disconnected; the job keeps running and TTLs reap it.
			return ctx.Err()
		case <-time.After(uc.pollInterval):
		}
	}
}

func (uc *relayUseCase) drainProgress(ctx context.Context, jobID string, emit EmitFunc) error {
	for {
		msg, err := uc.store.PopProgress(ctx, jobID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			uc.log.Error().Err(err).Str("job_id", jobID).Msg("relay progress read failed")
			return err
		}
		if err := emit(Event{Type: EventStep, Data: []byte(msg)}); err != nil {
			return err
		}
	}
}

func (uc *relayUseCase) cleanup(ctx context.Context, jobID string) {
	if err := uc.store.DeleteJob(ctx, jobID); err != nil {
		// TTLs are the backstop; a failed delete is not fatal.
		uc.log.Warn().Err(err).Str("job_id", jobID).Msg("relay cleanup failed")
	}
}

func (uc *relayUseCase) emitError(jobID string, emit EmitFunc, msg string) error {
	uc.log.Debug().Str("job_id", jobID).Str("error", msg).Msg("relay terminal error event")
	return emit(Event{Type: EventError, Data: errorPayload(msg)})
}

func errorPayload(msg string) []byte {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return b
}
