package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"commander-deck-service/internal/deckgen"
	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/domain/ports/repository"
	"commander-deck-service/internal/infra/logging"
	"commander-deck-service/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// DeckJobProcessor discovers pending jobs, claims them, runs the deck
// builder and scorer, and writes progress and results back to the store.
// It may be replicated: the claim is an atomic status transition, so two
// replicas cannot both own one job.
type DeckJobProcessor struct {
	store   repository.JobStore
	catalog repository.CardCatalog
	tables  *deckgen.ScoringTables
	log     *zerolog.Logger

	pollInterval time.Duration
	claimTTL     time.Duration
	resultTTL    time.Duration
}

func NewDeckJobProcessor(
	store repository.JobStore,
	catalog repository.CardCatalog,
	tables *deckgen.ScoringTables,
	log *zerolog.Logger,
	pollInterval, claimTTL, resultTTL time.Duration,
) *DeckJobProcessor {
	return &DeckJobProcessor{
		store:        store,
		catalog:      catalog,
		tables:       tables,
		log:          log,
		pollInterval: pollInterval,
		claimTTL:     claimTTL,
		resultTTL:    resultTTL,
	}
}

// Start runs the polling loop until the context is cancelled.
// This should be run in a goroutine.
func (p *DeckJobProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Dur("poll_interval", p.pollInterval).Msg("deck job processor started")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("deck job processor stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				p.pass(ctx)
				return nil
			})
		}
	}
}

// pass is one poll sweep: reap terminal jobs, claim and process pending
// ones. Store errors are logged and retried on the next pass; a single
// failed read or write never aborts the loop.
func (p *DeckJobProcessor) pass(ctx context.Context) {
	ids, err := p.store.ListJobIDs(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("failed to enumerate jobs")
		return
	}
	for _, jobID := range ids {
		status, err := p.store.GetStatus(ctx, jobID)
		if errors.Is(err, domain.ErrNotFound) {
			// Descriptor without a status key: the status expired first.
			// Remove the orphaned group.
			if derr := p.store.DeleteJob(ctx, jobID); derr != nil {
				p.log.Error().Err(derr).Str("job_id", jobID).Msg("failed to delete orphaned job")
			}
			continue
		}
		if err != nil {
			// Transient store failure: leave the job alone and retry on the
			// next pass.
			p.log.Error().Err(err).Str("job_id", jobID).Msg("status read failed")
			continue
		}
		if status.Terminal() {
			// Reap: a terminal job still holding its descriptor was never
			// delivered; delete the whole group without reprocessing.
			if err := p.store.DeleteJob(ctx, jobID); err != nil {
				p.log.Error().Err(err).Str("job_id", jobID).Msg("failed to reap terminal job")
				continue
			}
			metrics.IncReapedJob()
			continue
		}
		if status != model.JobStatusPending {
			continue
		}
		claimed, err := p.store.ClaimJob(ctx, jobID, p.claimTTL)
		if err != nil {
			p.log.Error().Err(err).Str("job_id", jobID).Msg("claim failed")
			continue
		}
		if !claimed {
			continue // lost the race to another worker
		}
		p.processJob(ctx, jobID)
	}
}

func (p *DeckJobProcessor) processJob(ctx context.Context, jobID string) {
	job, err := p.store.GetJob(ctx, jobID)
	if errors.Is(err, domain.ErrNotFound) {
		p.log.Error().Err(err).Str("job_id", jobID).Msg("claimed job has no descriptor")
		p.fail(ctx, jobID, "job descriptor missing")
		return
	}
	if err != nil {
		// Transient descriptor read failure: do not fail the job; the claim
		// TTL expires and the group is reclaimed.
		p.log.Error().Err(err).Str("job_id", jobID).Msg("descriptor read failed")
		return
	}

	ctx = logging.WithUserID(logging.WithJobID(ctx, jobID), job.UserID)
	log := logging.With(ctx, p.log)

	log.Info().Msg("processing deck job")
	start := time.Now()

	result, err := p.runJob(ctx, job)
	elapsed := time.Since(start)
	metrics.ObserveBuildDuration(elapsed.Seconds())

	if err != nil {
		log.Error().Err(err).Msg("deck job failed")
		p.fail(ctx, jobID, err.Error())
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		p.fail(ctx, jobID, fmt.Sprintf("encode result: %v", err))
		return
	}
	if err := p.store.PutResult(ctx, jobID, payload, p.resultTTL); err != nil {
		log.Error().Err(err).Msg("failed to write result")
		p.fail(ctx, jobID, "failed to persist result")
		return
	}
	if err := p.store.SetStatus(ctx, jobID, model.JobStatusComplete, p.resultTTL); err != nil {
		log.Error().Err(err).Msg("failed to mark job complete")
		return
	}
	// Drop the root descriptor; the terminal keys stay for the relay's
	// grace window.
	if err := p.store.DeleteDescriptor(ctx, jobID); err != nil {
		log.Warn().Err(err).Msg("failed to delete descriptor")
	}

	metrics.IncDeckJob(string(model.JobStatusComplete))
	metrics.ObserveDeckScore(result.Analysis.OverallScore)
	log.Info().Float64("score", result.Analysis.OverallScore).
		Str("grade", result.Analysis.Grade).Dur("duration", elapsed).Msg("deck job finished")
}

// runJob builds and scores one deck. Panics from the scorer are recovered
// and surfaced as ordinary failures so the loop never crashes.
func (p *DeckJobProcessor) runJob(ctx context.Context, job *model.DeckJob) (result *model.DeckResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("deck generation panicked: %v", r)
		}
	}()

	if err := p.enrichPool(ctx, &job.Request); err != nil {
		return nil, err
	}

	progress := func(msg string) {
		if perr := p.store.AppendProgress(ctx, job.ID, msg); perr != nil {
			p.log.Warn().Err(perr).Str("job_id", job.ID).Msg("failed to append progress")
		}
	}

	deck, err := deckgen.Build(&job.Request, p.tables, progress)
	if err != nil {
		return nil, err
	}

	progress("Scoring deck")
	analysis := deckgen.Score(deck, p.tables)

	return &model.DeckResult{
		Commander:  deck.Commander,
		Deck:       deck.Cards,
		DeckSize:   deck.DeckSize,
		TotalCards: deck.TotalCards,
		Analysis:   *analysis,
	}, nil
}

// enrichPool fills in attributes for pool entries submitted by reference
// only (no type line). Entries unknown to the catalog are left as-is; the
// builder's legality filter drops them.
func (p *DeckJobProcessor) enrichPool(ctx context.Context, req *model.GenerateRequest) error {
	var missing []string
	for i := range req.CardPool {
		if req.CardPool[i].TypeLine == "" && req.CardPool[i].ID != "" {
			missing = append(missing, req.CardPool[i].ID)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	found, err := p.catalog.FindByIDs(ctx, missing)
	if err != nil {
		return fmt.Errorf("card catalog lookup: %w", err)
	}
	for i := range req.CardPool {
		entry := &req.CardPool[i]
		if entry.TypeLine != "" {
			continue
		}
		if full, ok := found[entry.ID]; ok {
			qty := entry.Quantity
			*entry = *full
			entry.Quantity = qty
		}
	}
	return nil
}

func (p *DeckJobProcessor) fail(ctx context.Context, jobID, message string) {
	payload, _ := json.Marshal(map[string]string{"error": message})
	if err := p.store.PutResult(ctx, jobID, payload, p.resultTTL); err != nil {
		p.log.Error().Err(err).Str("job_id", jobID).Msg("failed to write failure result")
	}
	if err := p.store.SetStatus(ctx, jobID, model.JobStatusFailed, p.resultTTL); err != nil {
		p.log.Error().Err(err).Str("job_id", jobID).Msg("failed to mark job failed")
	}
	if err := p.store.DeleteDescriptor(ctx, jobID); err != nil {
		p.log.Warn().Err(err).Str("job_id", jobID).Msg("failed to delete descriptor")
	}
	metrics.IncDeckJob(string(model.JobStatusFailed))
}
