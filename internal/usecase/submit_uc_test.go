package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func validRequest() *model.GenerateRequest {
	return &model.GenerateRequest{
		CommanderRef: "cmd-1",
		CardPool: []model.Card{
			{ID: "cmd-1", Name: "Test Commander", TypeLine: "Legendary Creature — Human",
				Legalities: map[string]string{"commander": "legal"}, Quantity: 1},
			{ID: "c-1", Name: "Filler", TypeLine: "Creature — Human",
				Legalities: map[string]string{"commander": "legal"}, Quantity: 1},
		},
		Bracket: 3,
	}
}

func TestSubmit_CreatesPendingJob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemJobStore()
	uc := NewSubmitUseCase(store, time.Hour, testLogger())

	jobID, err := uc.Submit(ctx, "user-1", validRequest())
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if jobID == "" {
		t.Fatalf("expected a job ID")
	}

	job, err := store.GetJob(ctx, jobID)
	if err != nil {
		t.Fatalf("job was not stored: %v", err)
	}
	if job.Status != model.JobStatusPending {
		t.Fatalf("expected pending status, got %q", job.Status)
	}
	if job.UserID != "user-1" {
		t.Fatalf("expected user-1, got %q", job.UserID)
	}
	if store.jobTTLs[jobID] != time.Hour {
		t.Fatalf("expected 1h TTL, got %v", store.jobTTLs[jobID])
	}
}

func TestSubmit_ValidationFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*model.GenerateRequest)
	}{
		{"empty pool", func(r *model.GenerateRequest) { r.CardPool = nil }},
		{"bracket too low", func(r *model.GenerateRequest) { r.Bracket = 0 }},
		{"bracket too high", func(r *model.GenerateRequest) { r.Bracket = 6 }},
		{"missing commander ref", func(r *model.GenerateRequest) { r.CommanderRef = "" }},
		{"commander not in pool", func(r *model.GenerateRequest) { r.CommanderRef = "nope" }},
	}
	for _, tc := range cases {
		store := newMemJobStore()
		uc := NewSubmitUseCase(store, time.Hour, testLogger())

		req := validRequest()
		tc.mutate(req)
		_, err := uc.Submit(ctx, "user-1", req)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
		if !store.empty() {
			t.Fatalf("%s: no job should be created on validation failure", tc.name)
		}
	}
}

func TestSubmit_ResolvesCommanderByName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemJobStore()
	uc := NewSubmitUseCase(store, time.Hour, testLogger())

	req := validRequest()
	req.CommanderRef = "Test Commander"
	if _, err := uc.Submit(ctx, "user-1", req); err != nil {
		t.Fatalf("name references must resolve: %v", err)
	}
}

func TestSubmit_StoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemJobStore()
	store.putErr = errors.New("redis down")
	uc := NewSubmitUseCase(store, time.Hour, testLogger())

	if _, err := uc.Submit(ctx, "user-1", validRequest()); err == nil {
		t.Fatalf("expected store failure to surface")
	}
}
