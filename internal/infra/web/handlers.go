package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
	"commander-deck-service/internal/usecase"

	"github.com/go-chi/chi/v5"
)

// generateHandler accepts a generation request and returns the job ID
// immediately; construction happens on the worker loop.
func (s *Server) generateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req model.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			userID = "anonymous"
		}

		jobID, err := s.submitUC.Submit(ctx, userID, &req)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidArgument) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.log.Error().Err(err).Msg("job submission failed")
			http.Error(w, "Failed to submit job", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(struct {
			JobID string `json:"jobId"`
		}{JobID: jobID})
	}
}

// jobEventsHandler streams a job's progress and terminal result as
// server-sent events: zero or more "step" events, then one "deck" or
// "error" event, then the stream closes.
func (s *Server) jobEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobID")
		if jobID == "" {
			http.Error(w, "Missing job ID", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		emit := func(ev usecase.Event) error {
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, ev.Data); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		}

		if err := s.relayUC.Stream(r.Context(), jobID, emit); err != nil {
			// Client gone or write failed; the job and its TTLs are unaffected.
			s.log.Debug().Err(err).Str("job_id", jobID).Msg("event stream ended early")
		}
	}
}
