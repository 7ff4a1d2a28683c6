package web

import (
	"net/http"

	"commander-deck-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the job submission endpoint and the per-job event stream.
type Server struct {
	submitUC usecase.SubmitUseCase
	relayUC  usecase.RelayUseCase
	log      *zerolog.Logger
}

func NewServer(submitUC usecase.SubmitUseCase, relayUC usecase.RelayUseCase, logger *zerolog.Logger) *Server {
	return &Server{submitUC: submitUC, relayUC: relayUC, log: logger}
}

// Routes builds the router. Identity is resolved upstream; the gateway
// forwards it in the X-User-ID header.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Post("/api/v1/decks/generate", s.generateHandler())
	r.Get("/api/v1/jobs/{jobID}/events", s.jobEventsHandler())

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
