// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/civimatch/cliparse"
	"github.com/danielhkuo/civimatch/handlers"
	"github.com/danielhkuo/civimatch/metrics"
	"github.com/danielhkuo/civimatch/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, m *metrics.Metrics) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	matchHandler := handlers.NewMatchHandler(db, cfg, m)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", m.Handler())

	// Election management (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}/admin", middleware.WithLogging(electionHandler.GetElectionAdmin))
	mux.HandleFunc("POST /elections/{id}/categories", middleware.WithLogging(electionHandler.AddCategory))
	mux.HandleFunc("POST /elections/{id}/categories/{categoryID}/questions", middleware.WithLogging(electionHandler.AddQuestion))
	mux.HandleFunc("POST /elections/{id}/candidates", middleware.WithLogging(electionHandler.AddCandidate))
	mux.HandleFunc("PUT /elections/{id}/candidates/{candidateID}/answers", middleware.WithLogging(electionHandler.SetCandidateAnswers))
	mux.HandleFunc("POST /elections/{id}/publish", middleware.WithLogging(electionHandler.PublishElection))

	// Voter operations (public)
	mux.HandleFunc("GET /elections/{slug}", middleware.WithLogging(analyticsHandler.GetElection))
	mux.HandleFunc("POST /elections/{slug}/match", middleware.WithLogging(matchHandler.Match))

	// Analytics (public, read-only audit trail)
	mux.HandleFunc("GET /elections/{slug}/summary", middleware.WithLogging(analyticsHandler.GetSummary))
	mux.HandleFunc("GET /elections/{slug}/visitors", middleware.WithLogging(analyticsHandler.GetVisitors))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("civimatch API v1"))
	})

	// The questionnaire is embedded on third-party sites
	return middleware.CORS(mux)
}
