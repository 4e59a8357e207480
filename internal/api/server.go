package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/baxromumarov/job-extractor/internal/core"
	"github.com/baxromumarov/job-extractor/internal/learning"
	"github.com/baxromumarov/job-extractor/internal/observability"
)

// Scraper is the part of core.Service the handlers use.
type Scraper interface {
	ScrapeJob(ctx context.Context, rawURL string) core.Response
	TestScraping(ctx context.Context, rawURL string) core.TestResult
	LearningStats(domain string) learning.Stats
	LearningDocument() learning.Document
}

type Server struct {
	router   *chi.Mux
	scraper  Scraper
	validate *validator.Validate
	origins  []string
}

// NewServer builds the router. An empty origins list allows every origin.
func NewServer(scraper Scraper, origins []string) *Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s := &Server{
		router:   chi.NewRouter(),
		scraper:  scraper,
		validate: validator.New(),
		origins:  origins,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Handle("/metrics", observability.MetricsHandler())

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/scrape", s.handleScrape)
		r.Get("/scrape/test", s.handleTestScrape)
		r.Get("/learning", s.handleLearningDocument)
		r.Get("/learning/{domain}", s.handleLearningStats)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, observability.Snapshot())
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		status = http.StatusInternalServerError
		response = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
