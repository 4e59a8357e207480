package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/baxromumarov/job-extractor/internal/core"
	"github.com/baxromumarov/job-extractor/internal/observability"
)

const maxRequestBody = 1 << 16

type ScrapeRequest struct {
	URL string `json:"url" validate:"required,url,startswith=http"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if msg, ok := s.validateRequest(req); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	resp := s.scraper.ScrapeJob(r.Context(), req.URL)
	respondJSON(w, statusFor(resp), resp)
}

func (s *Server) handleTestScrape(w http.ResponseWriter, r *http.Request) {
	req := ScrapeRequest{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if msg, ok := s.validateRequest(req); !ok {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	respondJSON(w, http.StatusOK, s.scraper.TestScraping(r.Context(), req.URL))
}

func (s *Server) handleLearningDocument(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.scraper.LearningDocument())
}

func (s *Server) handleLearningStats(w http.ResponseWriter, r *http.Request) {
	domain := normalizeDomain(chi.URLParam(r, "domain"))
	if domain == "" {
		respondError(w, http.StatusBadRequest, "domain is required")
		return
	}
	respondJSON(w, http.StatusOK, s.scraper.LearningStats(domain))
}

// validateRequest returns a client-facing message for the first failed rule.
func (s *Server) validateRequest(req ScrapeRequest) (string, bool) {
	err := s.validate.Struct(req)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "required" {
		return "url is required", false
	}
	return "url must be an absolute http(s) URL", false
}

// statusClientClosedRequest is the non-standard status proxies log for abandoned requests.
const statusClientClosedRequest = 499

// statusFor maps a scrape response to an HTTP status. Failures still carry the fallback
// record in the body.
func statusFor(resp core.Response) int {
	if resp.Success {
		return http.StatusOK
	}
	switch resp.ErrorKind {
	case observability.ErrorInvalidURL:
		return http.StatusBadRequest
	case observability.ErrorTimeout:
		return http.StatusGatewayTimeout
	case observability.ErrorExtractionEmpty:
		return http.StatusUnprocessableEntity
	case observability.ErrorCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusBadGateway
	}
}

func normalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	return strings.TrimPrefix(d, "www.")
}
