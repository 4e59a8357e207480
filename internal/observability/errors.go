package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/baxromumarov/job-extractor/internal/httpx"
	"github.com/baxromumarov/job-extractor/internal/learning"
	"github.com/baxromumarov/job-extractor/internal/scraper"
	"github.com/baxromumarov/job-extractor/internal/urlutil"
)

const (
	ErrorInvalidURL      = "invalid_url"
	ErrorFetchFailed     = "fetch_failed"
	ErrorRateLimit       = "rate_limit"
	ErrorExtractionEmpty = "extraction_empty"
	ErrorTimeout         = "timeout"
	ErrorCanceled        = "canceled"
	ErrorPersistence     = "persistence"
	ErrorUnknown         = "unknown"
)

// ClassifyError maps err onto the error taxonomy used for counters and failure responses.
func ClassifyError(err error) string {
	if err == nil {
		return ErrorUnknown
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	case errors.Is(err, context.Canceled):
		return ErrorCanceled
	case errors.Is(err, urlutil.ErrInvalidURL):
		return ErrorInvalidURL
	case errors.Is(err, learning.ErrPersistence), errors.Is(err, learning.ErrCorrupt):
		return ErrorPersistence
	case errors.Is(err, scraper.ErrExtractionEmpty):
		return ErrorExtractionEmpty
	}
	return ClassifyFetchError(err)
}

// ClassifyFetchError distinguishes throttling from other fetch failures.
func ClassifyFetchError(err error) string {
	var fe *httpx.FetchError
	if errors.As(err, &fe) {
		if fe.Status == http.StatusTooManyRequests {
			return ErrorRateLimit
		}
		return ErrorFetchFailed
	}
	return ErrorUnknown
}
