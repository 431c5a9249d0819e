package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/use-agent/pagefields/models"
)

// Extractor resolves a field map against the page at url.
type Extractor interface {
	Extract(ctx context.Context, url string, fields models.FieldMap) (*models.Result, error)
}

// Data returns a handler for GET/POST /api/v1/data.
//
// Flow:
//  1. Bind url and fields from the query string or form body.
//  2. Reject blank parameters (400) before decoding fields.
//  3. Decode fields into a FieldMap (400 "Invalid JSON: ..." on failure).
//  4. Extractor.Extract → 200 with the result, or 500 with the error message.
func Data(x Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Bind parameters ──────────────────────────────────────
		var req models.DataRequest
		if err := c.ShouldBindWith(&req, binding.Form); err != nil {
			respondError(c, models.ErrInvalidInput())
			return
		}

		// ── 2-3. Validate and decode ────────────────────────────────
		fields, err := req.FieldMap()
		if err != nil {
			respondError(c, err)
			return
		}

		// ── 4. Extract ──────────────────────────────────────────────
		result, err := x.Extract(c.Request.Context(), req.URL, fields)
		if err != nil {
			slog.Warn("extraction failed", "url", req.URL, "error", err)
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// respondError maps an error to its HTTP status and writes {"error": msg}.
// Errors that are not a ScrapeError keep their message unmodified.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(scrapeErr), scrapeErr.ToResponse())
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeMalformedInput:
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}
