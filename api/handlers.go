package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/sitesearch/search"
)

// ErrSearcherRequired is returned when NewHandler is called without a searcher.
var ErrSearcherRequired = errors.New("searcher required")

// Handler holds HTTP request handlers
type Handler struct {
	searcher *search.Searcher
	logger   *slog.Logger
}

// NewHandler creates a new handler instance
func NewHandler(searcher *search.Searcher, logger *slog.Logger) (*Handler, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		searcher: searcher,
		logger:   logger.With("component", "api"),
	}, nil
}

// Search handles search requests (both GET and POST)
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest

	if c.Request.Method == http.MethodGet {
		parsed, err := parseQueryParams(c)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_LIMIT", err.Error())
			return
		}
		req = parsed
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid search request body", "err", err)
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body: "+err.Error())
		return
	}

	outcome, err := h.searcher.Run(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		h.logger.Error("search failed", "query", req.Query, "err", err)
		writeError(c, http.StatusServiceUnavailable, "SEARCH_ERROR", err.Error())
		return
	}

	resp := SearchResponse{
		Query:         req.Query,
		Strategy:      string(outcome.Strategy),
		Count:         len(outcome.Results),
		Results:       outcome.Results,
		FailedSources: outcome.FailedSources,
	}
	if strings.EqualFold(req.Format, FormatCompact) {
		resp.Results = Compact(outcome.Results)
	}
	c.JSON(http.StatusOK, resp)
}

// parseQueryParams reads q, limit and format. A missing limit selects the
// default; a limit that is not an integer is an error.
func parseQueryParams(c *gin.Context) (SearchRequest, error) {
	req := SearchRequest{
		Query:  c.Query("q"),
		Format: c.Query("format"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("limit must be an integer")
		}
		req.Limit = limit
	}
	return req, nil
}

// HealthCheck reports liveness and whether semantic ranking is enabled.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Semantic: h.searcher.SemanticEnabled(),
	})
}

func writeError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{
		Error:     msg,
		Code:      code,
		Timestamp: time.Now(),
	})
}
