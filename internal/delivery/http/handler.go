package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pricelens/backend/internal/delivery/render"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/usecase"
)

// Comparer is the comparison use case consumed by the handlers
type Comparer interface {
	Compare(ctx context.Context, productNames []string, target domain.Currency) (domain.ComparisonResult, error)
	ResolveCurrency(code string) (domain.Currency, error)
	ListRecords(ctx context.Context) ([]domain.LookupRecord, error)
}

// HandlerConfig holds handler configuration
type HandlerConfig struct {
	DefaultCurrency string
	RequestTimeout  time.Duration
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparer Comparer
	config   HandlerConfig
}

// NewHandler creates a new HTTP handler
func NewHandler(comparer Comparer, config HandlerConfig) *Handler {
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = string(domain.USD)
	}
	return &Handler{
		comparer: comparer,
		config:   config,
	}
}

// CompareRequest is the body of a price comparison request.
// Products and Query may be combined; Query is split on commas.
type CompareRequest struct {
	Products []string `json:"products"`
	Query    string   `json:"query"`
	Currency string   `json:"currency"`
}

// productNames merges both input forms into one ordered list
func (r CompareRequest) productNames() []string {
	names := usecase.NormalizeProductNames(r.Products)
	if r.Query != "" {
		names = append(names, usecase.ParseProductList(r.Query)...)
	}
	return names
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// ComparePrices looks up every requested product on both marketplaces
func (h *Handler) ComparePrices(c *gin.Context) {
	if h.comparer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "comparison service unavailable"})
		return
	}

	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	code := req.Currency
	if code == "" {
		code = h.config.DefaultCurrency
	}
	target, err := h.comparer.ResolveCurrency(code)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unsupported currency",
			Message: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if h.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.RequestTimeout)
		defer cancel()
	}

	result, err := h.comparer.Compare(ctx, req.productNames(), target)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("format") == "text" {
		var buf bytes.Buffer
		if err := render.Comparison(&buf, result); err != nil {
			h.writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListRecords returns every stored lookup record
func (h *Handler) ListRecords(c *gin.Context) {
	if h.comparer == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "comparison service unavailable"})
		return
	}

	records, err := h.comparer.ListRecords(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("format") == "text" {
		var buf bytes.Buffer
		if err := render.Records(&buf, records); err != nil {
			h.writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedCurrency), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"})
	default:
		zap.L().Error("http: request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
