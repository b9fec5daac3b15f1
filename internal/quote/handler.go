// Package quote exposes the pricing core over HTTP.
package quote

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/priceslice/priceslice/internal/format"
	"github.com/priceslice/priceslice/internal/observability"
	"github.com/priceslice/priceslice/internal/platform/httpx"
	"github.com/priceslice/priceslice/internal/pricing"
)

// Handler serves breakdown and parse endpoints.
type Handler struct {
	logger       *slog.Logger
	metrics      *observability.Metrics
	defaultModel pricing.Model
	now          func() time.Time
}

// NewHandler constructs a Handler. defaultModel is used when a request does
// not name a model.
func NewHandler(logger *slog.Logger, metrics *observability.Metrics, defaultModel pricing.Model) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultModel == "" {
		defaultModel = pricing.ModelCoupon
	}
	return &Handler{logger: logger, metrics: metrics, defaultModel: defaultModel, now: time.Now}
}

// MountRoutes registers quote routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/breakdown", h.handleBreakdown)
	r.Get("/parse", h.handleParse)
}

// BreakdownResponse is the body returned by POST /breakdown.
type BreakdownResponse struct {
	pricing.Quote
	Currency string `json:"currency"`
	Text     string `json:"text"`
}

// ParseResponse is the body returned by GET /parse.
type ParseResponse struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

func (h *Handler) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	model := h.defaultModel
	if name := r.URL.Query().Get("model"); name != "" {
		parsed, err := pricing.ParseModel(name)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		model = parsed
	}

	body, err := httpx.ReadBody(r)
	if err != nil {
		h.logger.Warn("read breakdown body", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: unreadable body", httpx.ErrValidation))
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	q, err := pricing.DecodeQuote(model, body)
	if err != nil {
		if errors.Is(err, pricing.ErrUnknownModel) {
			h.logger.Error("breakdown with unsupported model", slog.String("model", string(model)))
		}
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	h.metrics.ObserveBreakdown(string(q.Model))

	httpx.JSON(w, http.StatusOK, BreakdownResponse{
		Quote:    q,
		Currency: format.Currency(),
		Text:     format.QuoteText(q, h.now()),
	})
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	httpx.JSON(w, http.StatusOK, ParseResponse{Text: text, Value: pricing.ParseNumber(text)})
}
