package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/okane-data/tickbar/internal/aggregate"
	"github.com/okane-data/tickbar/internal/clean"
	"github.com/okane-data/tickbar/internal/domain"
)

// Interface requirements for the dataset behind the API
type Dataset interface {
	Aggregate(ctx context.Context, req aggregate.Request) ([]domain.Bar, error)
	Report() clean.Report
	RowsLoaded() int
	Size() int
}

type Handler struct {
	ds       Dataset
	validate *validator.Validate
	metrics  *metrics
}

func NewHandler(ds Dataset, m *metrics) *Handler {
	return &Handler{
		ds:       ds,
		validate: validator.New(),
		metrics:  m,
	}
}

// Routes returns the versioned API routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/bars", h.GetBars)
	r.Get("/report", h.GetReport)
	return r
}

type barPayload struct {
	Start  string  `json:"bar_start"`
	End    string  `json:"bar_end"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type barsResponse struct {
	Bars  []barPayload `json:"bars"`
	Count int          `json:"count"`
}

// GetBars handles POST /v1/bars: an aggregation request over the loaded
// dataset. Caller-input errors come back as 400 with a stable error code.
func (h *Handler) GetBars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req aggregate.Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Render(w, r, newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", err.Error()))
		return
	}

	bars, err := h.ds.Aggregate(ctx, req)
	h.metrics.observe(ctx, len(bars), err)
	if err != nil {
		slog.WarnContext(ctx, "aggregation rejected",
			"start", req.Start, "end", req.End, "interval", req.Interval, "error", err)
		render.Render(w, r, fromDomainError(err))
		return
	}

	payload := make([]barPayload, 0, len(bars))
	for _, b := range bars {
		payload = append(payload, barPayload{
			Start:  b.Start.Format(domain.TimeLayout),
			End:    b.End.Format(domain.TimeLayout),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	render.JSON(w, r, barsResponse{Bars: payload, Count: len(payload)})
}

// GetReport handles GET /v1/report: the cleaner's rejection report.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.ds.Report())
}
