package movement

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockbridge/stockbridge/internal/audit"
	"github.com/stockbridge/stockbridge/internal/observability"
	"github.com/stockbridge/stockbridge/internal/platform/httpx"
)

const endpointName = "erp_stock"

// AuditPort records processed webhook outcomes.
type AuditPort interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Handler is the thin boundary between the ERP webhook route and the engine.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
	audit   AuditPort
}

// NewHandler constructs the webhook handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics, auditLog AuditPort) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, metrics: metrics, audit: auditLog}
}

// MountRoutes registers the ERP webhook route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/erp/stock", h.handleStockEvent)
}

func (h *Handler) handleStockEvent(w http.ResponseWriter, r *http.Request) {
	var evt Event
	if err := httpx.DecodeJSON(r, &evt); err != nil {
		h.logger.Warn("malformed stock webhook payload", slog.Any("error", err))
		h.record(r.Context(), "", httpx.StatusError, "malformed JSON payload")
		httpx.Respond(w, http.StatusBadRequest, httpx.StatusError, "malformed JSON payload")
		return
	}

	res, err := h.service.HandleEvent(r.Context(), evt)
	if err != nil {
		h.logger.Error("stock webhook failed",
			slog.String("action", string(evt.Action)),
			slog.String("correlation_id", evt.CorrelationID()),
			slog.Any("error", err))
		h.record(r.Context(), evt.CorrelationID(), httpx.StatusError, err.Error())
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("stock webhook processed",
		slog.String("action", string(evt.Action)),
		slog.String("correlation_id", evt.CorrelationID()),
		slog.String("status", res.Status))
	h.record(r.Context(), evt.CorrelationID(), res.Status, res.Message)
	httpx.Respond(w, http.StatusOK, res.Status, res.Message)
}

func (h *Handler) record(ctx context.Context, correlationID, status, message string) {
	h.metrics.RecordOutcome(endpointName, status)
	if h.audit == nil {
		return
	}
	entry := audit.Entry{
		Endpoint:      endpointName,
		CorrelationID: correlationID,
		Status:        status,
		Message:       message,
	}
	if err := h.audit.Record(ctx, entry); err != nil {
		h.logger.Warn("audit record failed", slog.Any("error", err))
	}
}
