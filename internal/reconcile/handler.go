package reconcile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockbridge/stockbridge/internal/audit"
	"github.com/stockbridge/stockbridge/internal/observability"
	"github.com/stockbridge/stockbridge/internal/platform/httpx"
)

const endpointName = "inventory_adjustment"

// AuditPort records processed webhook outcomes.
type AuditPort interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Handler exposes the inventory-platform webhook route.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	metrics  *observability.Metrics
	audit    AuditPort
}

// NewHandler constructs the webhook handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics, auditLog AuditPort) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		metrics:  metrics,
		audit:    auditLog,
	}
}

// MountRoutes registers the inventory webhook route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/inventory/adjustments", h.handleAdjustment)
}

// handleAdjustment acknowledges structurally unusable payloads with an
// ignored result rather than an error. The platform retries on failure
// status codes, and a payload missing its identifying fields will never
// become processable.
func (h *Handler) handleAdjustment(w http.ResponseWriter, r *http.Request) {
	var note Notification
	if err := httpx.DecodeJSON(r, &note); err != nil {
		h.logger.Warn("malformed adjustment webhook payload", slog.Any("error", err))
		h.record(r.Context(), "", httpx.StatusError, "malformed JSON payload")
		httpx.Respond(w, http.StatusBadRequest, httpx.StatusError, "malformed JSON payload")
		return
	}
	if note.InventoryAdjustment == nil || len(note.InventoryAdjustment.LineItems) == 0 {
		h.respondIgnored(w, r, "", "empty payload")
		return
	}

	// Only the first line item is reconciled. Platform adjustments made
	// through this relay always carry a single line.
	line := note.InventoryAdjustment.LineItems[0]
	if err := h.validate.Struct(line); err != nil {
		h.logger.Warn("adjustment line missing required fields", slog.Any("error", err))
		h.respondIgnored(w, r, line.ItemID, "missing required fields")
		return
	}

	res, err := h.service.Reconcile(r.Context(), line)
	if err != nil {
		h.logger.Error("adjustment webhook failed",
			slog.String("item_id", line.ItemID),
			slog.String("warehouse_id", line.WarehouseID),
			slog.Any("error", err))
		h.record(r.Context(), line.ItemID, httpx.StatusError, err.Error())
		httpx.RespondError(w, err)
		return
	}

	h.logger.Info("adjustment webhook processed",
		slog.String("item_id", line.ItemID),
		slog.String("status", res.Status))
	h.record(r.Context(), line.ItemID, res.Status, res.Message)
	httpx.Respond(w, http.StatusOK, res.Status, res.Message)
}

func (h *Handler) respondIgnored(w http.ResponseWriter, r *http.Request, correlationID, message string) {
	h.record(r.Context(), correlationID, httpx.StatusIgnored, message)
	httpx.Respond(w, http.StatusOK, httpx.StatusIgnored, message)
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
