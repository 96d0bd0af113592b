package app

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockbridge/stockbridge/internal/movement"
	"github.com/stockbridge/stockbridge/internal/observability"
	"github.com/stockbridge/stockbridge/internal/pending"
	"github.com/stockbridge/stockbridge/internal/reconcile"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	MovementHandler  *movement.Handler
	ReconcileHandler *reconcile.Handler
	PendingStore     pending.Store
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with relay defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/webhooks", func(r chi.Router) {
		params.MovementHandler.MountRoutes(r)
		params.ReconcileHandler.MountRoutes(r)
	})

	if params.PendingStore != nil {
		r.Get("/debug/pending", func(w http.ResponseWriter, req *http.Request) {
			ids, err := params.PendingStore.ListIDs(req.Context())
			if err != nil {
				params.Logger.Error("list pending moves", slog.Any("error", err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"pending": ids})
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
