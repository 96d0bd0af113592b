package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbridge/stockbridge/internal/app"
	"github.com/stockbridge/stockbridge/internal/integrations/erp"
	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
	"github.com/stockbridge/stockbridge/internal/mapping"
	"github.com/stockbridge/stockbridge/internal/movement"
	"github.com/stockbridge/stockbridge/internal/observability"
	"github.com/stockbridge/stockbridge/internal/pending"
	"github.com/stockbridge/stockbridge/internal/reconcile"
	_ "github.com/stockbridge/stockbridge/testing"
)

type noopInventory struct{}

func (noopInventory) FindItemID(ctx context.Context, name string) (string, error) {
	return "item-1", nil
}

func (noopInventory) CreateAdjustment(ctx context.Context, adj inventory.Adjustment) error {
	return nil
}

func (noopInventory) CreateItem(ctx context.Context, item inventory.NewItem) (string, error) {
	return "item-1", nil
}

func (noopInventory) UploadItemImage(ctx context.Context, itemID, filename string, image []byte) error {
	return nil
}

func (noopInventory) FetchItem(ctx context.Context, itemID string) (inventory.Item, error) {
	return inventory.Item{ItemID: itemID, Name: "Chair"}, nil
}

type noopERP struct{}

func (noopERP) FindProductID(ctx context.Context, name string) (int64, error) {
	return 10, nil
}

func (noopERP) FindStockQuant(ctx context.Context, productID, locationID int64) (erp.StockQuant, error) {
	return erp.StockQuant{ID: 7, Quantity: 5}, nil
}

func (noopERP) WriteStockQuantity(ctx context.Context, quantID int64, quantity float64) error {
	return nil
}

func (noopERP) CreateStockQuant(ctx context.Context, productID, locationID int64, quantity float64) error {
	return nil
}

func newTestRouter(t *testing.T, store pending.Store) http.Handler {
	t.Helper()
	cfg := &app.Config{AppEnv: "test", AppRequestTimeout: 5 * time.Second}
	tables := mapping.New(
		[]string{"Surulere Store"},
		[]string{"Su-Sh/Stock"},
		map[string]string{"Surulere Store": "wh-su"},
		map[string]int64{"wh-su": 32},
	)
	metrics := observability.NewMetrics()
	movementService := movement.NewService(nil, noopInventory{}, nil, store, tables, time.Hour)
	reconcileService := reconcile.NewService(nil, noopInventory{}, noopERP{}, tables)
	return app.NewRouter(app.RouterParams{
		Logger:           app.NewLogger(cfg),
		Config:           cfg,
		MovementHandler:  movement.NewHandler(nil, movementService, metrics, nil),
		ReconcileHandler: reconcile.NewHandler(nil, reconcileService, metrics, nil),
		PendingStore:     store,
		Metrics:          metrics,
	})
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, pending.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"status":"ok"}`, res.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, pending.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}

func TestDebugPending(t *testing.T) {
	store := pending.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "42", inventory.Adjustment{}, time.Hour))
	router := newTestRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/debug/pending", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body struct {
		Pending []string `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, []string{"42"}, body.Pending)
}

func TestWebhookRoutesMounted(t *testing.T) {
	router := newTestRouter(t, pending.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/webhooks/erp/stock", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/webhooks/inventory/adjustments", nil)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
}
