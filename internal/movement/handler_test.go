package movement_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
	"github.com/stockbridge/stockbridge/internal/mapping"
	"github.com/stockbridge/stockbridge/internal/movement"
	"github.com/stockbridge/stockbridge/internal/observability"
	"github.com/stockbridge/stockbridge/internal/pending"
	_ "github.com/stockbridge/stockbridge/testing"
)

type staticGateway struct{}

func (staticGateway) FindItemID(ctx context.Context, name string) (string, error) {
	return "item-1", nil
}

func (staticGateway) CreateAdjustment(ctx context.Context, adj inventory.Adjustment) error {
	return nil
}

func (staticGateway) CreateItem(ctx context.Context, item inventory.NewItem) (string, error) {
	return "item-1", nil
}

func (staticGateway) UploadItemImage(ctx context.Context, itemID, filename string, image []byte) error {
	return nil
}

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	tables := mapping.New(
		[]string{"Surulere Store"},
		[]string{"Su-Sh/Stock"},
		map[string]string{"Surulere Store": "wh-su"},
		map[string]int64{"wh-su": 32},
	)
	svc := movement.NewService(nil, staticGateway{}, nil, pending.NewMemoryStore(), tables, time.Hour)
	handler := movement.NewHandler(nil, svc, observability.NewMetrics(), nil)
	r := chi.NewRouter()
	r.Route("/webhooks", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, r chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/erp/stock", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	return res
}

func decodeResult(t *testing.T, res *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	return body
}

func TestStockWebhookSuccess(t *testing.T) {
	r := newRouter(t)
	res := postJSON(t, r, `{
		"x_model_action": "stock.move_confirmed",
		"id": 500,
		"company_id": [1, "Surulere Store"],
		"product_id": [10, "Chair"],
		"location_id": [32, "Su-Sh/Stock"],
		"location_dest_id": [5, "Customers"],
		"product_qty": 2
	}`)

	assert.Equal(t, http.StatusOK, res.Code)
	body := decodeResult(t, res)
	assert.Equal(t, "success", body["status"])
}

func TestStockWebhookMalformedJSON(t *testing.T) {
	r := newRouter(t)
	res := postJSON(t, r, `{"x_model_action": `)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	body := decodeResult(t, res)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "malformed JSON payload", body["message"])
}

func TestStockWebhookValidationError(t *testing.T) {
	r := newRouter(t)
	res := postJSON(t, r, `{
		"x_model_action": "stock.move_confirmed",
		"id": 501,
		"company_id": false,
		"product_id": [10, "Chair"],
		"location_id": [32, "Su-Sh/Stock"],
		"location_dest_id": [5, "Customers"],
		"product_qty": 2
	}`)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	body := decodeResult(t, res)
	assert.Equal(t, "error", body["status"])
}

func TestStockWebhookMissingDraft(t *testing.T) {
	r := newRouter(t)
	res := postJSON(t, r, `{"x_model_action": "stock.move_done", "id": 502}`)

	assert.Equal(t, http.StatusNotFound, res.Code)
	body := decodeResult(t, res)
	assert.Equal(t, "error", body["status"])
}

func TestStockWebhookIgnoredAction(t *testing.T) {
	r := newRouter(t)
	res := postJSON(t, r, `{"x_model_action": "account.invoice_posted", "id": 503}`)

	assert.Equal(t, http.StatusOK, res.Code)
	body := decodeResult(t, res)
	assert.Equal(t, "ignored", body["status"])
}
