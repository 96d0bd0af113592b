// Package erp implements the ERP gateway over its JSON-RPC object endpoint
// (execute_kw calls against the ERP's model layer).
package erp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/stockbridge/stockbridge/internal/platform/httpx"
)

// Config carries the ERP endpoint and credentials.
type Config struct {
	URL      string
	Database string
	UserID   int64
	Password string
}

// StockQuant is a stock record at one location, as returned by the ERP.
type StockQuant struct {
	ID       int64   `json:"id"`
	Quantity float64 `json:"quantity"`
}

// Product is a product row as returned by the ERP.
type Product struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client performs JSON-RPC calls against the ERP.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs the ERP gateway client.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, httpClient: httpClient, logger: logger}
}

// FindProductID looks up a product by its exact name.
func (c *Client) FindProductID(ctx context.Context, name string) (int64, error) {
	args := []any{[]any{[]any{"name", "=", name}}}
	kwargs := map[string]any{"fields": []string{"id", "name"}}
	result, err := c.call(ctx, "product.product", "search_read", args, kwargs)
	if err != nil {
		return 0, err
	}
	var products []Product
	if err := json.Unmarshal(result, &products); err != nil {
		return 0, fmt.Errorf("erp: decode product search: %w", err)
	}
	if len(products) == 0 {
		return 0, fmt.Errorf("erp: product %q: %w", name, httpx.ErrNotFound)
	}
	return products[0].ID, nil
}

// FindStockQuant looks up the stock record for a product at a location.
func (c *Client) FindStockQuant(ctx context.Context, productID, locationID int64) (StockQuant, error) {
	args := []any{[]any{
		[]any{"product_id", "=", productID},
		[]any{"location_id", "=", locationID},
	}}
	kwargs := map[string]any{"fields": []string{"id", "quantity"}}
	result, err := c.call(ctx, "stock.quant", "search_read", args, kwargs)
	if err != nil {
		return StockQuant{}, err
	}
	var quants []StockQuant
	if err := json.Unmarshal(result, &quants); err != nil {
		return StockQuant{}, fmt.Errorf("erp: decode stock quant search: %w", err)
	}
	if len(quants) == 0 {
		return StockQuant{}, fmt.Errorf("erp: stock quant for product %d at location %d: %w", productID, locationID, httpx.ErrNotFound)
	}
	return quants[0], nil
}

// WriteStockQuantity sets the quantity of an existing stock record. The
// auto-apply flag makes the ERP adopt the quantity as ground truth instead
// of treating it as a further delta.
func (c *Client) WriteStockQuantity(ctx context.Context, quantID int64, quantity float64) error {
	args := []any{
		[]int64{quantID},
		map[string]any{
			"quantity":                      quantity,
			"inventory_quantity_auto_apply": true,
		},
	}
	result, err := c.call(ctx, "stock.quant", "write", args, nil)
	if err != nil {
		return err
	}
	var ok bool
	if err := json.Unmarshal(result, &ok); err != nil || !ok {
		return fmt.Errorf("erp: write stock quant %d not acknowledged: %w", quantID, httpx.ErrDownstream)
	}
	return nil
}

// CreateStockQuant creates a stock record with the given quantity, auto-applied.
func (c *Client) CreateStockQuant(ctx context.Context, productID, locationID int64, quantity float64) error {
	args := []any{map[string]any{
		"product_id":                    productID,
		"location_id":                   locationID,
		"quantity":                      quantity,
		"inventory_quantity_auto_apply": true,
	}}
	result, err := c.call(ctx, "stock.quant", "create", args, nil)
	if err != nil {
		return err
	}
	if len(result) == 0 || string(result) == "null" || string(result) == "false" {
		return fmt.Errorf("erp: create stock quant not acknowledged: %w", httpx.ErrDownstream)
	}
	return nil
}

// FetchProductImage returns the decoded binary image of a product, or
// ErrNotFound when the product carries none.
func (c *Client) FetchProductImage(ctx context.Context, productID int64) ([]byte, error) {
	args := []any{[]any{[]any{"id", "=", productID}}}
	kwargs := map[string]any{"fields": []string{"image_1920"}}
	result, err := c.call(ctx, "product.product", "search_read", args, kwargs)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Image json.RawMessage `json:"image_1920"`
	}
	if err := json.Unmarshal(result, &rows); err != nil {
		return nil, fmt.Errorf("erp: decode product image: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("erp: product %d: %w", productID, httpx.ErrNotFound)
	}
	var encoded string
	// The ERP reports an absent image as literal false.
	if err := json.Unmarshal(rows[0].Image, &encoded); err != nil || encoded == "" {
		return nil, fmt.Errorf("erp: product %d image: %w", productID, httpx.ErrNotFound)
	}
	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("erp: decode product image: %w", err)
	}
	return image, nil
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one execute_kw round trip and returns the raw result. The
// wire shape is [db, uid, password, model, method, args, kwargs]: args is the
// method's positional-argument list and travels as a single element.
func (c *Client) call(ctx context.Context, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	callArgs := []any{c.cfg.Database, c.cfg.UserID, c.cfg.Password, model, method, args}
	if kwargs != nil {
		callArgs = append(callArgs, kwargs)
	}
	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: rpcParams{
			Service: "object",
			Method:  "execute_kw",
			Args:    callArgs,
		},
		ID: 1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erp: encode rpc request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erp: build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erp: %s.%s: %v: %w", model, method, err, httpx.ErrDownstream)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("erp: response %d: %s: %w", resp.StatusCode, string(data), httpx.ErrDownstream)
	}
	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("erp: decode rpc response: %w", err)
	}
	if decoded.Error != nil {
		c.logger.Error("erp rpc error",
			slog.String("model", model),
			slog.String("method", method),
			slog.String("message", decoded.Error.Message))
		return nil, fmt.Errorf("erp: %s.%s: %s: %w", model, method, decoded.Error.Message, httpx.ErrDownstream)
	}
	return decoded.Result, nil
}
