package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/stockbridge/stockbridge/internal/integrations/erp"
	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
	"github.com/stockbridge/stockbridge/internal/mapping"
	"github.com/stockbridge/stockbridge/internal/platform/httpx"
)

// InventoryGateway reads item state from the inventory platform.
type InventoryGateway interface {
	FetchItem(ctx context.Context, itemID string) (inventory.Item, error)
}

// ERPGateway mutates stock records in the ERP.
type ERPGateway interface {
	FindProductID(ctx context.Context, name string) (int64, error)
	FindStockQuant(ctx context.Context, productID, locationID int64) (erp.StockQuant, error)
	WriteStockQuantity(ctx context.Context, quantID int64, quantity float64) error
	CreateStockQuant(ctx context.Context, productID, locationID int64, quantity float64) error
}

// Service reconciles a platform-side adjustment into the ERP. The quantity
// written is always the platform's current stock on hand for the affected
// warehouse, never the webhook's delta.
type Service struct {
	logger    *slog.Logger
	inventory InventoryGateway
	erp       ERPGateway
	tables    mapping.Tables
}

// NewService builds the reverse-path service.
func NewService(logger *slog.Logger, inventoryGW InventoryGateway, erpGW ERPGateway, tables mapping.Tables) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, inventory: inventoryGW, erp: erpGW, tables: tables}
}

// Reconcile processes one adjusted line item.
func (s *Service) Reconcile(ctx context.Context, line NoticeLine) (httpx.Result, error) {
	item, err := s.inventory.FetchItem(ctx, line.ItemID)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return httpx.Result{}, fmt.Errorf("%w: item %s not found on inventory platform", httpx.ErrNotFound, line.ItemID)
		}
		return httpx.Result{}, fmt.Errorf("reconcile: fetch item: %w", err)
	}

	stockOnHand, found := warehouseStock(item, line.WarehouseID)
	if !found {
		return httpx.Result{}, fmt.Errorf("%w: item %s has no stock at warehouse %s", httpx.ErrNotFound, line.ItemID, line.WarehouseID)
	}
	locationID, ok := s.tables.ERPLocationFor(line.WarehouseID)
	if !ok {
		return httpx.Result{Status: httpx.StatusIgnored, Message: "warehouse not in scope"}, nil
	}

	name := strings.TrimSpace(item.Name)
	productID, err := s.erp.FindProductID(ctx, name)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return httpx.Result{}, fmt.Errorf("%w: product %q not found in ERP", httpx.ErrNotFound, name)
		}
		return httpx.Result{}, fmt.Errorf("reconcile: find product: %w", err)
	}

	quant, err := s.erp.FindStockQuant(ctx, productID, locationID)
	switch {
	case err == nil:
		if round2(quant.Quantity) == round2(stockOnHand) {
			s.logger.Info("stock already in sync",
				slog.String("item_id", line.ItemID),
				slog.Int64("product_id", productID),
				slog.Float64("quantity", stockOnHand))
			return httpx.Result{Status: httpx.StatusSkipped, Message: "stock already up-to-date"}, nil
		}
		if err := s.erp.WriteStockQuantity(ctx, quant.ID, stockOnHand); err != nil {
			return httpx.Result{}, fmt.Errorf("reconcile: write stock: %w", err)
		}
	case errors.Is(err, httpx.ErrNotFound):
		if err := s.erp.CreateStockQuant(ctx, productID, locationID, stockOnHand); err != nil {
			return httpx.Result{}, fmt.Errorf("reconcile: create stock: %w", err)
		}
	default:
		return httpx.Result{}, fmt.Errorf("reconcile: find stock: %w", err)
	}

	s.logger.Info("stock written to ERP",
		slog.String("item_id", line.ItemID),
		slog.Int64("product_id", productID),
		slog.Int64("location_id", locationID),
		slog.Float64("quantity", stockOnHand))
	return httpx.Result{Status: httpx.StatusDone, Message: "webhook processed successfully"}, nil
}

func warehouseStock(item inventory.Item, warehouseID string) (float64, bool) {
	for _, wh := range item.Warehouses {
		if wh.WarehouseID == warehouseID {
			return wh.StockOnHand, true
		}
	}
	return 0, false
}

// round2 compares quantities at cent precision so float noise from either
// side does not trigger spurious writes.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
