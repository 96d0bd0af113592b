package movement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockbridge/stockbridge/internal/integrations/inventory"
	"github.com/stockbridge/stockbridge/internal/mapping"
	"github.com/stockbridge/stockbridge/internal/pending"
	"github.com/stockbridge/stockbridge/internal/platform/httpx"
)

// InventoryGateway abstracts the inventory platform operations the engine needs.
type InventoryGateway interface {
	FindItemID(ctx context.Context, name string) (string, error)
	CreateAdjustment(ctx context.Context, adj inventory.Adjustment) error
	CreateItem(ctx context.Context, item inventory.NewItem) (string, error)
	UploadItemImage(ctx context.Context, itemID, filename string, image []byte) error
}

// ImageSource fetches product images from the ERP for the best-effort
// image-upload step of item creation.
type ImageSource interface {
	FetchProductImage(ctx context.Context, productID int64) ([]byte, error)
}

// Service is the reconciliation engine for ERP-originated events. Per
// correlation ID an event either resolves immediately, is stashed as a draft,
// or finalizes a previously stashed draft.
type Service struct {
	logger   *slog.Logger
	gateway  InventoryGateway
	images   ImageSource
	store    pending.Store
	tables   mapping.Tables
	draftTTL time.Duration
}

// NewService builds the engine.
func NewService(logger *slog.Logger, gateway InventoryGateway, images ImageSource, store pending.Store, tables mapping.Tables, draftTTL time.Duration) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:   logger,
		gateway:  gateway,
		images:   images,
		store:    store,
		tables:   tables,
		draftTTL: draftTTL,
	}
}

// HandleEvent routes one decoded webhook event through the engine.
func (s *Service) HandleEvent(ctx context.Context, evt Event) (httpx.Result, error) {
	switch {
	case evt.Action.IsStock():
		return s.handleStockAction(ctx, evt)
	case evt.Action.IsProduct():
		return s.createItem(ctx, evt)
	case evt.State == "done" && evt.CorrelationID() != "":
		// Completion signal without a recognised action kind.
		return s.completeDraft(ctx, evt.CorrelationID())
	default:
		return httpx.Result{Status: httpx.StatusIgnored, Message: "non-stock-related action"}, nil
	}
}

func (s *Service) handleStockAction(ctx context.Context, evt Event) (httpx.Result, error) {
	switch evt.Action {
	case ActionMoveConfirmed:
		// A confirmed event for a previously drafted id acts as its completion.
		move, err := s.store.Take(ctx, evt.CorrelationID())
		switch {
		case err == nil:
			return s.sendAdjustment(ctx, move.Request, "inventory updated from draft move")
		case errors.Is(err, pending.ErrNotFound):
			return s.applyImmediate(ctx, evt)
		default:
			return httpx.Result{}, fmt.Errorf("movement: take pending move: %w", err)
		}
	case ActionMoveDraft:
		return s.stashDraft(ctx, evt)
	case ActionMoveDone:
		return s.completeDraft(ctx, evt.CorrelationID())
	default:
		return httpx.Result{Status: httpx.StatusIgnored, Message: "unrecognized stock action"}, nil
	}
}

// applyImmediate resolves a confirmed movement in one pass: build the
// adjustment and send it.
func (s *Service) applyImmediate(ctx context.Context, evt Event) (httpx.Result, error) {
	adj, skipped, err := s.buildAdjustment(ctx, evt)
	if err != nil {
		return httpx.Result{}, err
	}
	if skipped != nil {
		return *skipped, nil
	}
	return s.sendAdjustment(ctx, *adj, "inventory updated")
}

// stashDraft builds the adjustment exactly as the immediate path would, but
// stores it under the correlation ID instead of sending it. The quantity is
// therefore fixed at draft time.
func (s *Service) stashDraft(ctx context.Context, evt Event) (httpx.Result, error) {
	adj, skipped, err := s.buildAdjustment(ctx, evt)
	if err != nil {
		return httpx.Result{}, err
	}
	if skipped != nil {
		return *skipped, nil
	}
	id := evt.CorrelationID()
	if id == "" {
		return httpx.Result{}, fmt.Errorf("%w: draft movement without correlation id", httpx.ErrValidation)
	}
	if err := s.store.Put(ctx, id, *adj, s.draftTTL); err != nil {
		return httpx.Result{}, fmt.Errorf("movement: store draft: %w", err)
	}
	s.logger.Info("draft stock move stored", slog.String("correlation_id", id))
	return httpx.Result{Status: httpx.StatusSuccess, Message: "draft stock move stored"}, nil
}

// completeDraft consumes the stored draft and sends it. A missing draft,
// including one dropped by TTL expiry, is a not-found error: the business
// transaction is unrecoverable and must not be silently ignored.
func (s *Service) completeDraft(ctx context.Context, id string) (httpx.Result, error) {
	if id == "" {
		return httpx.Result{}, fmt.Errorf("%w: completion event without correlation id", httpx.ErrValidation)
	}
	move, err := s.store.Take(ctx, id)
	if errors.Is(err, pending.ErrNotFound) {
		return httpx.Result{}, fmt.Errorf("%w: no pending draft move for correlation id %s", httpx.ErrNotFound, id)
	}
	if err != nil {
		return httpx.Result{}, fmt.Errorf("movement: take pending move: %w", err)
	}
	return s.sendAdjustment(ctx, move.Request, "inventory updated from draft move")
}

// buildAdjustment validates the movement, nets the quantity against the
// tracked-location set and constructs a fresh adjustment request. A zero
// delta short-circuits with an ignored result before any gateway call.
func (s *Service) buildAdjustment(ctx context.Context, evt Event) (*inventory.Adjustment, *httpx.Result, error) {
	if !ValidMovement(evt, s.tables.RequiredCompanies) {
		return nil, nil, fmt.Errorf("%w: invalid webhook payload or warehouse not in scope", httpx.ErrValidation)
	}
	delta := AdjustQuantity(evt.Source.Name, evt.Dest.Name, evt.RawQuantity(), s.tables.TrackedLocations)
	s.logger.Info("adjusted movement quantity",
		slog.String("product", evt.Product.Name),
		slog.String("company", evt.Company.Name),
		slog.String("source", evt.Source.Name),
		slog.String("dest", evt.Dest.Name),
		slog.Float64("delta", delta))
	if delta == 0 {
		return nil, &httpx.Result{Status: httpx.StatusIgnored, Message: "no net stock change detected"}, nil
	}

	itemID, err := s.gateway.FindItemID(ctx, evt.Product.Name)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: product %q not found on inventory platform", httpx.ErrNotFound, evt.Product.Name)
		}
		return nil, nil, fmt.Errorf("movement: find item: %w", err)
	}
	warehouseID, ok := s.tables.WarehouseFor(evt.Company.Name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no warehouse mapped for company %q", httpx.ErrValidation, evt.Company.Name)
	}

	now := time.Now().UTC()
	adj := &inventory.Adjustment{
		Date:            now.Format("2006-01-02"),
		Reason:          "Webhook triggered adjustment",
		Description:     fmt.Sprintf("Adjustment from ERP for %s", evt.Product.Name),
		ReferenceNumber: "webhook-" + uuid.NewString(),
		AdjustmentType:  "quantity",
		WarehouseID:     warehouseID,
		LineItems: []inventory.AdjustmentLine{{
			ItemID:           itemID,
			Name:             evt.Product.Name,
			Description:      "Stock updated from ERP webhook",
			QuantityAdjusted: delta,
			Unit:             "pcs",
			WarehouseID:      warehouseID,
		}},
	}
	return adj, nil, nil
}

func (s *Service) sendAdjustment(ctx context.Context, adj inventory.Adjustment, message string) (httpx.Result, error) {
	if err := s.gateway.CreateAdjustment(ctx, adj); err != nil {
		return httpx.Result{}, fmt.Errorf("movement: create adjustment: %w", err)
	}
	return httpx.Result{Status: httpx.StatusSuccess, Message: message}, nil
}

// createItem mirrors an ERP product onto the inventory platform. The image
// upload is a best-effort secondary step; its failure does not invalidate
// the creation.
func (s *Service) createItem(ctx context.Context, evt Event) (httpx.Result, error) {
	if strings.TrimSpace(evt.Name) == "" {
		return httpx.Result{Status: httpx.StatusIgnored, Message: "missing or empty product name"}, nil
	}
	item := buildItemPayload(evt, s.tables)
	itemID, err := s.gateway.CreateItem(ctx, item)
	if err != nil {
		return httpx.Result{}, fmt.Errorf("movement: create item: %w", err)
	}
	s.uploadImage(ctx, evt, itemID)
	return httpx.Result{Status: httpx.StatusSuccess, Message: "inventory item created"}, nil
}

func (s *Service) uploadImage(ctx context.Context, evt Event, itemID string) {
	if evt.Image == "" || itemID == "" || s.images == nil {
		return
	}
	productID, err := evt.ID.Int64()
	if err != nil {
		return
	}
	image, err := s.images.FetchProductImage(ctx, productID)
	if err != nil {
		s.logger.Warn("fetch product image", slog.Int64("product_id", productID), slog.Any("error", err))
		return
	}
	filename := fmt.Sprintf("product-%d.png", productID)
	if err := s.gateway.UploadItemImage(ctx, itemID, filename, image); err != nil {
		s.logger.Warn("upload item image", slog.String("item_id", itemID), slog.Any("error", err))
	}
}

// buildItemPayload maps ERP product fields onto the platform's item shape.
func buildItemPayload(evt Event, tables mapping.Tables) inventory.NewItem {
	itemType := "sales"
	if evt.ProductType == "product" {
		itemType = "inventory"
	}
	unit := string(evt.UnitName)
	if unit == "" {
		unit = "pcs"
	}
	description := string(evt.Tooltip)
	if description == "" {
		description = "No description available"
	}
	sku := string(evt.Barcode)
	if sku == "" {
		sku = evt.ID.String()
	}
	purchaseDescription := string(evt.PurchaseDescription)
	if purchaseDescription == "" {
		purchaseDescription = "No purchase description"
	}
	var taxID string
	if len(evt.TaxIDs) > 0 {
		taxID = strconv.FormatInt(evt.TaxIDs[0], 10)
	}
	item := inventory.NewItem{
		Name:                evt.Name,
		Unit:                unit,
		ItemType:            itemType,
		ProductType:         "goods",
		TaxID:               taxID,
		Description:         description,
		Rate:                float64(evt.ListPrice),
		PurchaseRate:        float64(evt.StandardPrice),
		ReorderLevel:        0,
		TrackInventory:      true,
		SKU:                 sku,
		PurchaseDescription: purchaseDescription,
	}
	if warehouseID, ok := tables.WarehouseFor(evt.Company.Name); ok {
		item.Locations = []inventory.InitialStock{{
			LocationID:       warehouseID,
			InitialStock:     float64(evt.QtyAvailable),
			InitialStockRate: float64(evt.ListPrice),
		}}
	}
	return item
}
