// Package inventory implements the cloud inventory platform gateway: item
// lookup and creation, stock adjustments and image upload over its REST API,
// with OAuth token refresh handled transparently.
package inventory

// Adjustment is a quantity adjustment request. It is immutable after
// construction; a fresh one is built per resolved event and never retried
// as the same object.
type Adjustment struct {
	Date            string           `json:"date"`
	Reason          string           `json:"reason"`
	Description     string           `json:"description"`
	ReferenceNumber string           `json:"reference_number"`
	AdjustmentType  string           `json:"adjustment_type"`
	WarehouseID     string           `json:"warehouse_id"`
	LineItems       []AdjustmentLine `json:"line_items"`
}

// AdjustmentLine is the single line item carried by an Adjustment.
type AdjustmentLine struct {
	ItemID           string  `json:"item_id"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	QuantityAdjusted float64 `json:"quantity_adjusted"`
	Unit             string  `json:"unit"`
	WarehouseID      string  `json:"warehouse_id"`
}

// Item is the platform's view of an inventory item. Fetched on demand and
// never cached beyond a single reconciliation pass.
type Item struct {
	ItemID     string          `json:"item_id"`
	Name       string          `json:"name"`
	Warehouses []ItemWarehouse `json:"warehouses"`
}

// ItemWarehouse carries per-warehouse stock for an Item.
type ItemWarehouse struct {
	WarehouseID string  `json:"warehouse_id"`
	StockOnHand float64 `json:"warehouse_stock_on_hand"`
}

// NewItem is the payload for creating an item on the platform.
type NewItem struct {
	Name                string         `json:"name"`
	Unit                string         `json:"unit"`
	ItemType            string         `json:"item_type"`
	ProductType         string         `json:"product_type"`
	TaxID               string         `json:"tax_id,omitempty"`
	Description         string         `json:"description"`
	Rate                float64        `json:"rate"`
	PurchaseRate        float64        `json:"purchase_rate"`
	ReorderLevel        float64        `json:"reorder_level"`
	TrackInventory      bool           `json:"track_inventory"`
	SKU                 string         `json:"sku"`
	PurchaseDescription string         `json:"purchase_description"`
	Locations           []InitialStock `json:"locations,omitempty"`
}

// InitialStock sets the opening stock of a created item in one warehouse.
type InitialStock struct {
	LocationID       string  `json:"location_id"`
	InitialStock     float64 `json:"initial_stock"`
	InitialStockRate float64 `json:"initial_stock_rate"`
}
