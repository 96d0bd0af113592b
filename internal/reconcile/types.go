// Package reconcile handles inventory-platform adjustment webhooks and
// pushes the platform's stock truth back into the ERP.
package reconcile

// Notification is the webhook envelope posted by the inventory platform.
type Notification struct {
	InventoryAdjustment *AdjustmentNotice `json:"inventory_adjustment"`
}

// AdjustmentNotice carries the adjusted line items.
type AdjustmentNotice struct {
	LineItems []NoticeLine `json:"line_items"`
}

// NoticeLine identifies one adjusted item at one warehouse.
type NoticeLine struct {
	ItemID           string  `json:"item_id" validate:"required"`
	WarehouseID      string  `json:"warehouse_id" validate:"required"`
	QuantityAdjusted float64 `json:"quantity_adjusted" validate:"required"`
}
