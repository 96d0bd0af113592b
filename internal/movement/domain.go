// Package movement relays ERP stock webhooks to the inventory platform:
// validating payloads, netting movements against the tracked-location set,
// deferring draft moves until completion and creating missing items.
package movement

import (
	"encoding/json"
	"strings"
)

// ActionKind is the event action reported by the ERP webhook.
type ActionKind string

// Recognised stock movement actions.
const (
	ActionMoveConfirmed ActionKind = "stock.move_confirmed"
	ActionMoveDraft     ActionKind = "stock.move_draft"
	ActionMoveDone      ActionKind = "stock.move_done"
)

// IsStock reports whether the action belongs to the stock namespace.
func (a ActionKind) IsStock() bool {
	return strings.HasPrefix(string(a), "stock.")
}

// IsProduct reports whether the action belongs to the product namespace.
func (a ActionKind) IsProduct() bool {
	return strings.HasPrefix(string(a), "product.")
}

// Pair is the (id, display name) tuple the ERP sends for relational fields.
// The ERP serialises an absent relation as literal false.
type Pair struct {
	ID   int64
	Name string

	elems int
}

// UnmarshalJSON accepts a JSON array, false or null.
func (p *Pair) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "false" || trimmed == "null" {
		*p = Pair{}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.elems = len(raw)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw[0], &p.ID)
	}
	if len(raw) > 1 {
		_ = json.Unmarshal(raw[1], &p.Name)
	}
	return nil
}

// Complete reports whether the pair carried both identifier and name.
func (p Pair) Complete() bool {
	return p.elems >= 2
}

// OptString decodes ERP fields that are either a string or literal false.
type OptString string

// UnmarshalJSON accepts a JSON string, false or null.
func (s *OptString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "false" || trimmed == "null" {
		*s = ""
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*s = OptString(value)
	return nil
}

// OptFloat decodes ERP numeric fields that are either a number or literal false.
type OptFloat float64

// UnmarshalJSON accepts a JSON number, false or null.
func (f *OptFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "false" || trimmed == "null" {
		*f = 0
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*f = OptFloat(value)
	return nil
}

// IDList decodes ERP id-list fields that are either an array or literal false.
type IDList []int64

// UnmarshalJSON accepts a JSON array of numbers, false or null.
func (l *IDList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "false" || trimmed == "null" {
		*l = nil
		return nil
	}
	var value []int64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*l = IDList(value)
	return nil
}

// Event is a decoded ERP webhook payload. It is ephemeral: constructed per
// inbound request and never persisted beyond the pending-move store.
type Event struct {
	Action ActionKind  `json:"x_model_action"`
	ID     json.Number `json:"id"`
	State  string      `json:"state"`

	Company Pair `json:"company_id"`
	Product Pair `json:"product_id"`
	Source  Pair `json:"location_id"`
	Dest    Pair `json:"location_dest_id"`

	// The quantity field name varies by event family.
	ProductQty   *float64 `json:"product_qty"`
	QuantityDone *float64 `json:"quantity_done"`

	// Item-creation fields.
	Name                string    `json:"name"`
	UnitName            OptString `json:"uom_name"`
	ProductType         OptString `json:"type"`
	TaxIDs              IDList    `json:"taxes_id"`
	Tooltip             OptString `json:"product_tooltip"`
	ListPrice           OptFloat  `json:"list_price"`
	StandardPrice       OptFloat  `json:"standard_price"`
	Barcode             OptString `json:"barcode"`
	PurchaseDescription OptString `json:"description_purchase"`
	QtyAvailable        OptFloat  `json:"qty_available"`
	Image               OptString `json:"image"`
}

// CorrelationID returns the identifier linking a draft movement to its
// completion event.
func (e Event) CorrelationID() string {
	return e.ID.String()
}

// RawQuantity returns the movement quantity, preferring product_qty and
// falling back to quantity_done. Missing quantities default to zero.
func (e Event) RawQuantity() float64 {
	if e.ProductQty != nil {
		return *e.ProductQty
	}
	if e.QuantityDone != nil {
		return *e.QuantityDone
	}
	return 0
}
