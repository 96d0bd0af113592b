package movement

import "github.com/stockbridge/stockbridge/internal/mapping"

// ValidMovement reports whether the event carries the relational pairs the
// relay consumes and belongs to an in-scope company. It has no side effects
// and never panics: any shape mismatch simply yields false. Quantity typing
// is enforced earlier by the JSON decode.
func ValidMovement(e Event, requiredCompanies mapping.Set) bool {
	return e.Company.Complete() &&
		requiredCompanies.Has(e.Company.Name) &&
		e.Product.Complete() &&
		e.Source.Complete() &&
		e.Dest.Complete()
}
