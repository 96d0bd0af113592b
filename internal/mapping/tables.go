// Package mapping holds the static cross-system identifier tables the relay
// consults: which companies and stock locations are in scope, which inventory
// platform warehouse belongs to a company, and which ERP location a platform
// warehouse maps back to.
package mapping

import "strings"

// Set is a membership set over display names.
type Set map[string]struct{}

// NewSet builds a Set from names, trimming surrounding whitespace.
func NewSet(names []string) Set {
	set := make(Set, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Has reports membership of name.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Tables aggregates the configured mapping tables.
type Tables struct {
	// RequiredCompanies is the set of company display names in scope.
	RequiredCompanies Set
	// TrackedLocations is the set of location names stock deltas are netted against.
	TrackedLocations Set
	// CompanyWarehouses maps a company display name to its inventory platform warehouse ID.
	CompanyWarehouses map[string]string
	// ERPLocations maps an inventory platform warehouse ID to the ERP stock location ID.
	ERPLocations map[string]int64
}

// New normalises the raw configuration values into Tables.
func New(requiredCompanies, trackedLocations []string, companyWarehouses map[string]string, erpLocations map[string]int64) Tables {
	warehouses := make(map[string]string, len(companyWarehouses))
	for company, id := range companyWarehouses {
		warehouses[strings.TrimSpace(company)] = strings.TrimSpace(id)
	}
	return Tables{
		RequiredCompanies: NewSet(requiredCompanies),
		TrackedLocations:  NewSet(trackedLocations),
		CompanyWarehouses: warehouses,
		ERPLocations:      erpLocations,
	}
}

// WarehouseFor returns the inventory platform warehouse ID for a company.
func (t Tables) WarehouseFor(company string) (string, bool) {
	id, ok := t.CompanyWarehouses[strings.TrimSpace(company)]
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// ERPLocationFor returns the ERP stock location ID for a platform warehouse.
func (t Tables) ERPLocationFor(warehouseID string) (int64, bool) {
	id, ok := t.ERPLocations[warehouseID]
	return id, ok
}
