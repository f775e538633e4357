// Package optical turns vendor ONU coordinates into SNMP instances and reads
// optical-signal telemetry. Every vendor encodes slot/port/onu into its OID
// instances differently; the arithmetic lives here as a registry of formulas
// instead of string-dispatched special cases.
package optical

import (
	"fmt"

	"github.com/Marvitel/Link-Watcher-Pro-sub001/types"
)

// IndexFormula renders the SNMP instance suffix for one ONU. The result is
// appended to a vendor base OID with a dot.
type IndexFormula func(coords types.OnuCoordinates) string

// GenericFormula is the fallback for vendors without registered arithmetic:
// plain "slot.port.onuId" instancing, which a surprising number of smaller
// vendors actually use.
func GenericFormula(c types.OnuCoordinates) string {
	return fmt.Sprintf("%d.%d.%d", c.Slot, c.Port, c.OnuID)
}

// FormulaRegistry resolves a vendor to its index formula.
type FormulaRegistry struct {
	formulas map[types.Vendor]IndexFormula
}

// NewFormulaRegistry copies the given formula table.
func NewFormulaRegistry(formulas map[types.Vendor]IndexFormula) *FormulaRegistry {
	table := make(map[types.Vendor]IndexFormula, len(formulas))
	for vendor, formula := range formulas {
		table[types.NormalizeVendor(vendor)] = formula
	}
	return &FormulaRegistry{formulas: table}
}

// ComputeIndex applies the vendor's formula, falling back to GenericFormula
// for unregistered vendors. Deterministic: same vendor and coordinates
// always produce the same instance.
func (r *FormulaRegistry) ComputeIndex(vendor types.Vendor, coords types.OnuCoordinates) string {
	if formula, ok := r.formulas[types.NormalizeVendor(vendor)]; ok {
		return formula(coords)
	}
	return GenericFormula(coords)
}

// Known reports whether the vendor has a registered formula.
func (r *FormulaRegistry) Known(vendor types.Vendor) bool {
	_, ok := r.formulas[types.NormalizeVendor(vendor)]
	return ok
}
