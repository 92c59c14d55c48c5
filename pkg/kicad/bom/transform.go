package bom

import "strings"

// doNotPopulate is the literal value (case-insensitive) a Value or
// Populate cell is normalised to "DNP" from.
const doNotPopulate = "DO NOT POPULATE"

// TransformToSch applies the schematic-bound row transform to every
// named reference's row: it packs Supplier/SupplierNum/Price into one
// "supplier:suppliernum:price" Supplier field (only the columns present
// on the row contribute a segment), and replaces a Value or Populate
// cell equal to "DO NOT POPULATE" (case-insensitively) with "DNP".
func (b *BOM) TransformToSch(refs []string) {
	for _, ref := range refs {
		values := b.Refs[ref]
		if values == nil {
			continue
		}

		var parts []string
		for _, k := range [...]ColumnID{Supplier, SupplierNum, Price} {
			if v, ok := values[k]; ok {
				parts = append(parts, v)
				delete(values, k)
			}
		}
		if len(parts) > 0 {
			values[Supplier] = strings.Join(parts, ":")
		}

		for _, k := range [...]ColumnID{Value, Populate} {
			if v, ok := values[k]; ok && strings.EqualFold(v, doNotPopulate) {
				values[k] = "DNP"
			}
		}
	}
}
