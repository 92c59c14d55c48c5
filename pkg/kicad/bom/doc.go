// Package bom models a component bill-of-materials: canonicalised
// column headers, per-reference field values, reference-range
// expansion, and the row-joining and schematic-bound transforms used to
// push an edited BOM back onto a set of schematic references.
//
package bom
