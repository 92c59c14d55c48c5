package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformToSchPacksSupplierFields(t *testing.T) {
	b := &BOM{Refs: map[string]map[ColumnID]string{
		"R1": {Supplier: "Digikey", SupplierNum: "311-10KARCT-ND", Price: "0.10"},
	}}
	b.TransformToSch([]string{"R1"})

	assert.Equal(t, "Digikey:311-10KARCT-ND:0.10", b.Refs["R1"][Supplier])
	_, hasSupplierNum := b.Refs["R1"][SupplierNum]
	assert.False(t, hasSupplierNum)
	_, hasPrice := b.Refs["R1"][Price]
	assert.False(t, hasPrice)
}

func TestTransformToSchDoNotPopulate(t *testing.T) {
	b := &BOM{Refs: map[string]map[ColumnID]string{
		"R1": {Value: "do not populate", Populate: "Do Not Populate"},
	}}
	b.TransformToSch([]string{"R1"})

	assert.Equal(t, "DNP", b.Refs["R1"][Value])
	assert.Equal(t, "DNP", b.Refs["R1"][Populate])
}

func TestTransformToSchLeavesOrdinaryValuesAlone(t *testing.T) {
	b := &BOM{Refs: map[string]map[ColumnID]string{
		"R1": {Value: "10k"},
	}}
	b.TransformToSch([]string{"R1"})
	assert.Equal(t, "10k", b.Refs["R1"][Value])
}
