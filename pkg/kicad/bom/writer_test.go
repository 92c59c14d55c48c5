package bom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSVIndividualRoundTrips(t *testing.T) {
	b := &BOM{
		Header: map[ColumnID]ColumnRef{
			Reference: {Name: "Reference"},
			Value:     {Name: "Value"},
			Footprint: {Name: "Footprint"},
		},
		Refs: map[string]map[ColumnID]string{
			"R2": {Reference: "R2", Value: "10k", Footprint: "R_0603"},
			"R1": {Reference: "R1", Value: "10k", Footprint: "R_0603"},
		},
	}

	var out strings.Builder
	err := WriteCSV(&out, b, WriteOptions{Individual: true, SchematicFile: "power.sch"})
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Source:,power.sch")
	assert.Contains(t, got, "Individual Components:")

	r1Idx := strings.Index(got, "R1,10k")
	r2Idx := strings.Index(got, "R2,10k")
	require.GreaterOrEqual(t, r1Idx, 0)
	require.GreaterOrEqual(t, r2Idx, 0)
	assert.Less(t, r1Idx, r2Idx, "natural sort must put R1 before R2")
}

func TestNaturalKeyOrdersNumericSuffixes(t *testing.T) {
	assert.True(t, naturalKey("R2") < naturalKey("R10"))
	assert.True(t, naturalKey("R9") < naturalKey("R10"))
}

func TestGroupIdentityGroupsEquivalentComponents(t *testing.T) {
	a := map[ColumnID]string{Value: "10k", Footprint: "R_0603"}
	b := map[ColumnID]string{Value: "10k", Footprint: "R_0603"}
	c := map[ColumnID]string{Value: "22k", Footprint: "R_0603"}
	assert.Equal(t, groupIdentity(a), groupIdentity(b))
	assert.NotEqual(t, groupIdentity(a), groupIdentity(c))
}
