package bom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandReferencesRangesAndLiterals(t *testing.T) {
	got := ExpandReferences("C1-C4  ,  C21; C23.4,C25..C27")
	want := []string{"C1", "C2", "C3", "C4", "C21", "C23.4", "C25", "C26", "C27"}
	assert.Equal(t, want, got)
}

func TestExpandReferencesSingle(t *testing.T) {
	assert.Equal(t, []string{"R1"}, ExpandReferences("R1"))
}

func TestExpandReferencesEmpty(t *testing.T) {
	assert.Empty(t, ExpandReferences(""))
}
