package channel

import (
	"testing"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/hierarchy"
)

func fixtureIndex(refs map[string]hierarchy.RefEntry, componentRefs map[string][]string) *hierarchy.Index {
	return &hierarchy.Index{Refs: refs, ComponentRefs: componentRefs}
}

// TestGroupByChannelSingleInstantiationYieldsNoChannels mirrors scenario
// S1: a component referenced only once has no equivalents, so any seed
// subset resolves to zero complete channels.
func TestGroupByChannelSingleInstantiationYieldsNoChannels(t *testing.T) {
	idx := fixtureIndex(
		map[string]hierarchy.RefEntry{
			"R1": {ARPath: "/A/idR", ComponentID: "idR"},
		},
		map[string][]string{"idR": {"R1"}},
	)
	seeds := []string{"R1"}
	tree := BuildTree(idx, seeds)
	res := GroupByChannel(tree, seeds)

	if len(res.Complete) != 0 {
		t.Fatalf("expected zero complete channels, got %v", res.Complete)
	}
}

// TestGroupByChannelTwoInstantiations mirrors scenario S2: a sub-sheet
// instantiated twice (A, B) with components R1/C1 under A as the seed
// set resolves to exactly one complete channel at "B".
func TestGroupByChannelTwoInstantiations(t *testing.T) {
	idx := fixtureIndex(
		map[string]hierarchy.RefEntry{
			"R1":  {ARPath: "/A/idR", ComponentID: "idR"},
			"R1'": {ARPath: "/B/idR", ComponentID: "idR"},
			"C1":  {ARPath: "/A/idC", ComponentID: "idC"},
			"C1'": {ARPath: "/B/idC", ComponentID: "idC"},
		},
		map[string][]string{
			"idR": {"R1", "R1'"},
			"idC": {"C1", "C1'"},
		},
	)
	seeds := []string{"R1", "C1"}
	tree := BuildTree(idx, seeds)
	res := GroupByChannel(tree, seeds)

	if len(res.Complete) != 1 {
		t.Fatalf("expected exactly 1 complete channel, got %v", res.Complete)
	}
	ch, ok := res.Complete["B"]
	if !ok {
		t.Fatalf("expected a channel at path %q, got %v", "B", res.Complete)
	}
	if ch["R1"] != "R1'" || ch["C1"] != "C1'" {
		t.Fatalf("unexpected channel mapping: %v", ch)
	}
}

// TestGroupByChannelJointChildCoverage exercises the case where neither
// child alone closes the parent's residual, but their union does.
func TestGroupByChannelJointChildCoverage(t *testing.T) {
	idx := fixtureIndex(
		map[string]hierarchy.RefEntry{
			"R1":  {ARPath: "/A/idR", ComponentID: "idR"},
			"R1a": {ARPath: "/B/X/idR", ComponentID: "idR"},
			"C1":  {ARPath: "/A/idC", ComponentID: "idC"},
			"C1a": {ARPath: "/B/Y/idC", ComponentID: "idC"},
		},
		map[string][]string{
			"idR": {"R1", "R1a"},
			"idC": {"C1", "C1a"},
		},
	)
	seeds := []string{"R1", "C1"}
	tree := BuildTree(idx, seeds)
	res := GroupByChannel(tree, seeds)

	ch, ok := res.Complete["B"]
	if !ok {
		t.Fatalf("expected joint channel at \"B\", got %v", res.Complete)
	}
	if ch["R1"] != "R1a" || ch["C1"] != "C1a" {
		t.Fatalf("unexpected joint channel mapping: %v", ch)
	}
	if _, ok := res.Warnings["B/X"]; !ok {
		t.Errorf("expected a warning for incomplete node B/X, got %v", res.Warnings)
	}
	if _, ok := res.Warnings["B/Y"]; !ok {
		t.Errorf("expected a warning for incomplete node B/Y, got %v", res.Warnings)
	}
}

// TestGroupByChannelCompleteWithoutFullDescent exercises the interior
// node case: coverage closes before the tree bottoms out, which is
// still a channel but also raises a warning.
func TestGroupByChannelCompleteWithoutFullDescent(t *testing.T) {
	idx := fixtureIndex(
		map[string]hierarchy.RefEntry{
			"R1":  {ARPath: "/A/idR", ComponentID: "idR"},
			"R1a": {ARPath: "/A/idR", ComponentID: "idR"},
			"R1b": {ARPath: "/A/Z/idR", ComponentID: "idR"},
		},
		map[string][]string{"idR": {"R1", "R1a", "R1b"}},
	)
	seeds := []string{"R1"}
	tree := BuildTree(idx, seeds)
	res := GroupByChannel(tree, seeds)

	ch, ok := res.Complete["A"]
	if !ok {
		t.Fatalf("expected a complete channel at \"A\", got %v", res.Complete)
	}
	if ch["R1"] != "R1a" {
		t.Fatalf("unexpected channel mapping: %v", ch)
	}
	if _, ok := res.Warnings["A"]; !ok {
		t.Errorf("expected a \"complete without full descent\" warning at \"A\"")
	}
	if _, ok := res.Complete["A/Z"]; ok {
		t.Errorf("descendant node should not be visited once an ancestor already closed coverage")
	}
}

// TestGroupByChannelPartialBelowThresholdIncluded exercises the
// residual-vs-covered inclusion rule at a leaf node: the residual (1)
// is well under five times the covered map (5), so the partial is
// emitted alongside its warning.
func TestGroupByChannelPartialBelowThresholdIncluded(t *testing.T) {
	refs := map[string]hierarchy.RefEntry{
		"R1": {ARPath: "/A/id1", ComponentID: "id1"},
		"R2": {ARPath: "/A/id2", ComponentID: "id2"},
		"R3": {ARPath: "/A/id3", ComponentID: "id3"},
		"R4": {ARPath: "/A/id4", ComponentID: "id4"},
		"R5": {ARPath: "/A/id5", ComponentID: "id5"},
	}
	componentRefs := map[string][]string{
		"id1": {"R1"}, "id2": {"R2"}, "id3": {"R3"}, "id4": {"R4"}, "id5": {"R5"},
	}
	// R1..R4 and R6 get an equivalent under "B"; only R5 has none, so
	// leaf "B" covers 5 of 6 seeds with a residual of 1.
	refs["R1b"] = hierarchy.RefEntry{ARPath: "/B/id1", ComponentID: "id1"}
	refs["R2b"] = hierarchy.RefEntry{ARPath: "/B/id2", ComponentID: "id2"}
	refs["R3b"] = hierarchy.RefEntry{ARPath: "/B/id3", ComponentID: "id3"}
	refs["R4b"] = hierarchy.RefEntry{ARPath: "/B/id4", ComponentID: "id4"}
	refs["R6"] = hierarchy.RefEntry{ARPath: "/A/id6", ComponentID: "id6"}
	refs["R6b"] = hierarchy.RefEntry{ARPath: "/B/id6", ComponentID: "id6"}
	componentRefs["id1"] = append(componentRefs["id1"], "R1b")
	componentRefs["id2"] = append(componentRefs["id2"], "R2b")
	componentRefs["id3"] = append(componentRefs["id3"], "R3b")
	componentRefs["id4"] = append(componentRefs["id4"], "R4b")
	componentRefs["id6"] = []string{"R6", "R6b"}

	idx := fixtureIndex(refs, componentRefs)
	seeds := []string{"R1", "R2", "R3", "R4", "R5", "R6"}
	tree := BuildTree(idx, seeds)
	res := GroupByChannel(tree, seeds)

	ch, ok := res.Complete["B"]
	if !ok {
		t.Fatalf("expected partial channel at \"B\" included under threshold, got %v", res.Complete)
	}
	if len(ch) != 5 {
		t.Fatalf("expected 5 mapped seeds in partial channel, got %v", ch)
	}
	if _, ok := res.Warnings["B"]; !ok {
		t.Errorf("expected a warning alongside the included partial channel")
	}
}

// TestGroupByChannelPartialWithLowCoverageStillIncluded pins the
// lenient side of the rule: the residual is weighed against the covered
// map, not the seed count, so a leaf covering only 2 of 6 seeds
// (residual 4 < 5*2 covered) still yields a warned partial channel.
func TestGroupByChannelPartialWithLowCoverageStillIncluded(t *testing.T) {
	refs := map[string]hierarchy.RefEntry{
		"R1": {ARPath: "/A/id1", ComponentID: "id1"},
		"R2": {ARPath: "/A/id2", ComponentID: "id2"},
		"R3": {ARPath: "/A/id3", ComponentID: "id3"},
		"R4": {ARPath: "/A/id4", ComponentID: "id4"},
		"R5": {ARPath: "/A/id5", ComponentID: "id5"},
		"R6": {ARPath: "/A/id6", ComponentID: "id6"},

		"R1b": {ARPath: "/B/id1", ComponentID: "id1"},
		"R2b": {ARPath: "/B/id2", ComponentID: "id2"},
	}
	componentRefs := map[string][]string{
		"id1": {"R1", "R1b"},
		"id2": {"R2", "R2b"},
		"id3": {"R3"}, "id4": {"R4"}, "id5": {"R5"}, "id6": {"R6"},
	}

	idx := fixtureIndex(refs, componentRefs)
	seeds := []string{"R1", "R2", "R3", "R4", "R5", "R6"}
	tree := BuildTree(idx, seeds)
	res := GroupByChannel(tree, seeds)

	ch, ok := res.Complete["B"]
	if !ok {
		t.Fatalf("expected low-coverage partial channel at \"B\", got %v", res.Complete)
	}
	if len(ch) != 2 || ch["R1"] != "R1b" || ch["R2"] != "R2b" {
		t.Fatalf("unexpected partial channel mapping: %v", ch)
	}
	if _, ok := res.Warnings["B"]; !ok {
		t.Errorf("expected a warning alongside the partial channel")
	}
}
