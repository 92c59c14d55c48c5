package hierarchy

import "github.com/kicadtoolkit/hiercad/pkg/kicad/sch"

// RefEntry is the canonical location of one reference designator: the
// shortest AR path that reaches it, and the component ID (the part's
// stable UID, shared by every instantiation of the same sub-circuit
// component) it resolves to.
type RefEntry struct {
	ARPath      string
	ComponentID string
}

// Index is the ref -> canonical-AR-path map and its companion
// component-ID -> refs map, built by BuildIndex.
type Index struct {
	Refs          map[string]RefEntry
	ComponentRefs map[string][]string
}

// BuildIndex walks g from its root file, accumulating an AR prefix of
// sheet IDs along every path, and resolves every component's reference
// for that path. Each ref's stored AR path is only ever replaced
// by a strictly shorter one ("write-if-shorter"); the first sighting of
// a ref always wins over no entry at all.
func BuildIndex(g *Graph) *Index {
	idx := &Index{
		Refs:          make(map[string]RefEntry),
		ComponentRefs: make(map[string][]string),
	}
	idx.walk(g, RootIndex, "")
	return idx
}

func (idx *Index) walk(g *Graph, fileIndex int, arPrefix string) {
	fr := g.Files[fileIndex]

	for _, comp := range fr.Components {
		componentID := comp.UID.Get()
		candidate := arPrefix + "/" + componentID
		ref := resolveRef(comp, candidate)
		idx.record(ref, candidate, componentID)
	}

	for _, sheet := range fr.Sheets {
		sheetID := sheet.ID.Get()
		target, ok := fr.Links[sheetID]
		if !ok {
			continue
		}
		idx.walk(g, target, arPrefix+"/"+sheetID)
	}
}

// resolveRef picks the AR override whose Path matches candidate, or
// falls back to the component's default L-line reference.
func resolveRef(comp *sch.ComponentRecord, candidate string) string {
	for _, ar := range comp.AR {
		if ar.Path == candidate {
			return ar.Ref.Get()
		}
	}
	return comp.Ref.Get()
}

func (idx *Index) record(ref, arPath, componentID string) {
	if existing, ok := idx.Refs[ref]; !ok || len(arPath) < len(existing.ARPath) {
		idx.Refs[ref] = RefEntry{ARPath: arPath, ComponentID: componentID}
	}

	for _, r := range idx.ComponentRefs[componentID] {
		if r == ref {
			return
		}
	}
	idx.ComponentRefs[componentID] = append(idx.ComponentRefs[componentID], ref)
}

// ComponentOf returns the component ID a reference resolves to.
func (idx *Index) ComponentOf(ref string) (string, bool) {
	e, ok := idx.Refs[ref]
	return e.ComponentID, ok
}

// ARPath returns the canonical AR path a reference resolves to.
func (idx *Index) ARPath(ref string) (string, bool) {
	e, ok := idx.Refs[ref]
	return e.ARPath, ok
}

// EquivalentRefs returns every other reference that shares ref's
// component ID: the set the channel resolver treats as interchangeable
// under hierarchy re-use.
func (idx *Index) EquivalentRefs(ref string) []string {
	id, ok := idx.ComponentOf(ref)
	if !ok {
		return nil
	}
	var out []string
	for _, r := range idx.ComponentRefs[id] {
		if r != ref {
			out = append(out, r)
		}
	}
	return out
}
