package channel

import (
	"strings"

	"github.com/kicadtoolkit/hiercad/pkg/kicad/hierarchy"
)

// node is one sheet-ID-prefix node of the AR tree: the set of seed->
// equivalent edges discovered whose target's canonical AR path has this
// node's path as its sheet-ID prefix, plus any child prefixes reached.
type node struct {
	localMap map[string]string // seed ref -> equivalent ref
	children map[string]*node
	order    []string // child keys in first-insertion order
}

func newNode() *node {
	return &node{localMap: make(map[string]string), children: make(map[string]*node)}
}

func (n *node) child(key string) *node {
	c, ok := n.children[key]
	if !ok {
		c = newNode()
		n.children[key] = c
		n.order = append(n.order, key)
	}
	return c
}

// Tree is the AR tree built from a seed reference set.
type Tree struct {
	root *node
}

// BuildTree inserts, for every seed s and every equivalent reference e
// of s's component, an edge s->e at the node whose path is the sheet-ID
// prefix of e's canonical AR path (excluding the leading slash and
// trailing component ID).
func BuildTree(idx *hierarchy.Index, seeds []string) *Tree {
	t := &Tree{root: newNode()}
	for _, s := range seeds {
		for _, e := range idx.EquivalentRefs(s) {
			arPath, ok := idx.ARPath(e)
			if !ok {
				continue
			}
			n := t.root
			for _, seg := range sheetPrefix(arPath) {
				n = n.child(seg)
			}
			n.localMap[s] = e
		}
	}
	return t
}

// sheetPrefix splits a canonical AR path ("/A/B/componentID") into its
// sheet-ID segments ("A", "B"), dropping the leading empty segment and
// the trailing component ID.
func sheetPrefix(arPath string) []string {
	segs := strings.Split(strings.TrimPrefix(arPath, "/"), "/")
	if len(segs) <= 1 {
		return nil
	}
	return segs[:len(segs)-1]
}
