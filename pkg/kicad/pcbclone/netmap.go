package pcbclone

import "github.com/kicadtoolkit/hiercad/pkg/kicad/pcb"

// equivalentNets builds, lazily and by memoization, the map from a
// source net code to its clone-side equivalent by walking pad pairs of
// already-paired source/clone footprints in order, widening the search
// one footprint pair at a time until the requested net code is found or
// every pair has been consulted.
type equivalentNets struct {
	pairs   []footprintPair
	nextIdx int
	mapped  map[int]int // source net code -> clone net code, 0 = unmapped sentinel absent
	known   map[int]bool
}

type footprintPair struct {
	src   *pcb.Footprint
	clone *pcb.Footprint
}

func newEquivalentNets(pairs []footprintPair) *equivalentNets {
	return &equivalentNets{
		pairs:  pairs,
		mapped: make(map[int]int),
		known:  make(map[int]bool),
	}
}

// get returns the clone-side net code equivalent to srcCode, or false if
// no pad pair on the board ever carries srcCode.
func (e *equivalentNets) get(srcCode int) (int, bool) {
	if code, ok := e.mapped[srcCode]; ok {
		return code, true
	}
	if e.known[srcCode] {
		return 0, false
	}

	for ; e.nextIdx < len(e.pairs); e.nextIdx++ {
		pair := e.pairs[e.nextIdx]
		n := len(pair.src.Pads)
		if len(pair.clone.Pads) < n {
			n = len(pair.clone.Pads)
		}
		for i := 0; i < n; i++ {
			srcPad, clonePad := pair.src.Pads[i], pair.clone.Pads[i]
			if srcPad.Net == nil {
				continue
			}
			localCode := srcPad.Net.Number
			if _, already := e.mapped[localCode]; already {
				continue
			}
			cloneCode := 0
			if clonePad.Net != nil {
				cloneCode = clonePad.Net.Number
			}
			e.mapped[localCode] = cloneCode
			e.known[localCode] = true
			if localCode == srcCode {
				return cloneCode, true
			}
		}
	}

	e.known[srcCode] = true
	return 0, false
}
