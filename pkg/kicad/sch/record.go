package sch

// Record is the ordered sequence of line buffers owned by one $Sheet or
// $Comp block, from its opening tag line through its $End* line
// inclusive. Concatenating Record.Lines reproduces the block byte-exact
// unless a consumer has mutated one of the Token Views anchored into it.
type Record struct {
	Lines []*Line
}

// Append adds a freshly read line to the record and returns it.
func (r *Record) Append(l *Line) *Line {
	r.Lines = append(r.Lines, l)
	return l
}

// LastLine returns the most recently appended line, or nil if empty.
func (r *Record) LastLine() *Line {
	if len(r.Lines) == 0 {
		return nil
	}
	return r.Lines[len(r.Lines)-1]
}

// cloneLines deep-clones every line buffer and returns both the clone and
// a map from each original *Line to its clone, so that Token Views bound
// to the original lines can be re-anchored via TokenView.CloneOnto.
func cloneLines(lines []*Line) ([]*Line, map[*Line]*Line) {
	cloned := make([]*Line, len(lines))
	m := make(map[*Line]*Line, len(lines))
	for i, l := range lines {
		cl := l.Clone()
		cloned[i] = cl
		m[l] = cl
	}
	return cloned, m
}

// cloneView re-anchors v onto its clone via the line translation table. A
// nil v clones to nil.
func cloneView(v *TokenView, m map[*Line]*Line) *TokenView {
	if v == nil {
		return nil
	}
	cl, ok := m[v.Line()]
	if !ok {
		// View anchored outside this record's own lines (shouldn't
		// happen for a well-formed record); clone in place.
		return v
	}
	return v.CloneOnto(cl)
}
