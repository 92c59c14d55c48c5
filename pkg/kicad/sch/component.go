package sch

import (
	"sort"
	"strconv"
)

// ComponentRecord is a parsed $Comp...$EndComp block.
type ComponentRecord struct {
	Record

	Lib  *TokenView // library symbol name, from the L line
	Ref  *TokenView // default reference designator, from the L line
	Part *TokenView // unit/part number, from the U line
	UID  *TokenView // component unique ID, from the U line

	AR []*AREntry

	fields     map[int]*Field
	fieldOrder []int
}

// newComponentRecord starts a ComponentRecord at its opening "$Comp" tag.
func newComponentRecord(tag *Line) *ComponentRecord {
	c := &ComponentRecord{fields: make(map[int]*Field)}
	c.Append(tag)
	return c
}

// consumeBodyLine appends line to the record and, if it carries a
// recognised component tag (L, U, AR, F), populates the corresponding
// structured field. Unrecognised tags (P, and anything else) are kept in
// Record.Lines but otherwise ignored; they still round-trip byte-exact.
func (c *ComponentRecord) consumeBodyLine(line *Line) error {
	c.Append(line)

	toks := nonWsTokens(line)
	if len(toks) == 0 {
		return nil
	}
	tag := line.Tokens[toks[0]]
	switch {
	case tag == "L" && len(toks) >= 3:
		c.Lib = NewTokenView(line, toks[1])
		c.Ref = NewTokenView(line, toks[2])
	case tag == "U" && len(toks) >= 4:
		c.Part = NewTokenView(line, toks[1])
		c.UID = NewTokenView(line, toks[3])
	case tag == "AR":
		c.AR = append(c.AR, parseAR(line))
	case tag == "F":
		f, err := parseFieldLine(line)
		if err != nil {
			return err
		}
		if _, exists := c.fields[f.Number]; !exists {
			c.fieldOrder = append(c.fieldOrder, f.Number)
		}
		c.fields[f.Number] = f
	}
	return nil
}

// Field returns the component's field n and whether it is present.
func (c *ComponentRecord) Field(n int) (*Field, bool) {
	f, ok := c.fields[n]
	return f, ok
}

// Fields returns every field in the order its number was first seen.
func (c *ComponentRecord) Fields() []*Field {
	out := make([]*Field, len(c.fieldOrder))
	for i, n := range c.fieldOrder {
		out[i] = c.fields[n]
	}
	return out
}

// NextFieldNumber returns one more than the highest field number
// present, and never less than 4 (the first user-field number), for
// appending a brand-new user field.
func (c *ComponentRecord) NextFieldNumber() int {
	max := 3
	for n := range c.fields {
		if n > max {
			max = n
		}
	}
	return max + 1
}

// AddField inserts a brand-new "F n ..." line just before the component's
// closing $EndComp line, with the given value, name and visibility flags
// (a 4-character string, e.g. "0000" visible / "0001" hidden). The new
// field takes the on-screen position of the value field so it can stand
// in for it (falling back to field 0, then the origin). terminator is
// the line ending to use ("\n" or "\r\n"), matching the rest of the
// file.
func (c *ComponentRecord) AddField(n int, name, value, flags, terminator string) *Field {
	x, y := "0", "0"
	if f, ok := c.fields[1]; ok {
		x, y = f.X.Get(), f.Y.Get()
	} else if f, ok := c.fields[0]; ok {
		x, y = f.X.Get(), f.Y.Get()
	}
	text := "F " + strconv.Itoa(n) + " " + QuoteString(value) + " H " + x + " " + y + " 50  " + flags + " C CNN " + QuoteString(name) + terminator
	line := NewLine(Tokenize(text))

	endIdx := len(c.Lines) - 1
	c.Lines = append(c.Lines, nil)
	copy(c.Lines[endIdx+1:], c.Lines[endIdx:])
	c.Lines[endIdx] = line

	f, err := parseFieldLine(line)
	if err != nil {
		// text is built from known-good templates; a failure here is a
		// programming error, not a runtime condition to recover from.
		panic(err)
	}
	if _, exists := c.fields[f.Number]; !exists {
		c.fieldOrder = append(c.fieldOrder, f.Number)
	}
	c.fields[f.Number] = f
	return f
}

// SortedFieldNumbers returns every field number present, ascending.
func (c *ComponentRecord) SortedFieldNumbers() []int {
	out := append([]int(nil), c.fieldOrder...)
	sort.Ints(out)
	return out
}

// Duplicate deep-clones the component's line buffers and re-derives a new
// ComponentRecord from the clone, exactly as the original was derived
// from the source. AR entries and plain fields (Lib/Ref/Part/UID) are
// re-anchored with TokenView.CloneOnto; Field entries are re-parsed from
// their cloned line with parseFieldLine so that un-materialized (virtual)
// field names continue to synthesize onto the clone, not the original.
func (c *ComponentRecord) Duplicate() *ComponentRecord {
	lines, m := cloneLines(c.Lines)
	clone := &ComponentRecord{
		Record: Record{Lines: lines},
		Lib:    cloneView(c.Lib, m),
		Ref:    cloneView(c.Ref, m),
		Part:   cloneView(c.Part, m),
		UID:    cloneView(c.UID, m),
		fields: make(map[int]*Field, len(c.fields)),
	}
	for _, e := range c.AR {
		clone.AR = append(clone.AR, &AREntry{
			Path: e.Path,
			Ref:  cloneView(e.Ref, m),
			Part: cloneView(e.Part, m),
		})
	}
	for _, n := range c.fieldOrder {
		orig := c.fields[n]
		clonedLine := m[orig.line]
		f, err := parseFieldLine(clonedLine)
		if err != nil {
			panic(err)
		}
		clone.fields[n] = f
		clone.fieldOrder = append(clone.fieldOrder, n)
	}
	return clone
}

