package sch

// SheetRecord is a parsed $Sheet...$EndSheet block: its unique sheet ID,
// display name and sub-sheet file path, each a Token View into the
// corresponding body line.
type SheetRecord struct {
	Record

	ID   *TokenView
	Name *TokenView
	File *TokenView
}

// newSheetRecord starts a SheetRecord at its opening "$Sheet" tag line.
func newSheetRecord(tag *Line) *SheetRecord {
	s := &SheetRecord{}
	s.Append(tag)
	return s
}

// consumeBodyLine appends line to the record and, if it carries a
// recognised sheet tag (U, F0, F1), populates the corresponding field.
func (s *SheetRecord) consumeBodyLine(line *Line) {
	s.Append(line)

	toks := nonWsTokens(line)
	if len(toks) == 0 {
		return
	}
	tag := line.Tokens[toks[0]]
	switch {
	case tag == "U" && len(toks) >= 2:
		s.ID = NewTokenView(line, toks[1])
	case tag == "F0" && len(toks) >= 2:
		s.Name = quotedTokenView(line, toks[1])
	case tag == "F1" && len(toks) >= 2:
		s.File = quotedTokenView(line, toks[1])
	}
}

// Duplicate deep-clones the sheet's line buffers and returns a new
// SheetRecord whose Token Views are re-anchored to the clone via
// TokenView.CloneOnto.
func (s *SheetRecord) Duplicate() *SheetRecord {
	lines, m := cloneLines(s.Lines)
	return &SheetRecord{
		Record: Record{Lines: lines},
		ID:     cloneView(s.ID, m),
		Name:   cloneView(s.Name, m),
		File:   cloneView(s.File, m),
	}
}
