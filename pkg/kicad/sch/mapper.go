package sch

import "io"

// Mapper drives the same event loop as Parser while also writing every
// line to an output sink: non-record lines pass through byte-for-byte as
// they are read, and a record's (possibly mutated) lines are written as
// one block. The flush of a closed record is deferred until the next
// call to Next, so the consumer still holds the full mutation window at
// the *Exit event itself; the final record is flushed by the Next call
// that reports end of input. Absent any mutation, Mapper's output is
// byte-identical to its input.
type Mapper struct {
	p *Parser
	w io.Writer

	pendingAfter map[*Line][]*Record
	closed       *Record // record whose *Exit the consumer is still holding
	werr         error
}

// NewMapper wraps r as the schematic source and w as the line sink.
func NewMapper(r io.Reader, w io.Writer) *Mapper {
	return &Mapper{
		p:            NewParser(r),
		w:            w,
		pendingAfter: make(map[*Line][]*Record),
	}
}

// Event returns the event produced by the most recent call to Next.
func (m *Mapper) Event() Event { return m.p.Event() }

// Err returns the error that stopped iteration: a parse error from the
// underlying Parser, or an I/O error writing to the sink.
func (m *Mapper) Err() error {
	if m.werr != nil {
		return m.werr
	}
	return m.p.Err()
}

// Next advances by one input line and reports whether another event is
// available. Any record closed by the previous event is flushed first,
// after the consumer's last chance to mutate it has passed.
func (m *Mapper) Next() bool {
	if m.werr != nil {
		return false
	}
	if m.closed != nil {
		r := m.closed
		m.closed = nil
		m.flushRecord(r)
		if m.werr != nil {
			return false
		}
	}
	if !m.p.Next() {
		return false
	}

	ev := m.p.Event()
	switch ev.State {
	case Other:
		m.writeLine(ev.Line)
	case SheetExit:
		m.closed = &ev.Sheet.Record
	case CompExit:
		m.closed = &ev.Comp.Record
	}
	return m.werr == nil
}

func (m *Mapper) writeLine(l *Line) {
	if m.werr != nil {
		return
	}
	if _, err := io.WriteString(m.w, l.String()); err != nil {
		m.werr = err
		return
	}
	for _, rec := range m.pendingAfter[l] {
		m.flushRecord(rec)
	}
	delete(m.pendingAfter, l)
}

func (m *Mapper) flushRecord(r *Record) {
	for _, l := range r.Lines {
		if m.werr != nil {
			return
		}
		m.writeLine(l)
	}
}

// DuplicateComponent clones c and schedules the clone to be written
// immediately after insertAfter's line is flushed. If insertAfter is nil,
// the clone is scheduled right after c's own closing line, so it appears
// directly following the original component block in the output.
func (m *Mapper) DuplicateComponent(c *ComponentRecord, insertAfter *Line) *ComponentRecord {
	clone := c.Duplicate()
	anchor := insertAfter
	if anchor == nil {
		anchor = c.LastLine()
	}
	m.pendingAfter[anchor] = append(m.pendingAfter[anchor], &clone.Record)
	return clone
}

// DuplicateSheet clones s and schedules the clone exactly as
// DuplicateComponent does for components.
func (m *Mapper) DuplicateSheet(s *SheetRecord, insertAfter *Line) *SheetRecord {
	clone := s.Duplicate()
	anchor := insertAfter
	if anchor == nil {
		anchor = s.LastLine()
	}
	m.pendingAfter[anchor] = append(m.pendingAfter[anchor], &clone.Record)
	return clone
}
