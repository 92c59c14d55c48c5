// Package sch implements a whitespace- and quoting-preserving reader and
// writer for the legacy line-oriented KiCad schematic format.
//
// The format predates KiCad's S-expression schematics: a file is a sequence
// of lines, most of them free text, with two kinds of nested records
// delimited by $Sheet/$EndSheet and $Comp/$EndComp. Everything outside a
// record is opaque; everything inside a record is tag-prefixed and exposes
// a handful of fields (sheet ID, file name, reference, value, footprint,
// per-field flags, annotation-reference overrides).
//
// # Overview
//
// The package provides:
//   - Line / TokenView: a mutable window into one whitespace- or
//     quote-delimited run of a line, letting a caller replace a field's
//     value without touching any other byte on the line.
//   - Tokenize: a total, round-tripping line splitter.
//   - Parser: a pull iterator over a schematic file's Sheet/Comp records.
//   - Mapper: the same iterator, additionally echoing every line (mutated
//     or not) to an output sink, so that an unedited file round-trips
//     byte-for-byte and an edited one differs only at the mutated tokens.
//
// # Usage
//
//	m, err := sch.NewMapper(in, out)
//	for m.Next() {
//	    ev := m.Event()
//	    if ev.State == sch.CompItem && ev.Comp != nil {
//	        if f, ok := ev.Comp.Field(1); ok {
//	            f.Value.Set("100nF")
//	        }
//	    }
//	}
//	err = m.Err()
//
// Absent any call to a TokenView's Set method, Mapper reproduces its input
// exactly, including trailing newline style.
package sch
