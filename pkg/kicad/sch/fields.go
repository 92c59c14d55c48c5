package sch

import "strconv"

// nonWsTokens returns, for a Line produced by Tokenize, the indices of its
// non-whitespace tokens in order. Tokenize always alternates ws/non-ws
// starting with a (possibly empty) ws token, so non-ws tokens sit at the
// odd positions 1, 3, 5, ...
func nonWsTokens(l *Line) []int {
	idx := make([]int, 0, len(l.Tokens)/2)
	for i := 1; i < len(l.Tokens); i += 2 {
		idx = append(idx, i)
	}
	return idx
}

// defaultFieldName is the synthetic name used for a component field that
// carries no explicit trailing name token. Fields 0-3 have fixed legacy
// names; anything else is named "Field<n>", never the empty string, so
// a synthesized name is always distinguishable from an absent one.
func defaultFieldName(n int) string {
	switch n {
	case 0:
		return "Reference"
	case 1:
		return "Value"
	case 2:
		return "Footprint"
	case 3:
		return "Datasheet"
	default:
		return "Field" + strconv.Itoa(n)
	}
}

// AREntry is one "AR Path=... Ref=... Part=..." override line attached to
// a component, recording the reference/part that apply when the
// component is instantiated under that specific AR path.
type AREntry struct {
	Path string
	Ref  *TokenView
	Part *TokenView
}

// parseAR populates an AREntry from an "AR Path="..." Ref="..." Part="...""
// line. Ref/Part views start at the character after the `Ref="`/`Part="`
// prefix and end before the closing quote, matching the source format
// exactly (no re-quoting needed to mutate just the designator).
func parseAR(line *Line) *AREntry {
	toks := nonWsTokens(line)
	e := &AREntry{}
	for _, ti := range toks {
		tok := line.Tokens[ti]
		switch {
		case hasPrefix(tok, `Path="`):
			e.Path = Unquote(tok[len("Path="):])
		case hasPrefix(tok, `Ref="`):
			start := len(`Ref="`)
			end := len(tok)
			if end > start && tok[end-1] == '"' {
				end--
			}
			e.Ref = NewTokenViewRange(line, ti, start, end)
		case hasPrefix(tok, `Part="`):
			start := len(`Part="`)
			end := len(tok)
			if end > start && tok[end-1] == '"' {
				end--
			}
			e.Part = NewTokenViewRange(line, ti, start, end)
		}
	}
	return e
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// Field is one "F n ..." line of a component: a value, an optional
// explicit name, and its on-screen position and visibility flags.
type Field struct {
	Number int
	Value  *TokenView
	X      *TokenView
	Y      *TokenView
	Flags  *TokenView // 4-character visibility/orientation flag string
	Name   *VirtualTokenView

	line *Line
}

// parseFieldLine builds a Field from an "F <n> "<value>" ... <x> <y> ...
// <flags> ... ["<name>"]" line, laid out as (non-whitespace token
// positions): F(0) n(1) value(2) orient(3) x(4) y(5) size(6) flags(7)
// hjustify(8) vjustify(9) [name(10)].
func parseFieldLine(line *Line) (*Field, error) {
	toks := nonWsTokens(line)
	if len(toks) < 8 {
		return nil, &ParseError{Message: "malformed field line: too few tokens"}
	}
	n, err := strconv.Atoi(line.Tokens[toks[1]])
	if err != nil {
		return nil, &ParseError{Message: "malformed field number: " + line.Tokens[toks[1]]}
	}

	f := &Field{Number: n, line: line}
	f.Value = quotedTokenView(line, toks[2])
	f.X = NewTokenView(line, toks[4])
	f.Y = NewTokenView(line, toks[5])
	f.Flags = NewTokenView(line, toks[7])

	if len(toks) >= 11 {
		nameTok := quotedTokenView(line, toks[10])
		f.Name = NewVirtualTokenView(nameTok)
	} else {
		f.Name = NewSyntheticTokenView(defaultFieldName(n), func(value string) *TokenView {
			idx := line.InsertBeforeTerminator(" ", QuoteString(value))
			return NewTokenViewRange(line, idx, 1, len(line.Tokens[idx])-1)
		})
	}
	return f, nil
}

// quotedTokenView returns a view over the inside of a quoted token
// (dropping the surrounding double quotes from the span, not the text).
func quotedTokenView(line *Line, tokenIndex int) *TokenView {
	tok := line.Tokens[tokenIndex]
	start, end := 0, len(tok)
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		start, end = 1, len(tok)-1
	}
	return NewTokenViewRange(line, tokenIndex, start, end)
}

// ParseError reports a malformed schematic stream: an unbalanced block, a
// malformed tag, or an otherwise unparseable record line. It terminates
// iteration; an error that corrupts the record stream is not locally
// recoverable.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return "sch: parse error at line " + strconv.Itoa(e.Line) + ": " + e.Message
	}
	return "sch: parse error: " + e.Message
}
