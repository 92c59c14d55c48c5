package sch

import "strings"

// Line is an ordered sequence of tokens whose concatenation reproduces a
// source line byte-exact. Every parsed field is a view into one of a
// Line's tokens; mutating the view mutates the Line in place.
type Line struct {
	Tokens []string
}

// NewLine wraps an already-tokenized slice.
func NewLine(tokens []string) *Line {
	return &Line{Tokens: append([]string(nil), tokens...)}
}

// String concatenates the line's tokens back into the original text.
func (l *Line) String() string {
	return strings.Join(l.Tokens, "")
}

// Clone returns a deep copy of the line, suitable for record duplication.
func (l *Line) Clone() *Line {
	return &Line{Tokens: append([]string(nil), l.Tokens...)}
}

// AppendToken adds a new token at the end of the line and returns its index.
func (l *Line) AppendToken(text string) int {
	l.Tokens = append(l.Tokens, text)
	return len(l.Tokens) - 1
}

// InsertBeforeTerminator inserts tokens immediately before the line's
// trailing whitespace token, so new text lands before the line
// terminator rather than after it. Returns the index of the last
// inserted token.
func (l *Line) InsertBeforeTerminator(tokens ...string) int {
	at := len(l.Tokens) - 1
	if at < 0 {
		at = 0
	}
	tail := append([]string(nil), l.Tokens[at:]...)
	l.Tokens = append(l.Tokens[:at], append(tokens, tail...)...)
	return at + len(tokens) - 1
}

// TokenView is a mutable window into the substring [Start,End) of one token
// in a Line. Assigning a new value replaces exactly that slice and leaves
// every other byte of the line untouched.
type TokenView struct {
	line  *Line
	index int
	start int
	end   int
}

// NewTokenView builds a view over the whole of Line.Tokens[index].
func NewTokenView(line *Line, index int) *TokenView {
	return NewTokenViewRange(line, index, 0, len(line.Tokens[index]))
}

// NewTokenViewRange builds a view over Line.Tokens[index][start:end].
func NewTokenViewRange(line *Line, index, start, end int) *TokenView {
	if start < 0 || end < start || end > len(line.Tokens[index]) {
		panic("sch: token view range out of bounds")
	}
	return &TokenView{line: line, index: index, start: start, end: end}
}

// Get returns the current slice the view denotes.
func (v *TokenView) Get() string {
	return v.line.Tokens[v.index][v.start:v.end]
}

// Raw returns the full backing token, unsliced.
func (v *TokenView) Raw() string {
	return v.line.Tokens[v.index]
}

// Set replaces [Start,End) with new, and advances End to Start+len(new).
// Every other byte of the line, including the rest of this token, is
// untouched.
func (v *TokenView) Set(newValue string) {
	tok := v.line.Tokens[v.index]
	v.line.Tokens[v.index] = tok[:v.start] + newValue + tok[v.end:]
	v.end = v.start + len(newValue)
}

// SetQuoted assigns newValue via Set with embedded quotes escaped. When
// the view already sits between a pair of double quotes (as a field
// value view does), only the escaped text is written inside them;
// otherwise the escaped text is also wrapped in double quotes.
func (v *TokenView) SetQuoted(newValue string) {
	tok := v.line.Tokens[v.index]
	if v.start > 0 && v.end < len(tok) && tok[v.start-1] == '"' && tok[v.end] == '"' {
		v.Set(strings.ReplaceAll(newValue, `"`, `\"`))
		return
	}
	v.Set(QuoteString(newValue))
}

// QuoteString wraps s in double quotes, escaping any embedded quote.
func QuoteString(s string) string {
	escaped := strings.ReplaceAll(s, `"`, `\"`)
	return `"` + escaped + `"`
}

// Unquote strips one layer of surrounding double quotes and un-escapes
// embedded `\"` sequences. If s is not quoted it is returned unchanged.
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}

// Line returns the Line this view is anchored to.
func (v *TokenView) Line() *Line { return v.line }

// Index returns the token index within the backing Line.
func (v *TokenView) Index() int { return v.index }

// Bounds returns the current [start,end) the view denotes.
func (v *TokenView) Bounds() (int, int) { return v.start, v.end }

// CloneOnto produces a view over the same token index and offsets, but
// anchored to a different (already-cloned) Line. Used when a record is
// duplicated: every view into the original's line buffers gets a twin
// into the clone's.
func (v *TokenView) CloneOnto(clonedLine *Line) *TokenView {
	return &TokenView{line: clonedLine, index: v.index, start: v.start, end: v.end}
}

// Materializer creates the backing token(s) for a field that is absent
// from the source line, returning a concrete view over the newly inserted
// text. It is invoked at most once, on the first mutation of a
// VirtualTokenView.
type Materializer func(value string) *TokenView

// VirtualTokenView behaves like a TokenView but may not have backing text
// yet. Get() returns a fixed logical default until the first Set(), at
// which point its Materializer runs once, injecting new tokens into the
// owning Line so the value has somewhere to live, and every subsequent
// call operates on the now-concrete TokenView.
type VirtualTokenView struct {
	concrete     *TokenView
	logical      string
	materializer Materializer
}

// NewVirtualTokenView wraps an already-concrete view (e.g. a field that
// does exist in the source) so Get()/Set() behave identically to a plain
// TokenView.
func NewVirtualTokenView(v *TokenView) *VirtualTokenView {
	return &VirtualTokenView{concrete: v}
}

// NewSyntheticTokenView wraps a field absent from the source: logical is
// the value returned until the first write, and materializer is invoked
// on first Set to create real backing storage.
func NewSyntheticTokenView(logical string, materializer Materializer) *VirtualTokenView {
	return &VirtualTokenView{logical: logical, materializer: materializer}
}

// IsMaterialized reports whether the view is already backed by real line
// tokens (either it started that way, or a previous Set() created them).
func (v *VirtualTokenView) IsMaterialized() bool {
	return v.concrete != nil
}

// Get returns the concrete value if materialized, otherwise the logical
// default.
func (v *VirtualTokenView) Get() string {
	if v.concrete != nil {
		return v.concrete.Get()
	}
	return v.logical
}

// Set writes newValue, materializing backing tokens on first use.
func (v *VirtualTokenView) Set(newValue string) {
	if v.concrete == nil {
		v.concrete = v.materializer(newValue)
		return
	}
	v.concrete.Set(newValue)
}

// SetQuoted is Set with surrounding-quote quoting applied.
func (v *VirtualTokenView) SetQuoted(newValue string) {
	v.Set(QuoteString(newValue))
}
