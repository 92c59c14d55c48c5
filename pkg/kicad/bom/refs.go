package bom

import (
	"regexp"
	"strconv"
)

// referenceTokenPattern splits a reference-list cell into tokens and
// their trailing separator.
var referenceTokenPattern = regexp.MustCompile(`(?i) *(([a-zA-Z]*)(\d+)|([^-,;]*)) *([-,;]|\.\.|$)`)

// ExpandReferences expands a BOM row's comma/semicolon separated
// reference cell into individual references, expanding any
// "<prefix><digits>-<prefix><digits>" or ".."-joined pair into the
// closed range between them. Other tokens are kept literal.
//
// ExpandReferences("C1-C4  ,  C21; C23.4,C25..C27") returns
// ["C1","C2","C3","C4","C21","C23.4","C25","C26","C27"].
func ExpandReferences(refs string) []string {
	var out []string
	refNum := 0
	state := ""

	for _, m := range referenceTokenPattern.FindAllStringSubmatch(refs, -1) {
		whole, prefix, digits, literal, sep := m[1], m[2], m[3], m[4], m[5]

		if digits == "" {
			if literal != "" {
				out = append(out, literal)
				state = ""
			}
			continue
		}

		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		next := n + 1

		if state == "-" || state == ".." {
			for i := refNum; i < next; i++ {
				out = append(out, prefix+strconv.Itoa(i))
			}
		} else {
			out = append(out, whole)
		}
		refNum = next
		state = sep
	}

	return out
}
