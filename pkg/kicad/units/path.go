package units

import (
	goPath "path"
	"strings"
)

// SplitPath splits a path using whichever of "/" or "\" actually appears
// in it, returning the segments and the separator found (or "" if
// neither appears), so a schematic's sub-sheet path style can be
// guessed before normalizing it.
func SplitPath(p string) ([]string, string) {
	for _, sep := range []string{"/", "\\"} {
		if strings.Contains(p, sep) {
			return strings.Split(p, sep), sep
		}
	}
	return []string{p}, ""
}

// NormalizePath resolves p (which may be a Windows, Linux, or Cygwin
// path) against curPath into a portable "/"-joined path. An empty p
// returns curPath itself, cleaned. A leading "/cygdrive/<letter>/..."
// path is rewritten to "<LETTER>:/...". A drive-letter path ("C:\...")
// is upper-cased and slash-joined as-is. Anything else is treated as
// relative to curPath. The result is always a forward-slash path
// regardless of the running platform.
func NormalizePath(p, curPath string) string {
	if p == "" {
		if curPath == "" {
			return ""
		}
		return goPath.Clean(toSlash(curPath))
	}

	parts, _ := SplitPath(p)

	if parts[0] == "" {
		if len(parts) > 2 && strings.EqualFold(parts[1], "cygdrive") {
			parts = append([]string{strings.ToUpper(parts[2]) + ":"}, parts[3:]...)
		}
		return strings.Join(parts, "/")
	}

	if strings.HasSuffix(parts[0], ":") {
		parts[0] = strings.ToUpper(parts[0])
		return strings.Join(parts, "/")
	}

	rel := strings.Join(parts, "/")
	if curPath == "" {
		return goPath.Clean(rel)
	}
	return goPath.Clean(toSlash(curPath) + "/" + rel)
}

// RelativePath returns the "/"-joined relative path from curPath to p,
// after normalizing both.
func RelativePath(p, curPath string) string {
	np := NormalizePath(p, "")
	ncur := NormalizePath(curPath, "")
	return relativeSlash(ncur, np)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func relativeSlash(base, target string) string {
	baseParts := splitNonEmpty(base)
	targetParts := splitNonEmpty(target)

	i := 0
	for i < len(baseParts) && i < len(targetParts) && baseParts[i] == targetParts[i] {
		i++
	}

	var out []string
	for range baseParts[i:] {
		out = append(out, "..")
	}
	out = append(out, targetParts[i:]...)
	if len(out) == 0 {
		return "."
	}
	return strings.Join(out, "/")
}

func splitNonEmpty(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
