package extract

import (
	"regexp"
	"strings"
)

var (
	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
	fusedObjects        = regexp.MustCompile(`}\s*{`)
	blankLines          = regexp.MustCompile(`\n\s*\n`)
)

// repairJSON applies a deterministic sequence of textual fixes to a
// candidate array that failed to parse: trim to the array's bracket span,
// drop trailing commas, insert the comma missing between fused object
// boundaries, and collapse blank lines. Callers reparse exactly once; if
// the result is still invalid the strategy fails.
func repairJSON(candidate string) string {
	cleaned := trimToArraySpan(candidate)
	cleaned = trailingCommaObject.ReplaceAllString(cleaned, "}")
	cleaned = trailingCommaArray.ReplaceAllString(cleaned, "]")
	cleaned = fusedObjects.ReplaceAllString(cleaned, "},{")
	cleaned = blankLines.ReplaceAllString(cleaned, "\n")
	return cleaned
}

// trimToArraySpan strips content before the first "[" and after its
// balancing "]". When the brackets never balance (the usual reason the
// parse failed), it falls back to the last "]" in the text.
func trimToArraySpan(s string) string {
	start := strings.Index(s, "[")
	if start < 0 {
		return s
	}
	s = s[start:]

	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	if end := strings.LastIndex(s, "]"); end >= 0 {
		return s[:end+1]
	}
	return s
}
