// Package extract recovers a structured table and an explanation from the
// free-form text a generative model returns.
//
// Model output drifts between formats: a clean JSON object, an object buried
// in prose, a bare array after a marker line, or JSON with broken
// punctuation. Extraction runs an ordered chain of independent strategies
// and stops at the first one that yields a syntactically valid array. If
// every strategy fails the caller's original table comes back untouched, so
// a bad model reply can never lose data.
package extract

import (
	"strings"

	"github.com/tabled-dev/tabled/internal/table"
)

const (
	// DefaultExplanation is used when the reply carries no explanation.
	DefaultExplanation = "Data processed successfully."

	// parseFailureExplanation is returned on total fallback.
	parseFailureExplanation = "Could not parse model response as JSON."

	explanationKey = "EXPLANATION"
)

// dataKeys are the recognized data-key aliases, in priority order. The
// prompt contract in internal/prompts emits exactly these; the two must
// stay in sync.
var dataKeys = []string{"TRANSFORMED_DATA", "FILTERED_DATA", "ANALYZED_DATA"}

// Result is the outcome of extraction.
type Result struct {
	// Explanation is never empty.
	Explanation string

	// Records is the extracted table, or the fallback table when
	// Extracted is false.
	Records table.Table

	// Extracted reports whether Records was genuinely recovered from the
	// reply. When false, Records is the caller's fallback and must not be
	// normalized or otherwise modified.
	Extracted bool
}

// Extract recovers (explanation, records) from raw model output. It never
// fails: the worst case returns the fallback table unchanged.
func Extract(raw string, fallback table.Table) Result {
	records, explanation, ok := runStrategies(raw)
	if !ok {
		return Result{
			Explanation: parseFailureExplanation,
			Records:     fallback,
			Extracted:   false,
		}
	}

	if explanation == "" {
		explanation = findExplanationMarker(raw)
	}
	if explanation == "" {
		explanation = DefaultExplanation
	}

	return Result{
		Explanation: explanation,
		Records:     records,
		Extracted:   true,
	}
}

// runStrategies tries each extraction strategy in priority order. The
// returned explanation is non-empty only when an object-level EXPLANATION
// key was found alongside the data.
func runStrategies(raw string) (table.Table, string, bool) {
	trimmed := strings.TrimSpace(raw)

	// Strategy 1: the entire reply is one JSON object.
	explanation := ""
	if records, expl, ok := fromObjectText(trimmed); ok {
		return records, expl, true
	} else if expl != "" {
		// The object parsed and carried an explanation even though no
		// usable data key was present. Keep it while later strategies
		// hunt for the array.
		explanation = expl
	}

	// Strategy 2: first "{" to last "}" span inside surrounding prose.
	if span, ok := braceSpan(trimmed); ok && span != trimmed {
		if records, expl, ok := fromObjectText(span); ok {
			return records, expl, true
		} else if explanation == "" && expl != "" {
			explanation = expl
		}
	}

	// Strategy 3: marker-anchored bracket balancing, with Strategy 4
	// (textual repair) applied when the balanced span does not parse.
	for _, marker := range dataKeys {
		candidate, ok := markerArraySpan(raw, marker)
		if !ok {
			continue
		}
		if records, ok := parseRecords(candidate); ok {
			return records, explanation, true
		}
		if records, ok := parseRecords(repairJSON(candidate)); ok {
			return records, explanation, true
		}
	}

	return nil, explanation, false
}

// fromObjectText parses text as one JSON object and reads the first present
// data-key alias plus the EXPLANATION key. The explanation comes back even
// when no data key is usable.
func fromObjectText(text string) (table.Table, string, bool) {
	v, err := table.ParseValue([]byte(text))
	if err != nil {
		return nil, "", false
	}
	obj, ok := v.(*table.Record)
	if !ok {
		return nil, "", false
	}

	explanation := ""
	if ev, ok := obj.Get(explanationKey); ok {
		if s, ok := ev.(string); ok {
			explanation = strings.TrimSpace(s)
		}
	}

	for _, key := range dataKeys {
		dv, ok := obj.Get(key)
		if !ok {
			continue
		}
		records, ok := table.FromValue(dv)
		if !ok {
			continue
		}
		return records, explanation, true
	}

	return nil, explanation, false
}

// braceSpan returns the substring from the first "{" to the last "}".
func braceSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

// markerArraySpan locates marker in raw, then the next "[" after it, then
// scans forward counting nested brackets until the count returns to zero.
// The scan is not string-aware: a literal "[" or "]" inside a string value
// will skew the count. That trade keeps the scan simple and has not been a
// failure mode in practice, since record values rarely contain bare
// brackets.
func markerArraySpan(raw, marker string) (string, bool) {
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return "", false
	}
	rest := raw[idx+len(marker):]

	start := strings.Index(rest, "[")
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(rest); i++ {
		switch rest[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return rest[start : i+1], true
			}
		}
	}
	return "", false
}

// parseRecords parses text as a JSON array of objects.
func parseRecords(text string) (table.Table, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	v, err := table.ParseValue([]byte(strings.TrimSpace(text)))
	if err != nil {
		return nil, false
	}
	return table.FromValue(v)
}

// findExplanationMarker captures the text after an EXPLANATION marker up to
// a blank-line boundary or end of text.
func findExplanationMarker(raw string) string {
	idx := strings.Index(raw, explanationKey)
	if idx < 0 {
		return ""
	}
	jsonKey := idx > 0 && raw[idx-1] == '"'
	rest := raw[idx+len(explanationKey):]

	// Skip the key/value punctuation that may follow the marker in either
	// its plain-text (EXPLANATION:) or JSON-key ("EXPLANATION":) form.
	rest = strings.TrimLeft(rest, "\"':  \t")

	if end := strings.Index(rest, "\n\n"); end >= 0 {
		rest = rest[:end]
	}
	// Only the JSON-key form drags along the closing quote and brace of
	// the enclosing object; a plain-text explanation keeps its trailing
	// punctuation.
	if jsonKey {
		rest = strings.TrimRight(rest, "\"'}, \t")
	}
	return strings.TrimSpace(rest)
}
