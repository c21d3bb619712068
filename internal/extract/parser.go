package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// The extraction model is asked for bare JSON but frequently wraps it in
// prose or a markdown code fence. Prefer a ```json fence when present,
// otherwise fall back to the outermost brace-delimited object.
var (
	fencedObjectRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	bareObjectRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ParseJSON locates a single JSON object embedded in the model's free-form
// response text and parses it. Returns ok=false when no object is found or
// the candidate does not parse; this is a recoverable extraction failure,
// never a panic.
func ParseJSON(text string) (map[string]any, bool) {
	var candidate string
	if strings.Contains(text, "```json") {
		m := fencedObjectRe.FindStringSubmatch(text)
		if m == nil {
			return nil, false
		}
		candidate = m[1]
	} else {
		candidate = bareObjectRe.FindString(text)
		if candidate == "" {
			return nil, false
		}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}
