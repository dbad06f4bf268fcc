package llm

import (
	"encoding/json"
	"strings"

	"github.com/joseph-ayodele/form-agent/internal/common"
)

// DecodeObject turns raw model text into a JSON object. Models reliably wrap
// JSON in markdown fences or surround it with prose despite instructions, so a
// strict parse gets two tiers of recovery: fence stripping, then retrying on
// the first balanced {...} span. Only when all of that fails does the caller
// see ErrMalformedOutput carrying the offending text.
func DecodeObject(raw string) (map[string]any, error) {
	content := strings.TrimSpace(raw)
	content = stripFences(content)

	var m map[string]any
	if err := json.Unmarshal([]byte(content), &m); err == nil {
		return m, nil
	}

	if span := braceSpan(content); span != "" {
		if err := json.Unmarshal([]byte(span), &m); err == nil {
			return m, nil
		}
	}

	return nil, common.NewAppError("LLM_MALFORMED_OUTPUT",
		"response is not a JSON object: "+truncate(content, 512),
		common.ErrMalformedOutput)
}

// stripFences removes a surrounding markdown code fence (```json ... ```),
// dropping the first and last lines of the block.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// braceSpan returns the largest span from the first '{' to the last '}', or
// "" when no such span exists.
func braceSpan(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
