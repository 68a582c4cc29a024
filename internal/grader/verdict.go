// internal/grader/verdict.go
package grader

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// verdictItem mirrors the JSON objects the grading prompt requests.
type verdictItem struct {
	Question  string   `json:"question"`
	Met       flexBool `json:"met"`
	Reasoning string   `json:"reasoning"`
}

// flexBool tolerates models answering "met": "true" instead of a JSON bool.
type flexBool struct {
	value bool
	set   bool
}

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		b.value = v
		b.set = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			b.value = true
			b.set = true
			return nil
		case "false":
			b.value = false
			b.set = true
			return nil
		}
	}
	return fmt.Errorf("met must be a boolean, got %s", string(data))
}

// ParseVerdict extracts a binary verdict from raw grader output. The ladder
// is: strict JSON, fenced-block extraction, jsonrepair, then met/true-false
// text heuristics. An error means the output stayed unintelligible and the
// call should be retried or the item marked ungraded.
func ParseVerdict(raw string) (Verdict, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Verdict{}, fmt.Errorf("empty grader output")
	}

	candidates := []string{text}
	if fenced := stripCodeFence(text); fenced != text {
		candidates = append(candidates, fenced)
	}

	for _, candidate := range candidates {
		if v, ok := parseVerdictJSON(candidate); ok {
			return v, nil
		}
		if repaired, err := jsonrepair.JSONRepair(candidate); err == nil {
			if v, ok := parseVerdictJSON(repaired); ok {
				return v, nil
			}
		}
	}

	if v, ok := parseVerdictHeuristic(text); ok {
		return v, nil
	}

	return Verdict{}, fmt.Errorf("could not parse grader output: %.160q", raw)
}

// parseVerdictJSON accepts either a list of verdict objects or a bare object.
func parseVerdictJSON(text string) (Verdict, bool) {
	var items []verdictItem
	if err := json.Unmarshal([]byte(text), &items); err == nil && len(items) > 0 && items[0].Met.set {
		return Verdict{Met: items[0].Met.value, Reasoning: items[0].Reasoning}, true
	}

	var single verdictItem
	if err := json.Unmarshal([]byte(text), &single); err == nil && single.Met.set {
		return Verdict{Met: single.Met.value, Reasoning: single.Reasoning}, true
	}

	return Verdict{}, false
}

// parseVerdictHeuristic mirrors the fallback used when the scorer answers in
// prose: look for a met field, then generic yes/no phrasing.
func parseVerdictHeuristic(text string) (Verdict, bool) {
	lowered := strings.ToLower(text)

	if strings.Contains(lowered, `"met"`) {
		if strings.Contains(lowered, "true") {
			return Verdict{Met: true}, true
		}
		if strings.Contains(lowered, "false") {
			return Verdict{Met: false}, true
		}
	}

	if strings.Contains(lowered, "not satisf") {
		return Verdict{Met: false}, true
	}
	if strings.Contains(lowered, "yes") || strings.Contains(lowered, "satisf") {
		return Verdict{Met: true}, true
	}
	if strings.Contains(lowered, "no") {
		return Verdict{Met: false}, true
	}

	return Verdict{}, false
}

// stripCodeFence unwraps a ```json ... ``` block if the whole output is fenced.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if idx := strings.Index(body, "\n"); idx >= 0 {
		body = body[idx+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
