// internal/benchcase/case.go
// Package benchcase defines the benchmark case model and its file loading.
// A case is one medical consultation record; rubric-augmented cases carry the
// weighted criteria used for grading.
package benchcase

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/livemedbench/medbench/internal/logging"
)

// RubricItem is one evaluable criterion within a case. Positive points reward
// required content, negative points penalize unsafe or incorrect content.
type RubricItem struct {
	Criterion string  `json:"criterion"`
	Points    float64 `json:"points"`
	Axis      string  `json:"axe,omitempty"`
}

// Case is a single consultation record. RubricItems is empty for plain data
// files and populated in the rubric-augmented file used by grading.
type Case struct {
	CaseID       CaseID       `json:"case_id,omitempty"`
	PostTime     string       `json:"post_time,omitempty"`
	Narrative    string       `json:"narrative"`
	CoreRequest  string       `json:"core_request"`
	DoctorAdvice string       `json:"doctor_advice,omitempty"`
	RubricItems  []RubricItem `json:"rubric_items,omitempty"`
}

// CaseID tolerates both string and integer identifiers in source JSON and
// normalizes them to a string for joining across pipeline artifacts.
type CaseID string

// UnmarshalJSON accepts a JSON string or number.
func (id *CaseID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = CaseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = CaseID(n.String())
		return nil
	}
	return fmt.Errorf("case_id must be a string or number, got %s", string(data))
}

func (id CaseID) String() string { return string(id) }

// UserQuery joins the narrative and core request the way both the responder
// prompt and the grader prompt present the original question.
func (c Case) UserQuery() string {
	return strings.TrimSpace(c.Narrative + "\n\n" + c.CoreRequest)
}

// MaxPossibleScore sums the positive rubric points. Negative points only ever
// subtract from the achieved total, so they do not raise the ceiling. A case
// whose maximum is not positive carries no signal and is excluded upstream.
func (c Case) MaxPossibleScore() float64 {
	var max float64
	for _, item := range c.RubricItems {
		if item.Points > 0 {
			max += item.Points
		}
	}
	return max
}

// Scorable reports whether the case can contribute to aggregation.
func (c Case) Scorable() bool {
	return c.MaxPossibleScore() > 0
}

// LoadCases reads a JSON array of cases. Records failing schema validation
// are quarantined with a diagnostic rather than aborting the batch; an
// unreadable or non-array file is a configuration error and is fatal.
func LoadCases(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading case file %q: %w", path, err)
	}

	var rawCases []json.RawMessage
	if err := json.Unmarshal(raw, &rawCases); err != nil {
		return nil, fmt.Errorf("case file %q must contain a JSON array: %w", path, err)
	}

	cases := make([]Case, 0, len(rawCases))
	for idx, rawCase := range rawCases {
		if err := ValidateCase(rawCase); err != nil {
			logging.LogEvent("Quarantined case %d in %s: %v", idx, path, err)
			continue
		}
		var c Case
		if err := json.Unmarshal(rawCase, &c); err != nil {
			logging.LogEvent("Quarantined case %d in %s: %v", idx, path, err)
			continue
		}
		if c.CaseID == "" {
			c.CaseID = CaseID(fmt.Sprintf("case_%d", idx))
		}
		cases = append(cases, c)
	}

	if len(cases) == 0 {
		return nil, fmt.Errorf("case file %q contains no valid cases", path)
	}
	return cases, nil
}

// IndexByID builds a case_id lookup over a loaded case slice.
func IndexByID(cases []Case) map[string]Case {
	index := make(map[string]Case, len(cases))
	for _, c := range cases {
		index[c.CaseID.String()] = c
	}
	return index
}
