// internal/grader/types.go
package grader

import "github.com/livemedbench/medbench/internal/benchcase"

// ItemEvaluation is one graded rubric criterion. Score is 1 when the grader
// judged the criterion met, 0 when not met, and nil when the grader output
// stayed unparsable after retries (ungraded sentinel — never coerced to a
// score). WeightedScore is points for a met criterion and 0 otherwise,
// including the ungraded case.
type ItemEvaluation struct {
	Criterion     string  `json:"criterion"`
	Points        float64 `json:"points"`
	Axis          string  `json:"axe,omitempty"`
	Score         *int    `json:"score"`
	Reasoning     string  `json:"reasoning,omitempty"`
	WeightedScore float64 `json:"weighted_score"`
}

// Record is the grader's output for one case: a mapping from rubric item key
// (rubric_1, rubric_2, ... by rubric position) to its evaluation.
type Record struct {
	CaseID      benchcase.CaseID          `json:"case_id"`
	Evaluations map[string]ItemEvaluation `json:"evaluations"`
}

// RecordID keys the record for the resumable output log.
func (r Record) RecordID() string { return r.CaseID.String() }

// Options control one grading run.
type Options struct {
	RubricFile    string
	ResultsFile   string
	OutputFile    string
	ResponseField string
	MaxCases      int
	Resume        bool
}

// Verdict is the parsed outcome of a single grading call.
type Verdict struct {
	Met       bool
	Reasoning string
}
