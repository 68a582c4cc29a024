// internal/responder/types.go
package responder

import "github.com/livemedbench/medbench/internal/benchcase"

// FinishReasonError marks a case whose completion call failed terminally.
// All other finish reasons are passed through from the provider.
const FinishReasonError = "error"

// ResponseRecord is the responder's output for one case. The case fields are
// echoed so downstream grading and review do not need the original data file.
type ResponseRecord struct {
	CaseID        benchcase.CaseID `json:"case_id"`
	PostTime      string           `json:"post_time"`
	Narrative     string           `json:"narrative"`
	CoreRequest   string           `json:"core_request"`
	ModelResponse string           `json:"model_response"`
	FinishReason  string           `json:"finish_reason"`
	DoctorAdvice  string           `json:"doctor_advice"`
}

// RecordID keys the record for the resumable output log.
func (r ResponseRecord) RecordID() string { return r.CaseID.String() }

// Options control one responder run.
type Options struct {
	DataFile   string
	OutputFile string
	Model      string
	MaxCases   int
	Resume     bool
}
