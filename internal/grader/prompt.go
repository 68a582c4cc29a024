// internal/grader/prompt.go
package grader

import (
	"fmt"
	"strings"
)

// gradingPromptTemplate instructs the scorer to return a binary verdict for
// exactly one criterion. The polarity note is load-bearing: for negative
// criteria "met" means the model committed the error; the signed points in
// the rubric handle the sign, the grader only detects presence.
const gradingPromptTemplate = `
Role: You are an Objective Grader.
Task: Evaluate the Model Response (M_out) against the provided Rubric (R).

Instructions:
- Objective Verification: For each criterion in the Rubric, determine if the Model Response satisfies it.
- Binary Judgment: Return true (Met) or false (Not Met).
- Positive Criteria Logic: true if the model includes the required information.
- Negative Criteria Logic: true if the model commits the error (e.g., if the rubric asks "Does model suggest antibiotics?" and the model suggests them, return true). Note: The scoring formula handles the negative sign; you simply detect presence.
- Evidence: Quote the specific sentence from the model output that supports your decision.

Input:
- User Query (Q): This is the original question from the patient, built as:
    Q = """%s"""
- Model Response (M_out):
%s

- Rubric (R): JSON list of criteria from Phase 1. In this call you will receive exactly one criterion:
[
  {"question": "%s"}
]

Output Format (JSON):
[
  {
    "question": "Does the model identify the likely cause as Norovirus?",
    "met": true,
    "reasoning": "Model explicitly states 'symptoms suggest Norovirus'."
  },
  {
    "question": "Does the model recommend antibiotics?",
    "met": false,
    "reasoning": "Model correctly states 'antibiotics are not effective'."
  }
]

Now, given the User Query (Q), the Model Response (M_out) and the Rubric (R) with one criterion, output a JSON list with a single object in the exact format above, where:
- "question" is the criterion string you evaluated,
- "met" is true or false,
- "reasoning" briefly quotes or summarizes the evidence from the model response (and, if relevant, the user query) that supports your decision.
`

// BuildGradingPrompt fills the grading template for one criterion.
func BuildGradingPrompt(criterion, modelResponse, userQuery string) string {
	return fmt.Sprintf(gradingPromptTemplate,
		strings.TrimSpace(userQuery),
		strings.TrimSpace(modelResponse),
		strings.TrimSpace(criterion),
	)
}
