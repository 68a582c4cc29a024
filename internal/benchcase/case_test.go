// internal/benchcase/case_test.go
package benchcase

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeCases(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cases.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write cases: %v", err)
	}
	return path
}

func TestCaseIDAcceptsStringAndNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "string id", raw: `{"case_id":"abc-1","narrative":"n","core_request":"q"}`, want: "abc-1"},
		{name: "integer id", raw: `{"case_id":42,"narrative":"n","core_request":"q"}`, want: "42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var c Case
			if err := json.Unmarshal([]byte(tt.raw), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.CaseID.String() != tt.want {
				t.Fatalf("CaseID = %q, want %q", c.CaseID, tt.want)
			}
		})
	}
}

func TestMaxPossibleScoreSumsPositiveOnly(t *testing.T) {
	t.Parallel()

	c := Case{RubricItems: []RubricItem{
		{Criterion: "identifies cause", Points: 10},
		{Criterion: "recommends antibiotics", Points: -5},
		{Criterion: "advises follow-up", Points: 3},
	}}
	if got := c.MaxPossibleScore(); got != 13 {
		t.Fatalf("MaxPossibleScore = %v, want 13", got)
	}
	if !c.Scorable() {
		t.Fatal("case should be scorable")
	}
}

func TestScorableFalseForEmptyOrNegativeRubric(t *testing.T) {
	t.Parallel()

	empty := Case{}
	if empty.Scorable() {
		t.Fatal("case with no rubric items must not be scorable")
	}

	negative := Case{RubricItems: []RubricItem{{Criterion: "bad advice", Points: -5}}}
	if negative.Scorable() {
		t.Fatal("case with only negative points must not be scorable")
	}
}

func TestLoadCasesQuarantinesMalformedRecords(t *testing.T) {
	t.Parallel()

	path := writeCases(t, `[
		{"case_id":"good","narrative":"n","core_request":"q"},
		{"case_id":"bad","narrative":42,"core_request":"q"},
		{"core_request":"missing narrative"}
	]`)

	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases returned error: %v", err)
	}
	if len(cases) != 1 {
		t.Fatalf("expected 1 valid case, got %d", len(cases))
	}
	if cases[0].CaseID.String() != "good" {
		t.Fatalf("unexpected surviving case: %q", cases[0].CaseID)
	}
}

func TestLoadCasesAssignsPositionalIDs(t *testing.T) {
	t.Parallel()

	path := writeCases(t, `[
		{"narrative":"first","core_request":"q"},
		{"narrative":"second","core_request":"q"}
	]`)

	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases returned error: %v", err)
	}
	if cases[0].CaseID.String() != "case_0" || cases[1].CaseID.String() != "case_1" {
		t.Fatalf("positional ids missing: %q %q", cases[0].CaseID, cases[1].CaseID)
	}
}

func TestLoadCasesRejectsNonArray(t *testing.T) {
	t.Parallel()

	path := writeCases(t, `{"narrative":"n"}`)
	if _, err := LoadCases(path); err == nil {
		t.Fatal("expected error for non-array root")
	}
}

func TestUserQueryJoinsNarrativeAndRequest(t *testing.T) {
	t.Parallel()

	c := Case{Narrative: "Patient has a fever.", CoreRequest: "What should they do?"}
	want := "Patient has a fever.\n\nWhat should they do?"
	if got := c.UserQuery(); got != want {
		t.Fatalf("UserQuery = %q, want %q", got, want)
	}
}
