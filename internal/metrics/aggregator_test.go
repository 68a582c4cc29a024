// internal/metrics/aggregator_test.go
package metrics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/livemedbench/medbench/internal/benchcase"
	"github.com/livemedbench/medbench/internal/grader"
)

func intPtr(v int) *int { return &v }

func evalItem(criterion string, points float64, met bool) grader.ItemEvaluation {
	score := 0
	if met {
		score = 1
	}
	return grader.ItemEvaluation{
		Criterion:     criterion,
		Points:        points,
		Score:         intPtr(score),
		WeightedScore: points * float64(score),
	}
}

func rubricIndexFixture() map[string]benchcase.Case {
	return benchcase.IndexByID([]benchcase.Case{
		{
			CaseID:   "c1",
			PostTime: "2023-04-16T09:00:00",
			RubricItems: []benchcase.RubricItem{
				{Criterion: "names cause", Points: 10},
				{Criterion: "recommends antibiotics", Points: -5},
			},
		},
		{
			CaseID:   "c2",
			PostTime: "2023-04-30T21:00:00",
			RubricItems: []benchcase.RubricItem{
				{Criterion: "advises rest", Points: 4},
			},
		},
		{
			CaseID:   "c3",
			PostTime: "2023-05-01T00:00:00",
			RubricItems: []benchcase.RubricItem{
				{Criterion: "mentions hydration", Points: 8},
			},
		},
		{
			// No positive points: carries no signal.
			CaseID:   "c4",
			PostTime: "2023-05-02T00:00:00",
			RubricItems: []benchcase.RubricItem{
				{Criterion: "suggests surgery", Points: -10},
			},
		},
		{
			// Empty rubric.
			CaseID:   "c5",
			PostTime: "2023-05-03T00:00:00",
		},
	})
}

func TestComputeModelScoresNormalization(t *testing.T) {
	t.Parallel()

	rubric := rubricIndexFixture()

	tests := []struct {
		name      string
		record    grader.Record
		wantScore float64
	}{
		{
			name: "positive met negative not met scores full marks",
			record: grader.Record{CaseID: "c1", Evaluations: map[string]grader.ItemEvaluation{
				"rubric_1": evalItem("names cause", 10, true),
				"rubric_2": evalItem("recommends antibiotics", -5, false),
			}},
			wantScore: 1.0,
		},
		{
			name: "negative met halves the score",
			record: grader.Record{CaseID: "c1", Evaluations: map[string]grader.ItemEvaluation{
				"rubric_1": evalItem("names cause", 10, true),
				"rubric_2": evalItem("recommends antibiotics", -5, true),
			}},
			wantScore: 0.5,
		},
		{
			name: "all negative clips at zero",
			record: grader.Record{CaseID: "c1", Evaluations: map[string]grader.ItemEvaluation{
				"rubric_1": evalItem("names cause", 10, false),
				"rubric_2": evalItem("recommends antibiotics", -5, true),
			}},
			wantScore: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			scores := ComputeModelScores([]grader.Record{tt.record}, rubric)
			cs, ok := scores["c1"]
			if !ok {
				t.Fatal("expected a score for c1")
			}
			if math.Abs(cs.Score-tt.wantScore) > 1e-9 {
				t.Fatalf("Score = %v, want %v", cs.Score, tt.wantScore)
			}
		})
	}
}

func TestComputeModelScoresExclusions(t *testing.T) {
	t.Parallel()

	rubric := rubricIndexFixture()
	records := []grader.Record{
		{CaseID: "c4", Evaluations: map[string]grader.ItemEvaluation{
			"rubric_1": evalItem("suggests surgery", -10, false),
		}},
		{CaseID: "c5", Evaluations: map[string]grader.ItemEvaluation{}},
		{CaseID: "unmatched", Evaluations: map[string]grader.ItemEvaluation{}},
	}

	scores := ComputeModelScores(records, rubric)
	if len(scores) != 0 {
		t.Fatalf("zero-max, empty-rubric and unmatched cases must all be excluded, got %v", scores)
	}
}

func TestComputeModelScoresCriterionMismatchIgnored(t *testing.T) {
	t.Parallel()

	rubric := rubricIndexFixture()
	// The evaluation carries a criterion the rubric no longer has; its
	// weighted score must not count.
	records := []grader.Record{
		{CaseID: "c2", Evaluations: map[string]grader.ItemEvaluation{
			"rubric_1": evalItem("advises rest", 4, true),
			"rubric_2": evalItem("stale criterion", 100, true),
		}},
	}

	scores := ComputeModelScores(records, rubric)
	if got := scores["c2"].Score; math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("Score = %v, want 1.0 (stale criterion ignored, clipped)", got)
	}
}

func TestComputeModelScoresUngradedCountsAgainstMax(t *testing.T) {
	t.Parallel()

	rubric := rubricIndexFixture()
	ungraded := grader.ItemEvaluation{Criterion: "names cause", Points: 10, Score: nil, WeightedScore: 0}
	records := []grader.Record{
		{CaseID: "c1", Evaluations: map[string]grader.ItemEvaluation{
			"rubric_1": ungraded,
			"rubric_2": evalItem("recommends antibiotics", -5, false),
		}},
	}

	scores := ComputeModelScores(records, rubric)
	if got := scores["c1"].Score; got != 0 {
		t.Fatalf("ungraded positive item should leave 0/10, got %v", got)
	}
}

func TestBuildReportMonthlyGrouping(t *testing.T) {
	t.Parallel()

	allScores := map[string]ModelScores{
		"gpt-5.2": {
			"c1": {Score: 0.8, YearMonth: "2023-04"},
			"c2": {Score: 0.4, YearMonth: "2023-04"},
			"c3": {Score: 1.0, YearMonth: "2023-05"},
		},
	}
	report := buildReport([]string{"gpt-5.2"}, allScores)

	if len(report.Rows) != 3 {
		t.Fatalf("expected 2 month rows + Overall, got %d", len(report.Rows))
	}

	april := report.Rows[0]
	if april.Date != "2023-04" || math.Abs(april.Scores["gpt-5.2"]-0.6) > 1e-9 || april.CaseCount != 2 {
		t.Fatalf("april row: %+v", april)
	}

	may := report.Rows[1]
	if may.Date != "2023-05" || math.Abs(may.Scores["gpt-5.2"]-1.0) > 1e-9 || may.CaseCount != 1 {
		t.Fatalf("may row: %+v", may)
	}

	overall := report.Rows[2]
	if overall.Date != OverallRow {
		t.Fatalf("last row must be Overall, got %q", overall.Date)
	}
	wantOverall := (0.8 + 0.4 + 1.0) / 3
	if math.Abs(overall.Scores["gpt-5.2"]-wantOverall) > 1e-9 || overall.CaseCount != 3 {
		t.Fatalf("overall row: %+v", overall)
	}
}

func TestExtractYearMonth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-04-08T00:00:00", want: "2025-04"},
		{in: "2023-12-31T23:59:59Z", want: "2023-12"},
		{in: "2023-04-16", want: "2023-04"},
		{in: "not a date", want: "Unknown"},
		{in: "", want: "Unknown"},
	}
	for _, tt := range tests {
		if got := extractYearMonth(tt.in); got != tt.want {
			t.Fatalf("extractYearMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiscoverEvaluationFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"evaluation_results_gpt-5.2.json",
		"evaluation_results_llama-4.json",
		"unrelated.json",
		"evaluation_results_.json",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := DiscoverEvaluationFiles(dir)
	if err != nil {
		t.Fatalf("DiscoverEvaluationFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 models, got %v", files)
	}
	if _, ok := files["gpt-5.2"]; !ok {
		t.Fatalf("missing gpt-5.2 in %v", files)
	}
	if _, ok := files["llama-4"]; !ok {
		t.Fatalf("missing llama-4 in %v", files)
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rubricFile := filepath.Join(dir, "rubric.json")
	rubricJSON := `[
		{"case_id":"c1","post_time":"2023-04-16T09:00:00","narrative":"n","core_request":"q",
		 "rubric_items":[{"criterion":"names cause","points":10},{"criterion":"recommends antibiotics","points":-5}]},
		{"case_id":"c2","post_time":"2023-04-30T21:00:00","narrative":"n","core_request":"q",
		 "rubric_items":[{"criterion":"advises rest","points":4}]},
		{"case_id":"c3","post_time":"2023-05-01T00:00:00","narrative":"n","core_request":"q",
		 "rubric_items":[{"criterion":"mentions hydration","points":8}]}
	]`
	if err := os.WriteFile(rubricFile, []byte(rubricJSON), 0o644); err != nil {
		t.Fatalf("write rubric: %v", err)
	}

	evalJSON := `[
		{"case_id":"c1","evaluations":{
			"rubric_1":{"criterion":"names cause","points":10,"score":1,"weighted_score":10},
			"rubric_2":{"criterion":"recommends antibiotics","points":-5,"score":0,"weighted_score":0}}},
		{"case_id":"c2","evaluations":{
			"rubric_1":{"criterion":"advises rest","points":4,"score":0,"weighted_score":0}}},
		{"case_id":"c3","evaluations":{
			"rubric_1":{"criterion":"mentions hydration","points":8,"score":1,"weighted_score":8}}}
	]`
	if err := os.WriteFile(filepath.Join(dir, "evaluation_results_gpt-5.2.json"), []byte(evalJSON), 0o644); err != nil {
		t.Fatalf("write evaluations: %v", err)
	}

	report, allScores, err := Aggregate(rubricFile, dir)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if len(report.Models) != 1 || report.Models[0] != "gpt-5.2" {
		t.Fatalf("models: %v", report.Models)
	}
	if len(report.Rows) != 3 {
		t.Fatalf("expected April, May and Overall rows, got %d", len(report.Rows))
	}

	april := report.Rows[0]
	if april.Date != "2023-04" || math.Abs(april.Scores["gpt-5.2"]-0.5) > 1e-9 {
		t.Fatalf("april row: %+v", april)
	}
	may := report.Rows[1]
	if may.Date != "2023-05" || math.Abs(may.Scores["gpt-5.2"]-1.0) > 1e-9 {
		t.Fatalf("may row: %+v", may)
	}

	if len(allScores["gpt-5.2"]) != 3 {
		t.Fatalf("expected 3 case scores, got %d", len(allScores["gpt-5.2"]))
	}
}
