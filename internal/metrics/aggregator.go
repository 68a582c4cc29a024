// internal/metrics/aggregator.go
// Package metrics aggregates grading records into monthly and overall
// normalized scores per model, and derives the report artifacts the
// leaderboard site consumes.
package metrics

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/livemedbench/medbench/internal/benchcase"
	"github.com/livemedbench/medbench/internal/grader"
)

const (
	evaluationFilePrefix = "evaluation_results_"
	evaluationFileSuffix = ".json"
	unknownMonth         = "Unknown"
	// OverallRow labels the cross-month aggregate line of the report.
	OverallRow = "Overall"
)

// DiscoverEvaluationFiles scans a directory for evaluation_results_*.json
// files and maps the embedded model name to its path.
func DiscoverEvaluationFiles(dir string) (map[string]string, error) {
	pattern := filepath.Join(dir, evaluationFilePrefix+"*"+evaluationFileSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("error scanning evaluation dir %q: %w", dir, err)
	}

	files := make(map[string]string, len(matches))
	for _, path := range matches {
		name := filepath.Base(path)
		model := strings.TrimSuffix(strings.TrimPrefix(name, evaluationFilePrefix), evaluationFileSuffix)
		if model == "" {
			continue
		}
		files[model] = path
	}
	return files, nil
}

// Aggregate computes the metric report for every evaluation file in evalDir,
// normalizing each case against the rubric file's point values. The per-model
// case scores are returned alongside the report for the leaderboard export.
func Aggregate(rubricFile, evalDir string) (Report, map[string]ModelScores, error) {
	files, err := DiscoverEvaluationFiles(evalDir)
	if err != nil {
		return Report{}, nil, err
	}
	if len(files) == 0 {
		return Report{}, nil, fmt.Errorf("no %s*%s files found in %q", evaluationFilePrefix, evaluationFileSuffix, evalDir)
	}

	rubricCases, err := benchcase.LoadCases(rubricFile)
	if err != nil {
		return Report{}, nil, err
	}
	rubricIndex := benchcase.IndexByID(rubricCases)
	log.Printf("Loaded rubric for %d cases.", len(rubricIndex))

	models := make([]string, 0, len(files))
	for model := range files {
		models = append(models, model)
	}
	sort.Strings(models)

	allScores := make(map[string]ModelScores, len(models))
	for _, model := range models {
		records, err := loadEvaluations(files[model])
		if err != nil {
			return Report{}, nil, err
		}
		scores := ComputeModelScores(records, rubricIndex)
		allScores[model] = scores
		log.Printf("  %s: %d cases with scores.", model, len(scores))
	}

	return buildReport(models, allScores), allScores, nil
}

// ComputeModelScores normalizes one model's grading records against the
// rubric. Cases that cannot be matched to the rubric, or whose maximum
// achievable score is not positive, are excluded entirely rather than scored
// as zero.
func ComputeModelScores(records []grader.Record, rubricIndex map[string]benchcase.Case) ModelScores {
	scores := make(ModelScores)

	for _, record := range records {
		caseID := record.CaseID.String()
		if caseID == "" {
			continue
		}

		rubricCase, ok := rubricIndex[caseID]
		if !ok {
			log.Printf("Skipping case %s: not present in rubric file", caseID)
			continue
		}
		if !rubricCase.Scorable() {
			continue
		}

		total := caseTotalScore(record.Evaluations, rubricCase.RubricItems)
		score := clip01(total / rubricCase.MaxPossibleScore())

		scores[caseID] = CaseScore{
			Score:     score,
			PostTime:  rubricCase.PostTime,
			YearMonth: extractYearMonth(rubricCase.PostTime),
		}
	}

	return scores
}

// caseTotalScore sums weighted scores for evaluation entries whose criterion
// still exists in the rubric. Items the grader never produced (or left
// ungraded) contribute 0 while the rubric keeps them in the maximum, so
// grading failures count against the model rather than vanishing.
func caseTotalScore(evaluations map[string]grader.ItemEvaluation, rubricItems []benchcase.RubricItem) float64 {
	if len(evaluations) == 0 || len(rubricItems) == 0 {
		return 0
	}

	valid := make(map[string]struct{}, len(rubricItems))
	for _, item := range rubricItems {
		if item.Criterion != "" {
			valid[item.Criterion] = struct{}{}
		}
	}

	var total float64
	for _, eval := range evaluations {
		if eval.Criterion == "" {
			continue
		}
		if _, ok := valid[eval.Criterion]; !ok {
			continue
		}
		total += eval.WeightedScore
	}
	return total
}

// buildReport groups per-case scores into month rows plus the Overall row.
// Case counts come from the first model alphabetically; every model is
// expected to cover the same case set.
func buildReport(models []string, allScores map[string]ModelScores) Report {
	monthSet := make(map[string]struct{})
	for _, scores := range allScores {
		for _, cs := range scores {
			if cs.YearMonth != unknownMonth {
				monthSet[cs.YearMonth] = struct{}{}
			}
		}
	}

	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)

	countModel := ""
	if len(models) > 0 {
		countModel = models[0]
	}

	rows := make([]Row, 0, len(months)+1)
	totalCases := 0
	for _, month := range months {
		row := Row{Date: month, Scores: make(map[string]float64, len(models))}
		for _, model := range models {
			var sum float64
			var n int
			for _, cs := range allScores[model] {
				if cs.YearMonth != month {
					continue
				}
				sum += cs.Score
				n++
				if model == countModel {
					row.CaseCount++
				}
			}
			if n > 0 {
				row.Scores[model] = clip01(sum / float64(n))
			} else {
				row.Scores[model] = 0
			}
		}
		totalCases += row.CaseCount
		rows = append(rows, row)
	}

	overall := Row{Date: OverallRow, Scores: make(map[string]float64, len(models)), CaseCount: totalCases}
	for _, model := range models {
		var sum float64
		var n int
		for _, cs := range allScores[model] {
			sum += cs.Score
			n++
		}
		if n > 0 {
			overall.Scores[model] = clip01(sum / float64(n))
		} else {
			overall.Scores[model] = 0
		}
	}
	rows = append(rows, overall)

	return Report{Models: models, Rows: rows}
}

// loadEvaluations reads one model's grading records.
func loadEvaluations(path string) ([]grader.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading evaluation file %q: %w", path, err)
	}
	var records []grader.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("evaluation file %q must contain a JSON array: %w", path, err)
	}
	return records, nil
}

// extractYearMonth pulls YYYY-MM from an ISO-like timestamp.
func extractYearMonth(postTime string) string {
	trimmed := strings.TrimSpace(postTime)
	if trimmed == "" {
		return unknownMonth
	}
	trimmed = strings.TrimSuffix(trimmed, "Z")

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return ts.Format("2006-01")
		}
	}
	return unknownMonth
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
