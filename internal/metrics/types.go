// internal/metrics/types.go
package metrics

// CaseScore is one case's normalized score for one model.
type CaseScore struct {
	Score     float64
	PostTime  string
	YearMonth string
}

// ModelScores maps case_id to its normalized score for a single model.
type ModelScores map[string]CaseScore

// Row is one line of the metric report: a calendar month (or "Overall") with
// the mean normalized score per model and the number of contributing cases.
type Row struct {
	Date      string
	Scores    map[string]float64
	CaseCount int
}

// Report is the aggregated metric table consumed by the TSV writer, the
// terminal renderer, and the leaderboard export.
type Report struct {
	Models []string
	Rows   []Row
}

// LeaderboardEntry is the stable JSON contract consumed by the static
// leaderboard front end.
type LeaderboardEntry struct {
	Model         string  `json:"model"`
	Score         float64 `json:"score"`
	Cases         int     `json:"cases"`
	MonthsCovered int     `json:"months_covered"`
	Type          string  `json:"type"`
}
