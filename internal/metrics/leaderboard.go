// internal/metrics/leaderboard.go
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// BuildLeaderboard derives the front-end leaderboard entries from a report.
// Scores come from the Overall row; the typeOf callback supplies the
// category tag for each model (proprietary/open/medical).
func BuildLeaderboard(report Report, allScores map[string]ModelScores, typeOf func(model string) string) []LeaderboardEntry {
	monthCount := 0
	for _, row := range report.Rows {
		if row.Date != OverallRow {
			monthCount++
		}
	}

	var overall Row
	for _, row := range report.Rows {
		if row.Date == OverallRow {
			overall = row
			break
		}
	}

	entries := make([]LeaderboardEntry, 0, len(report.Models))
	for _, model := range report.Models {
		entry := LeaderboardEntry{
			Model:         model,
			Score:         overall.Scores[model],
			Cases:         len(allScores[model]),
			MonthsCovered: monthCount,
			Type:          typeOf(model),
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Model < entries[j].Model
	})
	return entries
}

// WriteLeaderboard writes the leaderboard JSON document.
func WriteLeaderboard(entries []LeaderboardEntry, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating leaderboard directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding leaderboard: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing leaderboard %q: %w", path, err)
	}
	return nil
}
