// internal/cli/leaderboard.go
package medbench

import (
	"log"

	"github.com/livemedbench/medbench/internal/appconfig"
	"github.com/livemedbench/medbench/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	leaderboardRubricFile string
	leaderboardEvalDir    string
	leaderboardOutputFile string
)

// leaderboardCmd exports the leaderboard JSON the static site consumes.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Export the overall leaderboard as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, allScores, err := metrics.Aggregate(leaderboardRubricFile, leaderboardEvalDir)
		if err != nil {
			return err
		}

		cfg := GetConfig()
		typeOf := func(model string) string {
			if cfg != nil {
				return cfg.ModelType(model)
			}
			return appconfig.Config{}.ModelType(model)
		}

		entries := metrics.BuildLeaderboard(report, allScores, typeOf)
		if err := metrics.WriteLeaderboard(entries, leaderboardOutputFile); err != nil {
			return err
		}
		log.Printf("%s Leaderboard with %d models written to %s", successfulResult("Done."), len(entries), leaderboardOutputFile)
		return nil
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardRubricFile, "rubric-file", "", "JSON array of cases with rubric_items")
	leaderboardCmd.Flags().StringVar(&leaderboardEvalDir, "evaluation-dir", ".", "directory holding evaluation_results_*.json files")
	leaderboardCmd.Flags().StringVar(&leaderboardOutputFile, "output-file", "leaderboard.json", "where to write the leaderboard JSON")
	_ = leaderboardCmd.MarkFlagRequired("rubric-file")

	rootCmd.AddCommand(leaderboardCmd)
}
