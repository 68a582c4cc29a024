// internal/cli/metrics.go
package medbench

import (
	"fmt"
	"log"

	"github.com/livemedbench/medbench/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	metricsRubricFile string
	metricsEvalDir    string
	metricsOutputFile string
)

// metricsCmd aggregates every evaluation_results_*.json file into the
// monthly metric table.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Aggregate evaluation files into the monthly metric table",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, _, err := metrics.Aggregate(metricsRubricFile, metricsEvalDir)
		if err != nil {
			return err
		}

		if err := metrics.WriteTSV(report, metricsOutputFile); err != nil {
			return err
		}

		fmt.Println(metrics.RenderTable(report))
		log.Printf("%s Metric table written to %s", successfulResult("Done."), metricsOutputFile)
		return nil
	},
}

func init() {
	metricsCmd.Flags().StringVar(&metricsRubricFile, "rubric-file", "", "JSON array of cases with rubric_items")
	metricsCmd.Flags().StringVar(&metricsEvalDir, "evaluation-dir", ".", "directory holding evaluation_results_*.json files")
	metricsCmd.Flags().StringVar(&metricsOutputFile, "output-file", "metric_results.txt", "where to write the tab-separated table")
	_ = metricsCmd.MarkFlagRequired("rubric-file")

	rootCmd.AddCommand(metricsCmd)
}
