// internal/cli/grade.go
package medbench

import (
	"context"
	"fmt"
	"log"

	"github.com/livemedbench/medbench/internal/grader"
	"github.com/livemedbench/medbench/internal/providers/openai"
	"github.com/spf13/cobra"
)

var gradeOpts grader.Options

// gradeCmd scores an existing response file against the rubric, one
// grading call per rubric item.
var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade model responses against the per-case rubric",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("a config file with providerUrl is required; see --config")
		}

		provider, err := openai.New(cfg)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := grader.Grade(context.Background(), cfg, provider, gradeOpts); err != nil {
			return err
		}
		log.Printf("%s Evaluations written to %s", successfulResult("Done."), gradeOpts.OutputFile)
		return nil
	},
}

func init() {
	gradeCmd.Flags().StringVar(&gradeOpts.RubricFile, "rubric-file", "", "JSON array of cases with rubric_items")
	gradeCmd.Flags().StringVar(&gradeOpts.ResultsFile, "results-file", "", "response records produced by the respond command")
	gradeCmd.Flags().StringVar(&gradeOpts.OutputFile, "output-file", "", "where to write evaluation records (evaluation_results_<model>.json)")
	gradeCmd.Flags().StringVar(&gradeOpts.ResponseField, "response-field", "", "JSON field holding the model response (default model_response)")
	gradeCmd.Flags().IntVar(&gradeOpts.MaxCases, "max-cases", 0, "only grade the first N cases (0 = all)")
	gradeCmd.Flags().BoolVar(&gradeOpts.Resume, "resume", false, "skip cases already present in the output file")
	_ = gradeCmd.MarkFlagRequired("rubric-file")
	_ = gradeCmd.MarkFlagRequired("results-file")
	_ = gradeCmd.MarkFlagRequired("output-file")

	rootCmd.AddCommand(gradeCmd)
}
