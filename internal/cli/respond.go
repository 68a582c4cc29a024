// internal/cli/respond.go
package medbench

import (
	"context"
	"fmt"
	"log"

	"github.com/fatih/color"
	"github.com/livemedbench/medbench/internal/providers/openai"
	"github.com/livemedbench/medbench/internal/responder"
	"github.com/spf13/cobra"
)

var successfulResult = color.New(color.FgGreen).SprintFunc()

var respondOpts responder.Options

// respondCmd runs the candidate model over the consultation cases and
// writes one response record per case.
var respondCmd = &cobra.Command{
	Use:   "respond",
	Short: "Run the candidate model over the benchmark cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("a config file with providerUrl is required; see --config")
		}
		if respondOpts.Model == "" {
			respondOpts.Model = cfg.Model
		}
		if respondOpts.OutputFile == "" {
			respondOpts.OutputFile = fmt.Sprintf("outputs/results_%s.json", respondOpts.Model)
		}

		provider, err := openai.New(cfg)
		if err != nil {
			return err
		}
		defer provider.Close()

		if err := responder.Run(context.Background(), cfg, provider, respondOpts); err != nil {
			return err
		}
		log.Printf("%s Responses written to %s", successfulResult("Done."), respondOpts.OutputFile)
		return nil
	},
}

func init() {
	respondCmd.Flags().StringVar(&respondOpts.DataFile, "data-file", "", "JSON array of consultation cases")
	respondCmd.Flags().StringVar(&respondOpts.OutputFile, "output-file", "", "where to write response records (default outputs/results_<model>.json)")
	respondCmd.Flags().StringVar(&respondOpts.Model, "model", "", "candidate model name (default from config)")
	respondCmd.Flags().IntVar(&respondOpts.MaxCases, "max-cases", 0, "only process the first N cases (0 = all)")
	respondCmd.Flags().BoolVar(&respondOpts.Resume, "resume", false, "skip cases already present in the output file")
	_ = respondCmd.MarkFlagRequired("data-file")

	rootCmd.AddCommand(respondCmd)
}
