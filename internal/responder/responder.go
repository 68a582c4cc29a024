// internal/responder/responder.go
// Package responder runs the candidate model over a benchmark case file and
// records raw responses. It is the first stage of the pipeline; grading and
// aggregation consume its output file.
package responder

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/livemedbench/medbench/internal/appconfig"
	"github.com/livemedbench/medbench/internal/artifact"
	"github.com/livemedbench/medbench/internal/benchcase"
	"github.com/livemedbench/medbench/internal/providers"
	"github.com/livemedbench/medbench/internal/retry"
)

// Run executes the responder over all cases in opts.DataFile. A single case
// failure is recorded and never aborts the batch; only unreadable inputs are
// fatal. Re-running with opts.Resume skips case_ids already present in the
// output file.
func Run(ctx context.Context, cfg *appconfig.Config, provider providers.CompletionProvider, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if opts.Model == "" {
		return fmt.Errorf("responder runs require a model name")
	}

	cases, err := benchcase.LoadCases(opts.DataFile)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d cases from %s.", len(cases), opts.DataFile)

	output, err := artifact.Open[ResponseRecord](opts.OutputFile, opts.Resume)
	if err != nil {
		return err
	}
	if opts.Resume && output.Len() > 0 {
		log.Printf("[resume] Loaded %d existing results from %s.", output.Len(), opts.OutputFile)
	}

	// Select pending work up front so --max-cases always takes the first N
	// unprocessed cases in input order, regardless of worker count.
	type job struct {
		index int
		c     benchcase.Case
	}
	var pending []job
	for idx, c := range cases {
		if output.Has(c.CaseID.String()) {
			log.Printf("[%d/%d] Skip already processed case_id=%s", idx+1, len(cases), c.CaseID)
			continue
		}
		pending = append(pending, job{index: idx, c: c})
		if opts.MaxCases > 0 && len(pending) >= opts.MaxCases {
			log.Printf("Reached max-cases=%d, capping run.", opts.MaxCases)
			break
		}
	}

	policy := retry.Policy{MaxAttempts: cfg.RetryAttempts(), Backoff: cfg.RetryBackoff()}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.WorkerCount())

	for _, j := range pending {
		j := j
		group.Go(func() error {
			log.Printf("[%d/%d] Processing case_id=%s", j.index+1, len(cases), j.c.CaseID)

			record := answerCase(groupCtx, cfg, provider, policy, opts.Model, j.c)
			if err := output.Append(record); err != nil {
				return fmt.Errorf("error writing result for case %s: %w", j.c.CaseID, err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	log.Printf("Done. Total cases written to %s: %d", opts.OutputFile, output.Len())
	return nil
}

// answerCase invokes the model for one case. Terminal call failures are
// converted into an error record so the batch keeps moving.
func answerCase(ctx context.Context, cfg *appconfig.Config, provider providers.CompletionProvider, policy retry.Policy, model string, c benchcase.Case) ResponseRecord {
	prompt := BuildPrompt(c.Narrative, c.CoreRequest)

	var completion providers.Completion
	err := policy.Do(ctx, fmt.Sprintf("completion call for case %s", c.CaseID), func(ctx context.Context) error {
		var callErr error
		completion, callErr = provider.Complete(ctx, providers.CompletionRequest{
			Model:       model,
			Prompt:      prompt,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.ResponseMaxTokens(),
		})
		return callErr
	})

	record := ResponseRecord{
		CaseID:       c.CaseID,
		PostTime:     c.PostTime,
		Narrative:    c.Narrative,
		CoreRequest:  c.CoreRequest,
		DoctorAdvice: c.DoctorAdvice,
	}

	if err != nil {
		log.Printf("Completion failed for case_id=%s: %v", c.CaseID, err)
		record.ModelResponse = fmt.Sprintf("ERROR: %v", err)
		record.FinishReason = FinishReasonError
		return record
	}

	record.ModelResponse = completion.Text
	record.FinishReason = completion.FinishReason
	return record
}
