// internal/grader/grader.go
// Package grader scores model responses against per-case rubrics by asking a
// scorer model for a binary verdict on each criterion. It is the second stage
// of the pipeline, joining the responder's output to the rubric file.
package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/livemedbench/medbench/internal/appconfig"
	"github.com/livemedbench/medbench/internal/artifact"
	"github.com/livemedbench/medbench/internal/benchcase"
	"github.com/livemedbench/medbench/internal/providers"
	"github.com/livemedbench/medbench/internal/retry"
)

// Grade evaluates every rubric case against the model results file. Cases
// without a matching (or non-empty) response yield an empty evaluations
// record; per-item grading failures end as ungraded sentinels. Only missing
// or unreadable input files are fatal.
func Grade(ctx context.Context, cfg *appconfig.Config, provider providers.CompletionProvider, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	rubricCases, err := benchcase.LoadCases(opts.RubricFile)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d cases with rubric from %s.", len(rubricCases), opts.RubricFile)

	responses, err := loadResponses(opts.ResultsFile, opts.ResponseField)
	if err != nil {
		return err
	}
	log.Printf("Loaded %d model results from %s.", len(responses), opts.ResultsFile)

	output, err := artifact.Open[Record](opts.OutputFile, opts.Resume)
	if err != nil {
		return err
	}
	if opts.Resume && output.Len() > 0 {
		log.Printf("[resume] Loaded %d existing evaluations from %s.", output.Len(), opts.OutputFile)
	}

	type job struct {
		index int
		c     benchcase.Case
	}
	var pending []job
	for idx, c := range rubricCases {
		if output.Has(c.CaseID.String()) {
			log.Printf("[%d/%d] Skip already evaluated case: %s", idx+1, len(rubricCases), c.CaseID)
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
			record := gradeCase(groupCtx, cfg, provider, policy, j.c, responses, j.index, len(rubricCases))
			if err := output.Append(record); err != nil {
				return fmt.Errorf("error writing evaluation for case %s: %w", j.c.CaseID, err)
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	log.Printf("Done. Total evaluated cases in %s: %d", opts.OutputFile, output.Len())
	return nil
}

// gradeCase grades all rubric items of one case.
func gradeCase(ctx context.Context, cfg *appconfig.Config, provider providers.CompletionProvider, policy retry.Policy, c benchcase.Case, responses map[string]string, index, total int) Record {
	record := Record{CaseID: c.CaseID, Evaluations: map[string]ItemEvaluation{}}

	if len(c.RubricItems) == 0 {
		log.Printf("[%d/%d] Skip case %s: no rubric items", index+1, total, c.CaseID)
		return record
	}

	response, ok := responses[c.CaseID.String()]
	if !ok {
		log.Printf("[%d/%d] Model result missing for case_id=%s", index+1, total, c.CaseID)
		return record
	}
	if strings.TrimSpace(response) == "" {
		log.Printf("[%d/%d] Model response empty for case_id=%s", index+1, total, c.CaseID)
		return record
	}

	log.Printf("[%d/%d] Evaluating case %s (%d rubric items)", index+1, total, c.CaseID, len(c.RubricItems))

	userQuery := c.UserQuery()
	for itemIdx, item := range c.RubricItems {
		if strings.TrimSpace(item.Criterion) == "" {
			continue
		}

		evaluation := gradeItem(ctx, cfg, provider, policy, c.CaseID.String(), item, response, userQuery)
		record.Evaluations[fmt.Sprintf("rubric_%d", itemIdx+1)] = evaluation
	}

	return record
}

// gradeItem asks the scorer for a single criterion verdict. Transport errors
// and unparsable verdicts share the same bounded retry budget; exhaustion
// yields an ungraded evaluation with weighted score 0.
func gradeItem(ctx context.Context, cfg *appconfig.Config, provider providers.CompletionProvider, policy retry.Policy, caseID string, item benchcase.RubricItem, response, userQuery string) ItemEvaluation {
	evaluation := ItemEvaluation{
		Criterion: item.Criterion,
		Points:    item.Points,
		Axis:      item.Axis,
	}

	prompt := BuildGradingPrompt(item.Criterion, response, userQuery)

	var verdict Verdict
	err := policy.Do(ctx, fmt.Sprintf("grading call for case %s", caseID), func(ctx context.Context) error {
		completion, callErr := provider.Complete(ctx, providers.CompletionRequest{
			Model:       cfg.GraderModelName(),
			Prompt:      prompt,
			Temperature: 0,
			MaxTokens:   cfg.VerdictMaxTokens(),
		})
		if callErr != nil {
			return callErr
		}
		verdict, callErr = ParseVerdict(completion.Text)
		return callErr
	})

	if err != nil {
		// Ungraded sentinel: never coerce a failed verdict into a score.
		log.Printf("Leaving criterion ungraded for case_id=%s: %v", caseID, err)
		evaluation.Score = nil
		evaluation.WeightedScore = 0
		return evaluation
	}

	score := 0
	if verdict.Met {
		score = 1
	}
	evaluation.Score = &score
	evaluation.Reasoning = verdict.Reasoning
	evaluation.WeightedScore = item.Points * float64(score)
	return evaluation
}

// loadResponses indexes the model results file by stringified case_id and
// extracts the response text, falling back to the legacy "response" field
// when the configured field is absent.
func loadResponses(path, responseField string) (map[string]string, error) {
	if responseField == "" {
		responseField = "model_response"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading model results %q: %w", path, err)
	}

	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	var entries []map[string]any
	if err := decoder.Decode(&entries); err != nil {
		return nil, fmt.Errorf("model results %q must contain a JSON array: %w", path, err)
	}

	responses := make(map[string]string, len(entries))
	for _, entry := range entries {
		id, ok := entry["case_id"]
		if !ok || id == nil {
			continue
		}
		caseID := fmt.Sprintf("%v", id)

		text, _ := entry[responseField].(string)
		if text == "" && responseField != "response" {
			text, _ = entry["response"].(string)
		}
		responses[caseID] = text
	}
	return responses, nil
}
