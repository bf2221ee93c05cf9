// Package pipeline sequences the answer flow: schema introspection, SQL
// generation, gating, execution, summarization. One request in, one
// response out; any stage failure aborts the whole request.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kompasshr/kompasshr/internal/llm"
	"github.com/kompasshr/kompasshr/internal/observability"
	"github.com/kompasshr/kompasshr/internal/schema"
	"github.com/kompasshr/kompasshr/internal/sqlgate"
)

var (
	ErrGeneration = errors.New("sql generation failed")
	ErrExecution  = errors.New("query execution failed")
)

type SchemaDescriber interface {
	Describe(ctx context.Context) (schema.Schema, error)
}

type QueryRunner interface {
	Run(ctx context.Context, statement string) ([]map[string]any, error)
}

type Service struct {
	Schema      SchemaDescriber
	Completer   llm.Completer
	Runner      QueryRunner
	Logger      *slog.Logger
	Temperature float64
	Now         func() time.Time
}

type Result struct {
	Statement string           `json:"sql"`
	Answer    string           `json:"answer"`
	Rows      []map[string]any `json:"rows"`
}

// Answer runs the full pipeline for one question. No retries, no partial
// results: the returned error is the terminal outcome for the request.
func (s *Service) Answer(ctx context.Context, question string) (Result, error) {
	observability.ObserveQuestion()

	tables, err := s.Schema.Describe(ctx)
	if err != nil {
		observability.ObservePipelineFailure("schema")
		return Result{}, fmt.Errorf("%w: load schema: %v", ErrExecution, err)
	}

	generateStart := time.Now()
	raw, err := s.Completer.Complete(ctx, generationPrompt(tables.Prompt(), question), 0)
	observability.ObserveCompletion("generate", time.Since(generateStart))
	if err != nil {
		observability.ObservePipelineFailure("generate")
		return Result{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	statement, err := sqlgate.Clean(raw)
	if err != nil {
		observability.ObserveGateRejection(rejectionReason(err))
		observability.ObservePipelineFailure("gate")
		if s.Logger != nil {
			s.Logger.WarnContext(ctx, "generated statement rejected",
				slog.String("reason", rejectionReason(err)),
			)
		}
		return Result{}, err
	}

	queryStart := time.Now()
	rows, err := s.Runner.Run(ctx, statement)
	if err != nil {
		observability.ObservePipelineFailure("execute")
		return Result{}, fmt.Errorf("%w: %v", ErrExecution, err)
	}
	observability.ObserveQuery(len(rows), time.Since(queryStart))

	enriched := enrichExperience(rows, s.now())
	encoded, err := json.Marshal(enriched)
	if err != nil {
		observability.ObservePipelineFailure("summarize")
		return Result{}, fmt.Errorf("%w: encode result rows: %v", ErrGeneration, err)
	}

	summarizeStart := time.Now()
	answer, err := s.Completer.Complete(ctx, summaryPrompt(question, string(encoded)), s.Temperature)
	observability.ObserveCompletion("summarize", time.Since(summarizeStart))
	if err != nil {
		observability.ObservePipelineFailure("summarize")
		return Result{}, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	observability.ObserveAnswer()
	if s.Logger != nil {
		s.Logger.InfoContext(ctx, "question answered",
			slog.Int("rows", len(rows)),
			slog.Int("tables", len(tables)),
		)
	}
	return Result{Statement: statement, Answer: answer, Rows: rows}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, sqlgate.ErrNotAReadQuery):
		return "not_a_read_query"
	case errors.Is(err, sqlgate.ErrForbiddenKeyword):
		return "forbidden_keyword"
	default:
		return "other"
	}
}
