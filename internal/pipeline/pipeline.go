// Package pipeline orchestrates one table-processing request: classify the
// instruction, build the operation prompt, invoke the model, extract a
// table from the reply, and normalize known fields.
//
// Each request runs its own Pipeline instance; there is no shared mutable
// state. The two model calls (classification, then generation) are
// sequential. Every failure path returns the caller's original table
// unmodified — the pipeline may fail to transform data, but it can never
// lose it.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tabled-dev/tabled/internal/extract"
	"github.com/tabled-dev/tabled/internal/normalize"
	"github.com/tabled-dev/tabled/internal/prompts"
	"github.com/tabled-dev/tabled/internal/providers"
	"github.com/tabled-dev/tabled/internal/table"
)

// generationTemperature matches the classifier: low, for stable output.
const generationTemperature = 0.1

// Pipeline processes one request against a single LLM client.
type Pipeline struct {
	client     providers.LLMClient
	categories []string
	logger     *slog.Logger
}

// New creates a pipeline. The categories slice is process-wide read-only
// configuration; its first element is the classification default.
func New(client providers.LLMClient, categories []string, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		client:     client,
		categories: categories,
		logger:     logger,
	}
}

// Run executes the pipeline and returns a human-readable message plus the
// resulting table. It never returns an error: invocation failures produce
// an explanatory message and the original table.
func (p *Pipeline) Run(ctx context.Context, instruction string, tbl table.Table) (string, table.Table) {
	category := Classify(ctx, p.client, instruction, p.categories, p.logger)
	kind := prompts.KindForCategory(category)
	p.logger.Info("processing request", "category", category, "kind", kind, "rows", len(tbl))

	messages, err := prompts.Messages(kind, instruction, tbl)
	if err != nil {
		return p.failed(err), tbl
	}

	result, err := p.client.Chat(ctx, &providers.ChatRequest{
		Messages:    messages,
		Temperature: generationTemperature,
	})
	if err != nil {
		return p.failed(err), tbl
	}
	p.logger.Debug("model reply received", "bytes", len(result.Content), "tokens", result.TotalTokens)

	extracted := extract.Extract(result.Content, tbl)
	if !extracted.Extracted {
		p.logger.Warn("no table recovered from model reply, returning input unchanged")
		return extracted.Explanation, extracted.Records
	}

	// Row-count drift is accepted, not corrected: the model may add or
	// drop rows and the extracted result is what the caller gets.
	if len(extracted.Records) != len(tbl) {
		p.logger.Warn("row count changed during processing",
			"input", len(tbl), "output", len(extracted.Records))
	}

	records := normalize.Normalize(extracted.Records)
	return extracted.Explanation, records
}

// failed produces the terminal failure message. The original table is
// always returned alongside it, never a partially transformed one.
func (p *Pipeline) failed(err error) string {
	p.logger.Error("pipeline failed", "error", err)
	return fmt.Sprintf("I encountered an error while processing your request: %v", err)
}
