package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tabled-dev/tabled/internal/providers"
)

// classifierTemperature keeps classification near-deterministic.
const classifierTemperature = 0.1

// Classify maps a free-text instruction to one of the configured intent
// categories with a single model call. Any failure — invocation error,
// empty reply, or a reply outside the category set — resolves to the first
// category, which is the configured default. It never returns an error.
func Classify(ctx context.Context, client providers.LLMClient, instruction string, categories []string, logger *slog.Logger) string {
	if len(categories) == 0 {
		return ""
	}
	fallback := categories[0]

	system := fmt.Sprintf(
		"You are an intent classification system. Classify the user's request into one of these categories:\n%s\n\nReturn only the category name, nothing else.",
		strings.Join(categories, ", "),
	)

	result, err := client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: system},
			{Role: providers.RoleUser, Content: instruction},
		},
		Temperature: classifierTemperature,
	})
	if err != nil {
		logger.Warn("intent classification failed, using default category",
			"error", err, "default", fallback)
		return fallback
	}

	category := strings.ToLower(strings.TrimSpace(result.Content))
	for _, c := range categories {
		if category == c {
			logger.Debug("classified intent", "category", category)
			return category
		}
	}

	logger.Warn("model returned category outside the configured set",
		"got", category, "default", fallback)
	return fallback
}
