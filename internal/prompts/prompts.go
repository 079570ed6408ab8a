// Package prompts builds the message pairs sent to the model. Each
// operation kind carries its own embedded system/user template pair; the
// system prompt is the single source of truth for the output grammar that
// internal/extract must be able to parse.
package prompts

import (
	"fmt"

	"github.com/tabled-dev/tabled/internal/prompts/analyze"
	"github.com/tabled-dev/tabled/internal/prompts/filter"
	"github.com/tabled-dev/tabled/internal/prompts/transform"
	"github.com/tabled-dev/tabled/internal/providers"
	"github.com/tabled-dev/tabled/internal/table"
)

// Kind selects which operation prompt pair to build.
type Kind string

const (
	KindTransform Kind = "transform"
	KindFilter    Kind = "filter"
	KindAnalyze   Kind = "analyze"
)

// KindForCategory maps a classified intent category to an operation kind.
// Unknown categories route to transformation.
func KindForCategory(category string) Kind {
	switch category {
	case "data_filtering":
		return KindFilter
	case "data_analysis":
		return KindAnalyze
	case "data_transformation":
		return KindTransform
	default:
		return KindTransform
	}
}

// Messages builds the (system, user) message pair for one operation. The
// table is serialized into the user prompt verbatim; large tables are not
// truncated.
func Messages(kind Kind, instruction string, tbl table.Table) ([]providers.Message, error) {
	tableJSON, err := tbl.MarshalIndent()
	if err != nil {
		return nil, err
	}

	var system, user string
	switch kind {
	case KindTransform:
		system = transform.SystemPrompt()
		user, err = transform.UserPrompt(instruction, tableJSON)
	case KindFilter:
		system = filter.SystemPrompt()
		user, err = filter.UserPrompt(instruction, tableJSON)
	case KindAnalyze:
		system = analyze.SystemPrompt()
		user, err = analyze.UserPrompt(instruction, tableJSON)
	default:
		return nil, fmt.Errorf("unknown operation kind: %s", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s prompt: %w", kind, err)
	}

	return []providers.Message{
		{Role: providers.RoleSystem, Content: system},
		{Role: providers.RoleUser, Content: user},
	}, nil
}
