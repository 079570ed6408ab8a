package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tabled-dev/tabled/internal/providers"
	"github.com/tabled-dev/tabled/internal/table"
)

func TestKindForCategory(t *testing.T) {
	cases := map[string]Kind{
		"data_transformation": KindTransform,
		"data_filtering":      KindFilter,
		"data_analysis":       KindAnalyze,
		"something_else":      KindTransform,
		"":                    KindTransform,
	}
	for category, want := range cases {
		if got := KindForCategory(category); got != want {
			t.Fatalf("KindForCategory(%q) = %q, want %q", category, got, want)
		}
	}
}

func TestMessages_ContractKeys(t *testing.T) {
	cases := []struct {
		kind    Kind
		dataKey string
	}{
		{KindTransform, "TRANSFORMED_DATA"},
		{KindFilter, "FILTERED_DATA"},
		{KindAnalyze, "ANALYZED_DATA"},
	}

	var tbl table.Table
	if err := json.Unmarshal([]byte(`[{"name":"kabir"}]`), &tbl); err != nil {
		t.Fatalf("failed to parse table: %v", err)
	}

	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			msgs, err := Messages(tc.kind, "do the thing", tbl)
			if err != nil {
				t.Fatalf("Messages() error = %v", err)
			}
			if len(msgs) != 2 {
				t.Fatalf("got %d messages, want 2", len(msgs))
			}
			if msgs[0].Role != providers.RoleSystem || msgs[1].Role != providers.RoleUser {
				t.Fatalf("roles = %q/%q", msgs[0].Role, msgs[1].Role)
			}
			if !strings.Contains(msgs[0].Content, tc.dataKey) {
				t.Fatalf("system prompt missing %s", tc.dataKey)
			}
			if !strings.Contains(msgs[0].Content, "EXPLANATION") {
				t.Fatal("system prompt missing EXPLANATION key")
			}
			if !strings.Contains(msgs[1].Content, "do the thing") {
				t.Fatal("user prompt missing instruction")
			}
			if !strings.Contains(msgs[1].Content, `"name": "kabir"`) {
				t.Fatalf("user prompt missing serialized table: %.200s", msgs[1].Content)
			}
		})
	}
}

func TestMessages_UnknownKind(t *testing.T) {
	if _, err := Messages(Kind("summon"), "x", nil); err == nil {
		t.Fatal("Messages() expected error for unknown kind")
	}
}

func TestMessages_EmptyTable(t *testing.T) {
	msgs, err := Messages(KindTransform, "add rows", table.Table{})
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if !strings.Contains(msgs[1].Content, "[]") {
		t.Fatal("empty table should serialize as []")
	}
}
