package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tabled-dev/tabled/internal/providers"
	"github.com/tabled-dev/tabled/internal/table"
)

func mustTable(t *testing.T, src string) table.Table {
	t.Helper()
	var tbl table.Table
	if err := json.Unmarshal([]byte(src), &tbl); err != nil {
		t.Fatalf("failed to parse table %s: %v", src, err)
	}
	return tbl
}

func TestPipeline_HappyPath(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		"data_transformation",
		`{"TRANSFORMED_DATA": [{"name": "kabir", "confidence": "85"}], "EXPLANATION": "Scored each row."}`,
	}

	p := New(mock, testCategories, testLogger())
	in := mustTable(t, `[{"name":"kabir"}]`)

	msg, out := p.Run(context.Background(), "score each name", in)
	if msg != "Scored each row." {
		t.Fatalf("message = %q", msg)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}

	// Extracted fields are normalized.
	v, _ := out[0].Get("confidence")
	if got, ok := v.(int64); !ok || got != 85 {
		t.Fatalf("confidence = %#v, want int64(85)", v)
	}

	if mock.RequestCount() != 2 {
		t.Fatalf("expected 2 model calls (classify + generate), got %d", mock.RequestCount())
	}
}

func TestPipeline_CategoryRoutesPrompt(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		"data_filtering",
		`{"FILTERED_DATA": [{"name": "ivan"}]}`,
	}

	p := New(mock, testCategories, testLogger())
	_, out := p.Run(context.Background(), "keep only ivan", mustTable(t, `[{"name":"kabir"},{"name":"ivan"}]`))

	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}

	reqs := mock.Requests()
	if len(reqs) != 2 {
		t.Fatalf("got %d requests, want 2", len(reqs))
	}
	system := reqs[1].Messages[0].Content
	if !strings.Contains(system, "FILTERED_DATA") {
		t.Fatalf("filter prompt not selected for data_filtering, system prompt: %.120s", system)
	}
}

func TestPipeline_GenerationFailureReturnsInput(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "data_transformation"
	mock.FailAfter = 1 // classification succeeds, generation fails

	p := New(mock, testCategories, testLogger())
	in := mustTable(t, `[{"name":"kabir","confidence":"80"}]`)

	msg, out := p.Run(context.Background(), "transform", in)
	if !strings.HasPrefix(msg, "I encountered an error while processing your request:") {
		t.Fatalf("message = %q", msg)
	}
	if !table.Equal(out, in) {
		t.Fatal("input table must come back unchanged on failure")
	}
}

func TestPipeline_UnparseableReplyReturnsInputUnnormalized(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		"data_transformation",
		"I cannot produce JSON right now.",
	}

	p := New(mock, testCategories, testLogger())
	in := mustTable(t, `[{"name":"kabir","confidence":"80"}]`)

	msg, out := p.Run(context.Background(), "transform", in)
	if msg != "Could not parse model response as JSON." {
		t.Fatalf("message = %q", msg)
	}

	// The fallback table is returned without normalization: confidence
	// stays the string the caller sent.
	v, _ := out[0].Get("confidence")
	if _, ok := v.(int64); ok {
		t.Fatal("fallback table must not be normalized")
	}
	if !table.Equal(out, in) {
		t.Fatal("input table must come back unchanged")
	}
}

func TestPipeline_RowCountDriftAccepted(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Responses = []string{
		"data_filtering",
		`{"FILTERED_DATA": [{"name": "ivan", "confidence": 91}], "EXPLANATION": "Kept one row."}`,
	}

	p := New(mock, testCategories, testLogger())
	in := mustTable(t, `[{"name":"kabir","confidence":40},{"name":"ivan","confidence":91}]`)

	msg, out := p.Run(context.Background(), "keep confidence above 80", in)
	if msg != "Kept one row." {
		t.Fatalf("message = %q", msg)
	}
	if len(out) != 1 {
		t.Fatalf("drifted row count should be returned as-is, got %d rows", len(out))
	}
}
