package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRouterClient_Chat(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq openRouterRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "reply text"}},
			},
			"usage": map[string]int{
				"prompt_tokens":     12,
				"completion_tokens": 3,
				"total_tokens":      15,
			},
		})
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages:    []Message{{Role: RoleUser, Content: "hello"}},
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if result.Content != "reply text" {
		t.Fatalf("Content = %q", result.Content)
	}
	if result.TotalTokens != 15 {
		t.Fatalf("TotalTokens = %d, want 15", result.TotalTokens)
	}
	if result.ModelUsed != "google/gemini-flash-1.5" {
		t.Fatalf("ModelUsed = %q, want default model", result.ModelUsed)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotReq.Temperature != 0.1 {
		t.Fatalf("wire temperature = %v", gotReq.Temperature)
	}
}

func TestOpenRouterClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "code": 502},
		})
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err == nil {
		t.Fatal("Chat() expected error, got nil")
	}
	if result.Success {
		t.Fatal("result.Success should be false")
	}
	if result.ErrorType != "api_error" {
		t.Fatalf("ErrorType = %q", result.ErrorType)
	}
}

func TestOpenRouterClient_HTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server on fire", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	})
	if err == nil {
		t.Fatal("Chat() expected error, got nil")
	}
	if result.ErrorType != "http_error" {
		t.Fatalf("ErrorType = %q", result.ErrorType)
	}
}

func TestOpenRouterClient_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k", BaseURL: srv.URL})

	result, err := client.Chat(context.Background(), &ChatRequest{})
	if err == nil {
		t.Fatal("Chat() expected error, got nil")
	}
	if result.ErrorType != "empty_response" {
		t.Fatalf("ErrorType = %q", result.ErrorType)
	}
}
