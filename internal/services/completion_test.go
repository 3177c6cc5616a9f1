package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/caresight/caresight-backend/internal/config"
	"github.com/caresight/caresight-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	return log
}

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "gpt-4o-mini",
		MaxTokens:      100,
		Temperature:    0.3,
		TopP:           0.9,
		TimeoutSeconds: 5,
	}
}

func TestComplete_UnconfiguredClientFailsWithoutCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	cfg.APIKey = ""
	client := NewCompletionClient(testLogger(t), cfg)

	result := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)
	if result.Success {
		t.Fatalf("expected failure result")
	}
	if !strings.Contains(result.ErrorMessage, "OPENAI_API_KEY") {
		t.Fatalf("expected configuration error, got %q", result.ErrorMessage)
	}
	if called {
		t.Fatalf("unconfigured client should not hit the provider")
	}
}

func TestComplete_SuccessParsesContentAndUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request decode failed: %v", err)
		}
		if req["model"] != "gpt-4o-mini" {
			t.Errorf("unexpected model %v", req["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"summary\": \"ok\"}"}}],
			"usage": {"total_tokens": 42}
		}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(testLogger(t), testAIConfig(srv.URL))
	result := client.Complete(context.Background(), []ChatMessage{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "analyze"},
	}, nil)

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.ErrorMessage)
	}
	if result.Content != `{"summary": "ok"}` {
		t.Fatalf("unexpected content %q", result.Content)
	}
	if result.TokensUsed != 42 {
		t.Fatalf("expected 42 tokens, got %d", result.TokensUsed)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("expected placeholder confidence 1.0, got %v", result.Confidence)
	}
}

func TestComplete_ProviderErrorBecomesFailureResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(testLogger(t), testAIConfig(srv.URL))
	result := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)

	if result.Success {
		t.Fatalf("expected failure for http 429")
	}
	if !strings.Contains(result.ErrorMessage, "429") {
		t.Fatalf("expected status in error, got %q", result.ErrorMessage)
	}
}

func TestComplete_EmptyChoicesIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [], "usage": {"total_tokens": 0}}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(testLogger(t), testAIConfig(srv.URL))
	result := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, nil)

	if result.Success {
		t.Fatalf("expected failure for empty choices")
	}
	if !strings.Contains(result.ErrorMessage, "no choices") {
		t.Fatalf("unexpected error message %q", result.ErrorMessage)
	}
}

func TestComplete_OptionOverridesWinOverConfig(t *testing.T) {
	var seen map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}], "usage": {"total_tokens": 1}}`))
	}))
	defer srv.Close()

	client := NewCompletionClient(testLogger(t), testAIConfig(srv.URL))
	result := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, &CompletionOptions{
		Model:     "gpt-4o",
		MaxTokens: 500,
	})

	if !result.Success {
		t.Fatalf("expected success, got %q", result.ErrorMessage)
	}
	if seen["model"] != "gpt-4o" {
		t.Fatalf("expected model override, got %v", seen["model"])
	}
	if seen["max_tokens"] != float64(500) {
		t.Fatalf("expected max_tokens override, got %v", seen["max_tokens"])
	}
	if result.Model != "gpt-4o" {
		t.Fatalf("expected result model gpt-4o, got %q", result.Model)
	}
}
