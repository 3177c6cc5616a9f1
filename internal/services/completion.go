package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caresight/caresight-backend/internal/config"
	"github.com/caresight/caresight-backend/internal/platform/logger"
)

// ChatMessage is one role-tagged message in a completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// CompletionResult is the uniform outcome of one completion call. Provider
// problems are carried here as Success=false; Complete never returns a Go error.
type CompletionResult struct {
	Success bool
	Content string
	// The provider does not report uncertainty; this is a placeholder fixed at
	// 1.0 on success and must not be read as calibrated confidence.
	Confidence        float64
	Model             string
	TokensUsed        int
	ProcessingSeconds float64
	ErrorMessage      string
}

type CompletionClient interface {
	Complete(ctx context.Context, messages []ChatMessage, opts *CompletionOptions) *CompletionResult
	Configured() bool
	DefaultModel() string
}

type completionClient struct {
	log        *logger.Logger
	cfg        config.AIConfig
	httpClient *http.Client
}

func NewCompletionClient(log *logger.Logger, cfg config.AIConfig) CompletionClient {
	return &completionClient{
		log:        log.With("service", "CompletionClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}
}

func (c *completionClient) Configured() bool {
	return c.cfg.Configured()
}

func (c *completionClient) DefaultModel() string {
	return c.cfg.Model
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	TopP        float64       `json:"top_p,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (c *completionClient) failure(model string, elapsed float64, msg string) *CompletionResult {
	return &CompletionResult{
		Success:           false,
		Model:             model,
		ProcessingSeconds: elapsed,
		ErrorMessage:      msg,
	}
}

// Complete makes exactly one call to the provider. No retries, no streaming;
// the only timeout is the HTTP client's.
func (c *completionClient) Complete(ctx context.Context, messages []ChatMessage, opts *CompletionOptions) *CompletionResult {
	if opts == nil {
		opts = &CompletionOptions{}
	}
	model := opts.Model
	if model == "" {
		model = c.cfg.Model
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	topP := opts.TopP
	if topP == 0 {
		topP = c.cfg.TopP
	}

	if !c.cfg.Configured() {
		return c.failure(model, 0, "completion provider not configured: OPENAI_API_KEY is not set")
	}

	start := time.Now()

	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return c.failure(model, time.Since(start).Seconds(), err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return c.failure(model, time.Since(start).Seconds(), err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Completion call failed", "model", model, "error", err)
		return c.failure(model, time.Since(start).Seconds(), err.Error())
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return c.failure(model, time.Since(start).Seconds(), readErr.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("completion provider http %d: %s", resp.StatusCode, string(raw))
		c.log.Error("Completion call rejected", "model", model, "status", resp.StatusCode)
		return c.failure(model, time.Since(start).Seconds(), msg)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return c.failure(model, time.Since(start).Seconds(), fmt.Sprintf("completion decode error: %v", err))
	}
	if len(parsed.Choices) == 0 {
		return c.failure(model, time.Since(start).Seconds(), "completion response contained no choices")
	}

	elapsed := time.Since(start).Seconds()
	c.log.Debug("Completion call succeeded", "model", model, "tokens", parsed.Usage.TotalTokens, "seconds", elapsed)
	return &CompletionResult{
		Success:           true,
		Content:           parsed.Choices[0].Message.Content,
		Confidence:        1.0,
		Model:             model,
		TokensUsed:        parsed.Usage.TotalTokens,
		ProcessingSeconds: elapsed,
	}
}
