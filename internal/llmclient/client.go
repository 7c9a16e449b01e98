// Package llmclient wraps the OpenAI chat-completions API with forced
// tool calling for the three structured schemas spec.md §6/§9
// requires: generate_weekly_plan, select_target_tags, and
// select_<phase>_variations. Every call forces exactly one named tool,
// decodes its arguments, and validates them again locally — schema
// enforcement on the provider side is never trusted alone, per
// spec.md §9. Grounded on the teacher's OpenAICompletionExecutor
// (internal/application/executor/node_executors.go): API-key
// resolution, openai.ChatCompletionRequest construction, latency
// timing around CreateChatCompletion, and wrapping provider failures
// with node-scoped errors.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	openai "github.com/sashabaranov/go-openai"

	domainerrors "github.com/smilemakc/trainerflow/internal/domain/errors"
)

// transportRetryPolicy bounds retries of the raw CreateChatCompletion
// call only — never the node's reported outcome, which stays a single
// fail/succeed per spec.md §9. Adapted from the teacher's
// RetryPolicy/calculateDelay (internal/application/executor/retry.go),
// narrowed from generic node retrying to transport-only retrying.
type transportRetryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
}

var defaultTransportRetry = transportRetryPolicy{
	maxAttempts:  3,
	initialDelay: 500 * time.Millisecond,
	maxDelay:     5 * time.Second,
	multiplier:   2.0,
}

func (p transportRetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.initialDelay) * math.Pow(p.multiplier, float64(attempt-1))
	if d > float64(p.maxDelay) {
		d = float64(p.maxDelay)
	}
	jitter := d * 0.1 * (2*rand.Float64() - 1)
	return time.Duration(d + jitter)
}

// Metrics is the minimal surface llmclient needs from
// internal/metrics.Collector, kept as an interface so tests can stub it.
type Metrics interface {
	RecordLLMCall(promptTokens, completionTokens int, latency time.Duration)
}

// Client issues forced tool-calling requests against the OpenAI API.
type Client struct {
	openai   *openai.Client
	model    string
	validate *validator.Validate
	metrics  Metrics
}

// NewClient builds a Client. apiKey is required; model defaults to
// "gpt-4o" when empty.
func NewClient(apiKey, model string, metrics Metrics) *Client {
	if model == "" {
		model = "gpt-4o"
	}
	return &Client{
		openai:   openai.NewClient(apiKey),
		model:    model,
		validate: validator.New(),
		metrics:  metrics,
	}
}

// callTool sends a single user-role prompt, forces the named tool, and
// returns the raw JSON arguments string the model produced.
func (c *Client) callTool(ctx context.Context, nodeName, prompt string, tool openai.Tool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Tools: []openai.Tool{tool},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: tool.Function.Name},
		},
	}

	start := time.Now()
	resp, err := c.createChatCompletionWithRetry(ctx, req)
	latency := time.Since(start)

	if err != nil {
		return "", domainerrors.NewLLMError(nodeName, "unreachable", err)
	}

	if c.metrics != nil {
		c.metrics.RecordLLMCall(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, latency)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return "", domainerrors.NewLLMError(nodeName, "no-tool-call", nil)
	}

	call := resp.Choices[0].Message.ToolCalls[0]
	if call.Function.Name != tool.Function.Name {
		return "", domainerrors.NewLLMError(nodeName, "schema-mismatch",
			fmt.Errorf("expected tool %q, got %q", tool.Function.Name, call.Function.Name))
	}

	return call.Function.Arguments, nil
}

// createChatCompletionWithRetry retries transport-level failures
// (network errors, 5xx, rate limits) with exponential backoff and
// jitter; it never retries a successful call that merely lacked a
// tool invocation — that is a schema problem, not a transport one.
func (c *Client) createChatCompletionWithRetry(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	policy := defaultTransportRetry
	var lastErr error

	for attempt := 0; attempt <= policy.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return openai.ChatCompletionResponse{}, ctx.Err()
			case <-time.After(policy.delay(attempt)):
			}
		}

		resp, err := c.openai.CreateChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != 429 {
			return openai.ChatCompletionResponse{}, err
		}
	}

	return openai.ChatCompletionResponse{}, fmt.Errorf("max retry attempts (%d) exhausted: %w", policy.maxAttempts, lastErr)
}

// decodeAndValidate JSON-decodes raw into dest and runs struct-tag
// validation on it, the local check spec.md §9 requires in addition to
// provider-side schema enforcement.
func (c *Client) decodeAndValidate(nodeName, raw string, dest any) error {
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return domainerrors.NewLLMError(nodeName, "schema-mismatch", fmt.Errorf("decoding tool arguments: %w", err))
	}
	if err := c.validate.Struct(dest); err != nil {
		return domainerrors.NewLLMError(nodeName, "schema-mismatch", fmt.Errorf("validating tool arguments: %w", err))
	}
	return nil
}
