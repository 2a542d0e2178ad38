// Package llm wraps langchaingo model calls with the structured-output
// conventions used across the pipeline: a JSON schema appended to the
// system prompt, JSON mode on the request, and strict validation of the
// response with bounded retries.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// RetryPolicy bounds the attempts made against the model backend.
// MaxRetries of 1 means a single attempt with no retry.
type RetryPolicy struct {
	MaxRetries int
	Timeout    time.Duration
}

// GenerateStructured calls the model with a system prompt carrying the
// response schema and retries while the validator rejects the output.
// The validator is responsible for resetting any unmarshal target it
// writes into, since it runs once per attempt.
func GenerateStructured(ctx context.Context, model llms.Model, systemPrompt, schema, input string, policy RetryPolicy, validator func(string) error) (string, error) {
	if policy.MaxRetries < 1 {
		policy.MaxRetries = 1
	}

	prompts := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt+"\n\n# Response Format:\n"+schema),
		llms.TextParts(llms.ChatMessageTypeHuman, input),
	}

	var lastErr error
	for i := 0; i < policy.MaxRetries; i++ {
		if i > 0 {
			slog.Warn("Retrying LLM generation", "attempt", i+1, "last_error", lastErr)
			time.Sleep(time.Second * time.Duration(i)) // Linear backoff
		}

		content, err := generateOnce(ctx, model, prompts, policy.Timeout)
		if err != nil {
			lastErr = err
			continue
		}

		if err := validator(content); err != nil {
			lastErr = fmt.Errorf("validation failed: %w", err)
			continue
		}

		return content, nil
	}

	return "", fmt.Errorf("operation failed after %d attempts: %w", policy.MaxRetries, lastErr)
}

func generateOnce(ctx context.Context, model llms.Model, prompts []llms.MessageContent, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := model.GenerateContent(ctx, prompts, llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("llm generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned no choices")
	}
	return resp.Choices[0].Content, nil
}
