// Package llmtest provides a canned llms.Model for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// StubModel returns canned responses in order and records every prompt it
// receives. Once responses are exhausted the last one repeats.
type StubModel struct {
	Responses []string
	Err       error

	mu      sync.Mutex
	Prompts []string
	Calls   int
}

var _ llms.Model = (*StubModel)(nil)

func NewStubModel(responses ...string) *StubModel {
	return &StubModel{Responses: responses}
}

func (s *StubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Calls++
	s.Prompts = append(s.Prompts, flatten(messages))

	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Responses) == 0 {
		return nil, fmt.Errorf("stub model has no responses")
	}

	idx := s.Calls - 1
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.Responses[idx]}},
	}, nil
}

func (s *StubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := s.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

// LastPrompt returns the most recent prompt, or "" before the first call.
func (s *StubModel) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Prompts) == 0 {
		return ""
	}
	return s.Prompts[len(s.Prompts)-1]
}

func flatten(messages []llms.MessageContent) string {
	var out string
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				out += text.Text + "\n"
			}
		}
	}
	return out
}
