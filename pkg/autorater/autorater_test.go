package autorater

import (
	"context"
	"strings"
	"testing"

	"github.com/mikeboe/debrief-helper/pkg/llm"
	"github.com/mikeboe/debrief-helper/pkg/llm/llmtest"
)

func TestBuildEvaluationPrompt(t *testing.T) {
	prompt := BuildEvaluationPrompt(
		[]string{"Conversation one", "Conversation two"},
		"### Progress\n\nThe user migrated the schema.",
		"fresh topic, two files",
	)

	for _, want := range []string{
		"Context: fresh topic, two files",
		"File 1:\nConversation one",
		"File 2:\nConversation two",
		"### Progress",
		"Evaluate this DEBRIEF on the following criteria:",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEvaluateDebrief(t *testing.T) {
	stub := llmtest.NewStubModel(`{"score":8,"reasoning":"captures user actions","issues":[]}`)

	resp, err := EvaluateDebrief(context.Background(), stub, []string{"input"}, "### A\n\nB", "test", llm.RetryPolicy{MaxRetries: 1})
	if err != nil {
		t.Fatalf("EvaluateDebrief() error = %v", err)
	}

	if resp.Score != 8 {
		t.Errorf("Score = %d, want 8", resp.Score)
	}
	if resp.Reasoning == "" {
		t.Error("Reasoning is empty")
	}
	if len(resp.Issues) != 0 {
		t.Errorf("Issues = %v, want empty", resp.Issues)
	}
}

func TestEvaluateDebriefRejectsOutOfRangeScore(t *testing.T) {
	stub := llmtest.NewStubModel(`{"score":0,"reasoning":"r","issues":[]}`)

	if _, err := EvaluateDebrief(context.Background(), stub, nil, "d", "c", llm.RetryPolicy{MaxRetries: 1}); err == nil {
		t.Fatal("expected error for score out of range")
	}
}
