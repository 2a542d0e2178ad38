// Package autorater is a model-based quality evaluator for generated
// debriefs. It is consumed by tests and CI acceptance checks, not by the
// runtime pipeline.
package autorater

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/debrief-helper/pkg/llm"
)

const evaluationCriteria = `Evaluate this DEBRIEF on the following criteria:
1. Does it accurately summarize the key information from the input files?
2. Does it focus on the user's needs, progress, and actions (not the assistant's recommendations)?
3. Is it well-organized and easy to understand?
4. Does it capture important details without being overly verbose?

Provide:
- A score from 1-10 (10 being excellent)
- Reasoning for your score
- A list of specific issues (empty if none)`

// Response is the autorater's verdict on a debrief.
type Response struct {
	Score     int      `json:"score"`
	Reasoning string   `json:"reasoning"`
	Issues    []string `json:"issues"`
}

func responseSchema() string {
	return `Return the JSON object directly without any formatting or additional text. Make sure to answer in valid json and include all necessary properties:{
  "type": "object",
  "properties": {
    "score": {"type": "integer", "minimum": 1, "maximum": 10},
    "reasoning": {"type": "string"},
    "issues": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["score", "reasoning", "issues"]
}`
}

// BuildEvaluationPrompt assembles the evaluation input from the original
// transcripts and the generated debrief.
func BuildEvaluationPrompt(inputFiles []string, debriefContent, evalContext string) string {
	var prompt strings.Builder

	prompt.WriteString("You are evaluating the quality of a DEBRIEF summary generated from conversation files.\n\n")
	prompt.WriteString(fmt.Sprintf("Context: %s\n\n", evalContext))

	prompt.WriteString("Input files:\n")
	for i, content := range inputFiles {
		prompt.WriteString(fmt.Sprintf("File %d:\n%s\n", i+1, content))
		if i < len(inputFiles)-1 {
			prompt.WriteString("\n")
		}
	}
	prompt.WriteString("\n")

	prompt.WriteString("Generated DEBRIEF:\n")
	prompt.WriteString(debriefContent)
	prompt.WriteString("\n\n")

	prompt.WriteString(evaluationCriteria)

	return prompt.String()
}

// EvaluateDebrief scores a generated debrief against its input files.
func EvaluateDebrief(ctx context.Context, model llms.Model, inputFiles []string, debriefContent, evalContext string, policy llm.RetryPolicy) (*Response, error) {
	input := BuildEvaluationPrompt(inputFiles, debriefContent, evalContext)

	var parsed Response
	_, err := llm.GenerateStructured(ctx, model, "You are a strict quality rater.", responseSchema(), input, policy, func(content string) error {
		parsed = Response{}
		if err := json.Unmarshal([]byte(content), &parsed); err != nil {
			return fmt.Errorf("json parse error: %w", err)
		}
		if parsed.Score < 1 || parsed.Score > 10 {
			return fmt.Errorf("score %d out of range", parsed.Score)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
