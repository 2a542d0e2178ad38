package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/debrief-helper/pkg/llm"
)

const researchSystemPrompt = `You are a research assistant helping to answer questions and find information.`

func findingsSchema() string {
	return `Return the JSON object directly without any formatting or additional text. Make sure to answer in valid json and include all necessary properties:{
  "type": "object",
  "properties": {
    "findings": {"type": "string"},
    "confidence": {"type": "integer", "minimum": 1, "maximum": 10},
    "sources": {
      "type": "array",
      "items": {"type": "string"}
    }
  },
  "required": ["findings", "confidence", "sources"]
}`
}

// Memory supplies previously stored findings related to a query. A nil
// Memory disables the lookup entirely.
type Memory interface {
	SimilarFindings(ctx context.Context, query string, limit int) ([]string, error)
}

// Executor runs admitted tasks through the model, one call per task, with
// bounded concurrency. Each call fails independently; a failed task is
// dropped and does not abort its siblings, so partial results are the
// expected outcome when some tasks fail.
type Executor struct {
	Model   llms.Model
	Retry   llm.RetryPolicy
	Workers int
	Memory  Memory
}

// Execute researches all tasks and returns the successful results. Result
// order is not guaranteed to match task order.
func (e *Executor) Execute(ctx context.Context, tasks []Task) []Result {
	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	var results []Result
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for _, task := range tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			result, err := e.Research(ctx, task)
			if err != nil {
				slog.Error("Research task failed", "query", task.Query, "error", err)
				return
			}

			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
		}(task)
	}
	wg.Wait()

	slog.Info("Research execution complete", "tasks", len(tasks), "results", len(results))
	return results
}

// Research runs a single task through the model.
func (e *Executor) Research(ctx context.Context, task Task) (*Result, error) {
	var input strings.Builder
	input.WriteString(fmt.Sprintf(`Research Query: %s
Context: %s
Task Type: %s

`, task.Query, task.Context, task.TaskType))

	if prior := e.priorFindings(ctx, task.Query); len(prior) > 0 {
		input.WriteString("Previously researched findings related to this query (avoid repeating them, build on them instead):\n")
		for _, p := range prior {
			input.WriteString("- " + p + "\n")
		}
		input.WriteString("\n")
	}

	input.WriteString(`Based on your knowledge, provide:
1. Key findings that answer the query or provide relevant information
2. Specific details, solutions, or insights
3. Any caveats or limitations

Be specific and actionable. If you don't have current information, acknowledge that and provide the best available guidance.`)

	type researchData struct {
		Findings   string   `json:"findings"`
		Confidence int      `json:"confidence"`
		Sources    []string `json:"sources"`
	}
	var data researchData

	slog.Info("Researching", "query", task.Query, "type", task.TaskType)
	_, err := llm.GenerateStructured(ctx, e.Model, researchSystemPrompt, findingsSchema(), input.String(), e.Retry, func(content string) error {
		data = researchData{}
		if err := json.Unmarshal([]byte(content), &data); err != nil {
			return fmt.Errorf("json parse error: %w", err)
		}
		if data.Findings == "" {
			return fmt.Errorf("empty findings")
		}
		if data.Confidence < 1 || data.Confidence > 10 {
			return fmt.Errorf("confidence %d out of range", data.Confidence)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Task:       task,
		Findings:   data.Findings,
		Confidence: data.Confidence,
		Sources:    data.Sources,
	}, nil
}

func (e *Executor) priorFindings(ctx context.Context, query string) []string {
	if e.Memory == nil {
		return nil
	}
	prior, err := e.Memory.SimilarFindings(ctx, query, 3)
	if err != nil {
		slog.Warn("Insight memory lookup failed", "query", query, "error", err)
		return nil
	}
	return prior
}
