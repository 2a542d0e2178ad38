package research

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/tmc/langchaingo/llms"
)

// routedModel answers each call based on the prompt content, which keeps
// concurrent executor tests deterministic.
type routedModel struct {
	mu      sync.Mutex
	routes  map[string]string // prompt substring -> response
	failOn  string
	prompts []string
}

func (m *routedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt.WriteString(text.Text)
				prompt.WriteString("\n")
			}
		}
	}
	flat := prompt.String()

	m.mu.Lock()
	m.prompts = append(m.prompts, flat)
	m.mu.Unlock()

	if m.failOn != "" && strings.Contains(flat, m.failOn) {
		return nil, fmt.Errorf("backend unavailable")
	}
	for needle, response := range m.routes {
		if strings.Contains(flat, needle) {
			return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: response}}}, nil
		}
	}
	return nil, fmt.Errorf("no route for prompt")
}

func (m *routedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

type stubMemory struct {
	findings []string
	queries  []string
}

func (m *stubMemory) SimilarFindings(ctx context.Context, query string, limit int) ([]string, error) {
	m.queries = append(m.queries, query)
	return m.findings, nil
}

func TestResearchSingleTask(t *testing.T) {
	model := &routedModel{routes: map[string]string{
		"fix error X": `{"findings":"Do Y and Z","confidence":9,"sources":["https://example.com/doc"]}`,
	}}
	e := &Executor{Model: model, Retry: singleAttempt()}

	task := Task{TaskType: GapFilling, Query: "fix error X", Context: "user stuck", Priority: 8}
	result, err := e.Research(context.Background(), task)
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}

	if result.Findings != "Do Y and Z" {
		t.Errorf("Findings = %q", result.Findings)
	}
	if result.Confidence != 9 {
		t.Errorf("Confidence = %d, want 9", result.Confidence)
	}
	if len(result.Sources) != 1 {
		t.Errorf("Sources = %v", result.Sources)
	}
	if result.Task.Query != task.Query {
		t.Errorf("result does not carry its task: %+v", result.Task)
	}
}

func TestExecutePartialFailure(t *testing.T) {
	// One task fails at the backend; its siblings must still complete.
	model := &routedModel{
		routes: map[string]string{
			"query one": `{"findings":"first findings","confidence":8,"sources":[]}`,
			"query two": `{"findings":"second findings","confidence":7,"sources":[]}`,
		},
		failOn: "doomed query",
	}
	e := &Executor{Model: model, Retry: singleAttempt(), Workers: 2}

	tasks := []Task{
		{TaskType: GapFilling, Query: "query one", Priority: 8},
		{TaskType: GapFilling, Query: "doomed query", Priority: 8},
		{TaskType: NoveltyCheck, Query: "query two", Priority: 7},
	}

	results := e.Execute(context.Background(), tasks)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	seen := map[string]bool{}
	for _, r := range results {
		seen[r.Task.Query] = true
	}
	if !seen["query one"] || !seen["query two"] {
		t.Errorf("unexpected surviving results: %+v", results)
	}
}

func TestResearchRejectsInvalidConfidence(t *testing.T) {
	model := &routedModel{routes: map[string]string{
		"q": `{"findings":"f","confidence":0,"sources":[]}`,
	}}
	e := &Executor{Model: model, Retry: singleAttempt()}

	if _, err := e.Research(context.Background(), Task{Query: "q"}); err == nil {
		t.Fatal("expected error for confidence out of range")
	}
}

func TestResearchIncludesPriorFindings(t *testing.T) {
	model := &routedModel{routes: map[string]string{
		"fix error X": `{"findings":"new angle","confidence":8,"sources":[]}`,
	}}
	mem := &stubMemory{findings: []string{"Already established: Y is the cause"}}
	e := &Executor{Model: model, Retry: singleAttempt(), Memory: mem}

	_, err := e.Research(context.Background(), Task{TaskType: GapFilling, Query: "fix error X"})
	if err != nil {
		t.Fatalf("Research() error = %v", err)
	}

	if len(mem.queries) != 1 || mem.queries[0] != "fix error X" {
		t.Errorf("memory queried with %v", mem.queries)
	}
	if !strings.Contains(model.prompts[0], "Already established: Y is the cause") {
		t.Error("prior findings not included in research prompt")
	}
}
