package research

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResult() Result {
	return Result{
		Task: Task{
			TaskType: GapFilling,
			Query:    "How to fix error X?",
			Context:  "User encountered error X",
			Priority: 8,
		},
		Findings:   "Solution: Do Y and Z",
		Confidence: 9,
		Sources:    []string{"Documentation"},
	}
}

func TestFormatInsightsEmpty(t *testing.T) {
	if out := FormatInsights(nil); out != "" {
		t.Errorf("FormatInsights(nil) = %q, want empty", out)
	}
}

func TestFormatInsightsSingle(t *testing.T) {
	out := FormatInsights([]Result{sampleResult()})

	for _, want := range []string{
		InsightsHeading,
		"### 💡 How to fix error X?",
		"**Context:** User encountered error X",
		"Solution: Do Y and Z",
		"**Sources:**\n- Documentation",
		"*Confidence: 9/10 | Priority: 8/10*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSectionOmitsEmptySources(t *testing.T) {
	result := sampleResult()
	result.Sources = nil

	out := FormatSection(result)
	if strings.Contains(out, "**Sources:**") {
		t.Error("sources block rendered for empty source list")
	}
}

func TestAppendInsightsCreatesDocument(t *testing.T) {
	dir := t.TempDir()

	if err := AppendInsights(dir, []Result{sampleResult()}); err != nil {
		t.Fatalf("AppendInsights() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, ResearchFileName))
	if err != nil {
		t.Fatalf("research document not created: %v", err)
	}
	if !strings.Contains(string(content), InsightsHeading) {
		t.Error("research document missing insights heading")
	}
}

func TestAppendInsightsHeadingIdempotence(t *testing.T) {
	dir := t.TempDir()

	first := sampleResult()
	second := sampleResult()
	second.Task.TaskType = NoveltyCheck
	second.Task.Query = "Any updates to library L?"

	if err := AppendInsights(dir, []Result{first}); err != nil {
		t.Fatalf("first AppendInsights() error = %v", err)
	}
	if err := AppendInsights(dir, []Result{second}); err != nil {
		t.Fatalf("second AppendInsights() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, ResearchFileName))
	if err != nil {
		t.Fatalf("failed to read research document: %v", err)
	}

	if got := strings.Count(string(content), InsightsHeading); got != 1 {
		t.Errorf("heading appears %d times, want exactly 1", got)
	}
	if !strings.Contains(string(content), "How to fix error X?") {
		t.Error("first run's section missing after second append")
	}
	if !strings.Contains(string(content), "### 🆕 Any updates to library L?") {
		t.Error("second run's section missing")
	}
}

func TestAppendInsightsNoResultsNoFile(t *testing.T) {
	dir := t.TempDir()

	if err := AppendInsights(dir, nil); err != nil {
		t.Fatalf("AppendInsights() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ResearchFileName)); !os.IsNotExist(err) {
		t.Error("research document created for zero results")
	}
}
