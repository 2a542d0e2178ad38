package research

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ResearchFileName is the per-topic research document, kept strictly
	// separate from DEBRIEF.md.
	ResearchFileName = "RESEARCH.md"

	// InsightsHeading appears at most once per research document.
	InsightsHeading = "## 🔍 Research Insights"
)

const insightsPreamble = "*The following insights were automatically researched based on open questions and topics in your conversations.*\n\n"

// FormatSection renders one accepted result: the task-type marker, the
// query as a subheading, the context, the findings, a bulleted source list
// (omitted when empty), and the confidence/priority trailer.
func FormatSection(result Result) string {
	var out strings.Builder

	out.WriteString(fmt.Sprintf("### %s %s\n\n", result.Task.TaskType.Emoji(), result.Task.Query))
	out.WriteString(fmt.Sprintf("**Context:** %s\n\n", result.Task.Context))
	out.WriteString(fmt.Sprintf("%s\n\n", result.Findings))

	if len(result.Sources) > 0 {
		out.WriteString("**Sources:**\n")
		for _, source := range result.Sources {
			out.WriteString(fmt.Sprintf("- %s\n", source))
		}
		out.WriteString("\n")
	}

	out.WriteString(fmt.Sprintf("*Confidence: %d/10 | Priority: %d/10*\n\n",
		result.Confidence, result.Task.Priority))

	return out.String()
}

// FormatInsights renders the full insights block for a fresh document.
func FormatInsights(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	var out strings.Builder
	out.WriteString(InsightsHeading + "\n\n")
	out.WriteString(insightsPreamble)
	for _, result := range results {
		out.WriteString(FormatSection(result))
	}
	return out.String()
}

// AppendInsights writes accepted results into the research document in dir,
// creating it on first use. If the insights heading is already present the
// new sections are appended beneath it rather than emitting a second
// heading, so repeated runs never duplicate the heading.
func AppendInsights(dir string, results []Result) error {
	if len(results) == 0 {
		return nil
	}

	path := filepath.Join(dir, ResearchFileName)

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", ResearchFileName, err)
	}

	var content string
	if strings.Contains(string(existing), InsightsHeading) {
		var sections strings.Builder
		for _, result := range results {
			sections.WriteString(FormatSection(result))
		}
		content = strings.TrimRight(string(existing), "\n") + "\n\n" + sections.String()
	} else {
		content = string(existing) + FormatInsights(results)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ResearchFileName, err)
	}

	slog.Info("Appended research insights", "file", path, "sections", len(results))
	return nil
}
