package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/debrief-helper/pkg/llm"
)

const identifySystemPrompt = `You are analyzing a debrief of conversations to identify research opportunities.`

// tasksSchema is the structured-output contract for task identification.
func tasksSchema() string {
	return `Return the JSON object directly without any formatting or additional text. Make sure to answer in valid json and include all necessary properties:{
  "type": "object",
  "properties": {
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "task_type": {
            "type": "string",
            "enum": ["GapFilling", "NoveltyCheck", "CrossPollination"]
          },
          "query": {"type": "string"},
          "context": {"type": "string"},
          "priority": {"type": "integer", "minimum": 1, "maximum": 10}
        },
        "required": ["task_type", "query", "context", "priority"]
      }
    }
  },
  "required": ["tasks"]
}`
}

// Identifier asks the model to enumerate candidate research tasks from one
// or more debriefs. Priority is assigned by the model and never recomputed.
type Identifier struct {
	Model llms.Model
	Retry llm.RetryPolicy
}

// IdentifyTasks requests GapFilling and NoveltyCheck tasks for a single
// topic's debrief.
func (id *Identifier) IdentifyTasks(ctx context.Context, debriefContent, topicName string) ([]Task, error) {
	input := fmt.Sprintf(`Topic: %s

Debrief Content:
%s

Your task is to identify:
1. **Open Questions/Gaps**: Unresolved questions, errors the user encountered, or topics they were exploring but got stuck on
2. **Topics for Updates**: Specific libraries, frameworks, papers, or technologies mentioned that might have updates

For each research opportunity, provide:
- task_type: "GapFilling" or "NoveltyCheck"
- query: A specific, actionable search query
- context: Brief context about why this research would be valuable
- priority: 1-10 (higher = more important/urgent)

Only suggest high-value research tasks. Aim for 3-7 tasks maximum.`, topicName, debriefContent)

	slog.Info("Identifying research tasks", "topic", topicName)
	return id.requestTasks(ctx, input, "")
}

// IdentifyCrossTopicTasks submits every topic's debrief in one prompt and
// lets the model propose cross-topic connections. Pair enumeration is
// delegated entirely to the model's judgment. All returned tasks are
// CrossPollination regardless of what the model labels them.
func (id *Identifier) IdentifyCrossTopicTasks(ctx context.Context, debriefs map[string]string) ([]Task, error) {
	if len(debriefs) < 2 {
		slog.Info("Need at least 2 topics for cross-pollination analysis", "topics", len(debriefs))
		return nil, nil
	}

	names := make([]string, 0, len(debriefs))
	for name := range debriefs {
		names = append(names, name)
	}
	sort.Strings(names)

	var input strings.Builder
	input.WriteString("You are analyzing multiple conversation topics to find valuable connections.\n\n")
	for _, name := range names {
		input.WriteString(fmt.Sprintf("## Topic: %s\n%s\n\n", name, debriefs[name]))
	}
	input.WriteString(`Identify 3-5 high-value cross-pollination opportunities where:
- Concepts from one topic could inform or solve problems in another
- Technologies discussed separately could be combined
- Similar patterns or challenges appear across topics

For each opportunity, provide a specific research query that would bridge the topics.`)

	slog.Info("Analyzing cross-topic connections", "topics", len(debriefs))
	return id.requestTasks(ctx, input.String(), CrossPollination)
}

// requestTasks runs one identification call. When forceType is non-empty,
// every parsed task is coerced to that type.
func (id *Identifier) requestTasks(ctx context.Context, input string, forceType TaskType) ([]Task, error) {
	type tasksResponse struct {
		Tasks []Task `json:"tasks"`
	}
	var parsed tasksResponse

	_, err := llm.GenerateStructured(ctx, id.Model, identifySystemPrompt, tasksSchema(), input, id.Retry, func(content string) error {
		parsed = tasksResponse{}
		if err := json.Unmarshal([]byte(content), &parsed); err != nil {
			return fmt.Errorf("json parse error: %w", err)
		}
		for i, t := range parsed.Tasks {
			if t.Query == "" {
				return fmt.Errorf("task %d missing query", i)
			}
			if t.Priority < 1 || t.Priority > 10 {
				return fmt.Errorf("task %d priority %d out of range", i, t.Priority)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	tasks := parsed.Tasks
	for i := range tasks {
		if forceType != "" {
			tasks[i].TaskType = forceType
			continue
		}
		switch tasks[i].TaskType {
		case GapFilling, NoveltyCheck, CrossPollination:
		default:
			tasks[i].TaskType = GapFilling
		}
	}

	slog.Info("Identified research tasks", "count", len(tasks))
	return tasks, nil
}
