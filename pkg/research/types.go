// Package research identifies open questions in debriefs, researches the
// high-priority ones through the model, and appends accepted findings to a
// per-topic research document.
package research

// TaskType classifies a research task.
type TaskType string

const (
	// GapFilling targets unresolved questions the user got stuck on.
	GapFilling TaskType = "GapFilling"
	// NoveltyCheck targets topics that may have gone stale.
	NoveltyCheck TaskType = "NoveltyCheck"
	// CrossPollination targets connections between different topics.
	CrossPollination TaskType = "CrossPollination"
)

// Emoji returns the marker used when rendering a section of this type.
func (t TaskType) Emoji() string {
	switch t {
	case NoveltyCheck:
		return "🆕"
	case CrossPollination:
		return "🔗"
	default:
		return "💡"
	}
}

// Task is a model-proposed investigation derived from a debrief. Tasks are
// transient; only surviving tasks' results are persisted, in rendered form.
type Task struct {
	TaskType TaskType `json:"task_type"`
	Query    string   `json:"query"`
	Context  string   `json:"context"`
	Priority int      `json:"priority"` // 1-10, higher is more important
}

// Result is the outcome of researching one task.
type Result struct {
	Task       Task     `json:"task"`
	Findings   string   `json:"findings"`
	Confidence int      `json:"confidence"` // 1-10
	Sources    []string `json:"sources"`
}

// FilterByPriority keeps tasks at or above the threshold. The threshold is
// inclusive: a task at exactly the threshold is admitted.
func FilterByPriority(tasks []Task, minPriority int) []Task {
	var kept []Task
	for _, t := range tasks {
		if t.Priority >= minPriority {
			kept = append(kept, t)
		}
	}
	return kept
}

// FilterByConfidence keeps results at or above the threshold, inclusive.
// Results below it are discarded entirely.
func FilterByConfidence(results []Result, minConfidence int) []Result {
	var kept []Result
	for _, r := range results {
		if r.Confidence >= minConfidence {
			kept = append(kept, r)
		}
	}
	return kept
}
