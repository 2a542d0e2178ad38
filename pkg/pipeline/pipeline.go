// Package pipeline wires the transcript store, debrief generator, research
// stages, and file marker into the two entry-point flows: processing a
// topic directory and running research over existing debriefs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/debrief-helper/pkg/config"
	"github.com/mikeboe/debrief-helper/pkg/debrief"
	"github.com/mikeboe/debrief-helper/pkg/llm"
	"github.com/mikeboe/debrief-helper/pkg/research"
	"github.com/mikeboe/debrief-helper/pkg/transcript"
)

// Recorder is the optional insight memory. SimilarFindings feeds prior
// findings into research prompts; Remember stores accepted results.
type Recorder interface {
	research.Memory
	Remember(ctx context.Context, topic, query, findings string)
}

// Pipeline runs the transcript-to-debrief flow and the research stage.
type Pipeline struct {
	Config        *config.Config
	DebriefModel  llms.Model
	ResearchModel llms.Model
	Memory        Recorder // nil disables the insight memory
}

func New(cfg *config.Config, debriefModel, researchModel llms.Model) *Pipeline {
	return &Pipeline{
		Config:        cfg,
		DebriefModel:  debriefModel,
		ResearchModel: researchModel,
	}
}

func (p *Pipeline) retryPolicy() llm.RetryPolicy {
	return llm.RetryPolicy{
		MaxRetries: p.Config.MaxRetries,
		Timeout:    p.Config.RequestTimeout,
	}
}

// ProcessTopic folds unread transcripts into the topic's debrief, marks
// them read once the write has succeeded, and optionally runs the research
// stage afterwards. With zero unread files debrief generation is a no-op,
// but research may still run against the existing debrief.
func (p *Pipeline) ProcessTopic(ctx context.Context, topicDir string, withResearch bool) error {
	scan, err := transcript.Scan(topicDir)
	if err != nil {
		return err
	}

	if len(scan.Unread) == 0 {
		slog.Info("No new files to process. All files have already been read.", "dir", topicDir)
	} else {
		for _, file := range scan.Unread {
			slog.Info("Unread transcript", "file", file.Name, "turns", transcript.CountTurns(file.Content))
		}

		generator := debrief.NewGenerator(p.DebriefModel, p.retryPolicy(), p.Config.MaxTranscriptChars)
		result, err := generator.Generate(ctx, scan)
		if err != nil {
			return fmt.Errorf("debrief generation failed: %w", err)
		}

		if err := transcript.WriteDebrief(topicDir, debrief.FormatMarkdown(result)); err != nil {
			return err
		}
		slog.Info("Successfully updated debrief", "dir", topicDir, "sections", len(result.Items))

		// Marking is the last step of the happy path: a crash between
		// write and mark leaves files unread and safe to reprocess.
		if err := transcript.MarkAsRead(scan.Unread); err != nil {
			return fmt.Errorf("partial read-marking: %w", err)
		}
	}

	if !withResearch {
		return nil
	}
	return p.ResearchTopic(ctx, topicDir)
}

// ResearchTopic runs the research stage for one topic: identify tasks from
// the debrief, admit those at or above the priority threshold, research
// them, admit results at or above the confidence threshold, and append the
// survivors to the topic's research document.
func (p *Pipeline) ResearchTopic(ctx context.Context, topicDir string) error {
	debriefPath := filepath.Join(topicDir, transcript.DebriefFileName)
	content, err := os.ReadFile(debriefPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", transcript.DebriefFileName, err)
	}

	topicName := filepath.Base(topicDir)
	identifier := &research.Identifier{Model: p.ResearchModel, Retry: p.retryPolicy()}

	tasks, err := identifier.IdentifyTasks(ctx, string(content), topicName)
	if err != nil {
		return fmt.Errorf("task identification failed: %w", err)
	}

	return p.executeAndIntegrate(ctx, tasks, topicName, topicDir)
}

// CrossTopicResearch runs cross-pollination analysis over every
// subdirectory of dataDir that has a debrief. Accepted insights are
// appended to a research document at the data-dir level, keeping per-topic
// documents untouched.
func (p *Pipeline) CrossTopicResearch(ctx context.Context, dataDir string) error {
	debriefs, err := collectDebriefs(dataDir)
	if err != nil {
		return err
	}

	identifier := &research.Identifier{Model: p.ResearchModel, Retry: p.retryPolicy()}
	tasks, err := identifier.IdentifyCrossTopicTasks(ctx, debriefs)
	if err != nil {
		return fmt.Errorf("cross-topic analysis failed: %w", err)
	}

	return p.executeAndIntegrate(ctx, tasks, "cross-topic", dataDir)
}

func (p *Pipeline) executeAndIntegrate(ctx context.Context, tasks []research.Task, topicName, targetDir string) error {
	if len(tasks) == 0 {
		slog.Info("No research tasks identified", "topic", topicName)
		return nil
	}

	admitted := research.FilterByPriority(tasks, p.Config.MinTaskPriority)
	if len(admitted) == 0 {
		slog.Info("No high-priority research tasks found", "topic", topicName,
			"identified", len(tasks), "min_priority", p.Config.MinTaskPriority)
		return nil
	}
	slog.Info("Performing research", "topic", topicName, "tasks", len(admitted))

	executor := &research.Executor{
		Model:   p.ResearchModel,
		Retry:   p.retryPolicy(),
		Workers: p.Config.ResearchWorkers,
		Memory:  p.Memory,
	}
	results := executor.Execute(ctx, admitted)

	accepted := research.FilterByConfidence(results, p.Config.MinConfidence)
	if len(accepted) == 0 {
		slog.Info("No high-confidence research results to add", "topic", topicName)
		return nil
	}

	if p.Memory != nil {
		for _, result := range accepted {
			p.Memory.Remember(ctx, topicName, result.Task.Query, result.Findings)
		}
	}

	return research.AppendInsights(targetDir, accepted)
}

// collectDebriefs maps topic name to debrief content for every
// subdirectory of dataDir that contains one.
func collectDebriefs(dataDir string) (map[string]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory %s: %w", dataDir, err)
	}

	debriefs := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dataDir, entry.Name(), transcript.DebriefFileName)
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read debrief for topic %s: %w", entry.Name(), err)
		}
		debriefs[entry.Name()] = string(content)
	}

	return debriefs, nil
}
