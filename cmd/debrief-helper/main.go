package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/debrief-helper/pkg/clients"
	"github.com/mikeboe/debrief-helper/pkg/config"
	"github.com/mikeboe/debrief-helper/pkg/memory"
	"github.com/mikeboe/debrief-helper/pkg/pipeline"
)

var withResearch bool

func main() {
	// Setup structured logging
	handler := slog.NewTextHandler(os.Stdout, nil)
	slog.SetDefault(slog.New(handler))

	// Load .env file. It's okay if .env doesn't exist, as long as env
	// vars are set.
	_ = godotenv.Load()

	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:   "debrief-helper",
		Short: "Turns exported chat transcripts into running per-topic debriefs",
		Long: `debrief-helper folds exported conversation transcripts into a structured,
continuously merged DEBRIEF.md per topic, and can proactively research the
open questions it surfaces into a separate RESEARCH.md.`,
	}

	processCmd := &cobra.Command{
		Use:   "process <topic_dir>",
		Short: "Fold unread transcripts into the topic's debrief",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topicDir := args[0]
			if err := requireDir(topicDir); err != nil {
				return err
			}

			p, cleanup, err := buildPipeline(cmd.Context(), cfg, withResearch)
			if err != nil {
				return err
			}
			defer cleanup()

			return p.ProcessTopic(cmd.Context(), topicDir, withResearch)
		},
	}
	processCmd.Flags().BoolVar(&withResearch, "research", false, "Run the research stage after processing")

	researchCmd := &cobra.Command{
		Use:   "research <data_dir> [topic_name]",
		Short: "Research open questions in existing debriefs",
		Long: `Runs the research stage standalone. With a topic name, researches that
topic's debrief. Without one, analyzes cross-topic connections across all
subdirectories of the data directory that contain a debrief.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir := args[0]
			if err := requireDir(dataDir); err != nil {
				return err
			}

			p, cleanup, err := buildPipeline(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 2 {
				topicDir := filepath.Join(dataDir, args[1])
				if err := requireDir(topicDir); err != nil {
					return err
				}
				return p.ResearchTopic(cmd.Context(), topicDir)
			}
			return p.CrossTopicResearch(cmd.Context(), dataDir)
		},
	}

	rootCmd.AddCommand(processCmd, researchCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command execution failed", "error", err)
		os.Exit(1)
	}
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory %s does not exist: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// buildPipeline checks the credential precondition, initializes the model
// clients, and optionally wires the pgvector insight memory when a
// database URL is configured.
func buildPipeline(ctx context.Context, cfg *config.Config, needsResearchModel bool) (*pipeline.Pipeline, func(), error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	debriefModel, err := clients.GoogleAi(ctx, cfg.GeminiApiKey, cfg.DebriefModel)
	if err != nil {
		return nil, nil, err
	}

	var researchModel llms.Model = debriefModel
	if needsResearchModel && cfg.ResearchModel != cfg.DebriefModel {
		researchModel, err = clients.GoogleAi(ctx, cfg.GeminiApiKey, cfg.ResearchModel)
		if err != nil {
			return nil, nil, err
		}
	}

	p := pipeline.New(cfg, debriefModel, researchModel)
	cleanup := func() {}

	if needsResearchModel && cfg.DatabaseURL != "" {
		store, err := memory.NewStore(ctx, cfg.DatabaseURL, "research_insights", 1536)
		if err != nil {
			// The memory is an optional cache; run without it.
			slog.Warn("Insight memory unavailable, continuing without it", "error", err)
			return p, cleanup, nil
		}

		embedder, err := memory.NewEmbedder(ctx, cfg.EmbeddingModel, cfg.GeminiApiKey)
		if err != nil {
			store.Close()
			slog.Warn("Embedder unavailable, continuing without insight memory", "error", err)
			return p, cleanup, nil
		}

		p.Memory = memory.NewInsightMemory(store, embedder)
		cleanup = store.Close
		slog.Info("Insight memory enabled", "table", "research_insights")
	}

	return p, cleanup, nil
}
