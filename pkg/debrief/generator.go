package debrief

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms"

	"github.com/mikeboe/debrief-helper/pkg/llm"
	"github.com/mikeboe/debrief-helper/pkg/transcript"
)

// Generator produces debriefs through a single model call per run.
type Generator struct {
	Model        llms.Model
	Retry        llm.RetryPolicy
	MaxFileChars int
}

func NewGenerator(model llms.Model, retry llm.RetryPolicy, maxFileChars int) *Generator {
	return &Generator{Model: model, Retry: retry, MaxFileChars: maxFileChars}
}

// Generate builds the create- or update-mode prompt from the scan result,
// calls the model, and parses the response against the debrief contract.
// On any failure nothing is written and the caller must not mark files.
func (g *Generator) Generate(ctx context.Context, scan *transcript.ScanResult) (*Debrief, error) {
	mode := "create"
	if scan.HasDebrief() {
		mode = "update"
	}
	slog.Info("Generating debrief", "mode", mode, "files", len(scan.Unread))

	prompt := BuildPrompt(scan.Unread, scan.Debrief, g.MaxFileChars)

	var parsed *Debrief
	_, err := llm.GenerateStructured(ctx, g.Model, SystemPrompt(), ResponseSchema(), prompt, g.Retry, func(content string) error {
		d, err := Parse(content)
		if err != nil {
			return err
		}
		parsed = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	return parsed, nil
}
