package debrief

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/mikeboe/debrief-helper/pkg/transcript"
)

// Disclaimer pins the content contract: the debrief captures what the user
// needs and has done, never the assistant's recommendations.
const Disclaimer = `IMPORTANT:
- Your goal is to summarize the user's needs, current progress or state, and anything they might have done or tried in the course of the conversation.
- Your goal is NOT to provide a summary of what the assistant has recommended - only include details of the assistant's responses when they help explain what the user did in the context of the conversation.
- The purpose of this debrief is to catch future assistants up on what the user needs and has done, so the user can ask follow up questions and receive informed responses.`

const systemPrompt = `You are a debriefing assistant that maintains a running structured summary of a user's conversations on a single topic.`

// SystemPrompt is the system message used for every debrief generation call.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt builds the human message for debrief generation. Mode is
// chosen solely by whether an existing debrief is supplied: create mode
// produces a full new debrief from the unread transcripts, update mode
// folds the new transcripts into the existing one without dropping prior
// sections that remain true.
func BuildPrompt(unread []transcript.ConversationFile, existingDebrief string, maxFileChars int) string {
	var prompt strings.Builder
	hasExisting := strings.TrimSpace(existingDebrief) != ""

	if hasExisting {
		prompt.WriteString("Here's the current debrief of the user's conversations on this topic:\n\n")
		prompt.WriteString(existingDebrief)
		prompt.WriteString("\n\n")

		prompt.WriteString("Here are the updates to the user's conversations since this debrief was generated. Note that some of them might contain full conversations, where previous steps in the conversation have already been incorporated into the debrief.\n\n")
		prompt.WriteString(formatFiles(unread, maxFileChars))
		prompt.WriteString("\n\n")

		prompt.WriteString("Please rewrite sections of the debrief if there is new information which clarifies, contradicts, or contains important additional details. If you have new information that doesn't fit into the existing debrief, you can add a new section.\n\n")
		prompt.WriteString("To update an existing section, repeat the exact header of that section and provide the updated text. To add a new section, create a new header and text. Keep sections that don't need updates unchanged by repeating their header and original text.\n\n")
	} else {
		prompt.WriteString("Here are the user's conversations on this topic.\n\n")
		prompt.WriteString(formatFiles(unread, maxFileChars))
		prompt.WriteString("\n\n")

		prompt.WriteString("Your job is to provide a debrief on the user's conversations on this topic.\n\n")
	}

	prompt.WriteString(Disclaimer)
	return prompt.String()
}

// formatFiles concatenates transcripts with a per-file delimiter and label
// so the model can attribute statements to specific files. Order follows
// the scan sequence. Oversized transcripts are split into labeled parts so
// attribution survives chunking.
func formatFiles(files []transcript.ConversationFile, maxFileChars int) string {
	var parts []string
	for i, file := range files {
		for _, chunk := range chunkContent(file.Content, maxFileChars) {
			label := fmt.Sprintf("File %d (%s)", i+1, file.Name)
			if chunk.part > 0 {
				label = fmt.Sprintf("%s, part %d", label, chunk.part)
			}
			parts = append(parts, fmt.Sprintf("%s:\n%s\n", label, chunk.text))
		}
	}
	return strings.Join(parts, "\n---\n\n")
}

type fileChunk struct {
	part int // 0 when the file fits in a single chunk
	text string
}

func chunkContent(content string, maxChars int) []fileChunk {
	if maxChars <= 0 || len(content) <= maxChars {
		return []fileChunk{{text: content}}
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(maxChars),
		textsplitter.WithChunkOverlap(0),
	)
	chunks, err := splitter.SplitText(content)
	if err != nil || len(chunks) == 0 {
		return []fileChunk{{text: content}}
	}

	out := make([]fileChunk, 0, len(chunks))
	for i, chunk := range chunks {
		out = append(out, fileChunk{part: i + 1, text: chunk})
	}
	return out
}
