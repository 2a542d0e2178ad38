// Package debrief turns unread transcripts into a structured, continuously
// merged summary of a topic's conversation history.
package debrief

// DebriefItem is a single section of the debrief.
type DebriefItem struct {
	Header string `json:"header"`
	Text   string `json:"text"`
}

// Debrief is the structured summary returned by the model. The content
// describes the user's state and actions, not model-given advice; that is
// a prompt-level contract checked externally by the autorater.
type Debrief struct {
	Overview string        `json:"overview,omitempty"`
	Items    []DebriefItem `json:"items"`
}
