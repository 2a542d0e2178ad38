package debrief

import (
	"fmt"
	"strings"
)

// FormatMarkdown renders a structured debrief as the DEBRIEF.md document:
// an optional overview paragraph followed by one section per item.
func FormatMarkdown(d *Debrief) string {
	var sections []string

	if strings.TrimSpace(d.Overview) != "" {
		sections = append(sections, fmt.Sprintf("%s\n", strings.TrimSpace(d.Overview)))
	}

	for _, item := range d.Items {
		sections = append(sections, fmt.Sprintf("### %s\n\n%s\n", item.Header, item.Text))
	}

	return strings.Join(sections, "\n")
}
