package transcript

import "strings"

// CountTurns counts conversation turns in an exported transcript. The
// export format separates turns with a literal line of dashes.
func CountTurns(content string) int {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	turns := 0
	for _, segment := range splitTurns(content) {
		if strings.TrimSpace(segment) != "" {
			turns++
		}
	}
	return turns
}

func splitTurns(content string) []string {
	var segments []string
	var current strings.Builder

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 3 && strings.Count(trimmed, "-") == len(trimmed) {
			segments = append(segments, current.String())
			current.Reset()
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	segments = append(segments, current.String())
	return segments
}
