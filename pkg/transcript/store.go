// Package transcript tracks the file state of exported conversation
// transcripts inside a topic directory. A transcript is a plain .txt file;
// once its content has been folded into the topic's debrief it is renamed
// with a _read suffix, which is the sole state indicator.
package transcript

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DebriefFileName is the per-topic debrief document.
	DebriefFileName = "DEBRIEF.md"

	// TranscriptExt selects which files are treated as transcripts.
	TranscriptExt = ".txt"

	// ReadSuffix marks a transcript as already incorporated, e.g.
	// 1.txt -> 1_read.txt.
	ReadSuffix = "_read"
)

// ConversationFile is one exported transcript.
type ConversationFile struct {
	Name    string
	Path    string
	Content string
}

// ScanResult partitions a topic directory into unread transcripts and
// already-read ones, plus the existing debrief if any.
type ScanResult struct {
	Unread    []ConversationFile
	ReadCount int
	Debrief   string
}

// HasDebrief reports whether a non-empty debrief already exists, which is
// what selects update mode over create mode downstream.
func (r *ScanResult) HasDebrief() bool {
	return strings.TrimSpace(r.Debrief) != ""
}

// Scan reads a topic directory and partitions its transcripts. Unread files
// are returned in filename order with their content loaded. A missing or
// unreadable directory is fatal for the whole run.
func Scan(topicDir string) (*ScanResult, error) {
	entries, err := os.ReadDir(topicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read topic directory %s: %w", topicDir, err)
	}

	result := &ScanResult{}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != TranscriptExt {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stem := strings.TrimSuffix(name, TranscriptExt)
		if strings.HasSuffix(stem, ReadSuffix) {
			result.ReadCount++
			continue
		}

		path := filepath.Join(topicDir, name)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read transcript %s: %w", name, err)
		}

		result.Unread = append(result.Unread, ConversationFile{
			Name:    name,
			Path:    path,
			Content: string(content),
		})
	}

	debriefPath := filepath.Join(topicDir, DebriefFileName)
	if data, err := os.ReadFile(debriefPath); err == nil {
		result.Debrief = string(data)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", DebriefFileName, err)
	}

	slog.Info("Scanned topic directory", "dir", topicDir,
		"unread", len(result.Unread), "read", result.ReadCount,
		"has_debrief", result.HasDebrief())

	return result, nil
}

// WriteDebrief persists the debrief document for a topic.
func WriteDebrief(topicDir, content string) error {
	path := filepath.Join(topicDir, DebriefFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DebriefFileName, err)
	}
	return nil
}
