package transcript

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MarkAsRead renames each processed transcript with the read suffix,
// e.g. 1.txt -> 1_read.txt. It is only called after the debrief write has
// succeeded, so a crash beforehand leaves files unread and safe to
// reprocess. A failure on one file does not roll back already-renamed
// siblings; all failures are joined and surfaced to the caller.
func MarkAsRead(files []ConversationFile) error {
	var errs []error

	for _, file := range files {
		ext := filepath.Ext(file.Name)
		stem := strings.TrimSuffix(file.Name, ext)
		newName := stem + ReadSuffix + ext
		newPath := filepath.Join(filepath.Dir(file.Path), newName)

		if err := os.Rename(file.Path, newPath); err != nil {
			slog.Error("Failed to mark transcript as read", "file", file.Name, "error", err)
			errs = append(errs, fmt.Errorf("failed to rename %s: %w", file.Name, err))
			continue
		}

		slog.Info("Marked as read", "from", file.Name, "to", newName)
	}

	return errors.Join(errs...)
}
