package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/domain"

	"go.uber.org/zap"
)

// CleanReports removes every PDF in dir (non-recursive) whose modified
// time is strictly older than now minus daysToKeep days. A missing
// directory yields a zero-deletion result with a note, not an error;
// per-file deletion failures are collected and do not abort the sweep.
func CleanReports(dir string, daysToKeep int, now time.Time, logger *zap.Logger) domain.CleanupResult {
	result := domain.CleanupResult{DaysKept: daysToKeep}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			result.Note = fmt.Sprintf("directory %s does not exist", dir)
			logger.Warn("cleanup skipped", zap.String("dir", dir), zap.String("note", result.Note))
			return result
		}
		result.Errors = append(result.Errors, err.Error())
		logger.Error("cleanup could not read directory", zap.String("dir", dir), zap.Error(err))
		return result
	}

	cutoff := now.AddDate(0, 0, -daysToKeep)

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("stat %s: %v", path, err))
			continue
		}

		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("remove %s: %v", path, err))
			logger.Warn("could not remove report file", zap.String("path", path), zap.Error(err))
			continue
		}

		result.FilesDeleted++
		logger.Info("report file removed", zap.String("file", entry.Name()))
	}

	logger.Info("cleanup completed",
		zap.Int("files_deleted", result.FilesDeleted),
		zap.Int("days_kept", daysToKeep),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}
