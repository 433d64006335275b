package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths holds the directories the binaries write to
type Paths struct {
	BaseDir    string
	LogsDir    string
	ReportsDir string
}

// GetPaths resolves the output directories of cfg against baseDir.
// Absolute configured paths are kept as is.
func GetPaths(cfg *Config, baseDir string) (*Paths, error) {
	if cfg == nil {
		cfg = Default()
	}
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	logsDir := DefaultLogsDir
	if cfg.Logging.FilePath != "" {
		logsDir = filepath.Dir(cfg.Logging.FilePath)
	}

	return &Paths{
		BaseDir:    baseDir,
		LogsDir:    resolve(baseDir, logsDir),
		ReportsDir: resolve(baseDir, cfg.Report.ExportDir),
	}, nil
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.LogsDir, p.ReportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetExportPath returns the default export file for a format ("xlsx" or "csv")
func (p *Paths) GetExportPath(format string) string {
	return p.GetReportPath(ExportBaseName + "." + strings.ToLower(format))
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
