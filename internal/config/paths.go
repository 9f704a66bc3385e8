package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute file system locations used at runtime
type Paths struct {
	BaseDir    string
	SourceFile string
	ExportDir  string
	LogsDir    string
	LogFile    string
}

// GetPaths resolves the configured locations against baseDir. An empty
// baseDir means the current working directory.
func GetPaths(cfg *Config, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	logFile := resolve(cfg.Logging.FilePath)
	logsDir := ""
	if logFile != "" {
		logsDir = filepath.Dir(logFile)
	}

	return &Paths{
		BaseDir:    base,
		SourceFile: resolve(cfg.Data.SourcePath),
		ExportDir:  resolve(cfg.Data.ExportDir),
		LogsDir:    logsDir,
		LogFile:    logFile,
	}, nil
}

// EnsureDirectories creates the writable directories if they don't exist.
// The source file's directory is never created: a missing source is a load error.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ExportDir, p.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// ExportPath returns the location of an export file
func (p *Paths) ExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
