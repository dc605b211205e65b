package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths resolves every file location the application reads or writes
type Paths struct {
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// GetPaths resolves the configured directories against the working directory
func (c *Config) GetPaths() (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewPaths(wd, c.Paths), nil
}

// NewPaths resolves relative directories in cfg against root
func NewPaths(root string, cfg PathsConfig) *Paths {
	resolve := func(dir string) string {
		if dir == "" {
			return root
		}
		if filepath.IsAbs(dir) {
			return dir
		}
		return filepath.Join(root, dir)
	}

	return &Paths{
		DataDir:    resolve(cfg.DataDir),
		ReportsDir: resolve(cfg.ReportsDir),
		LogsDir:    resolve(cfg.LogsDir),
	}
}

// ResolveSource turns a configured source location into a loadable one.
// URL-style locations (sqlite://, postgres://) and absolute paths are
// returned unchanged; anything else is taken relative to DataDir.
func (p *Paths) ResolveSource(location string) string {
	if location == "" || strings.Contains(location, "://") || filepath.IsAbs(location) {
		return location
	}
	return filepath.Join(p.DataDir, location)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the writable directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
