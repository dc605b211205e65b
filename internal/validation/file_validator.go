package validation

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	apperrors "examstats/internal/errors"
)

// FileValidator checks source and output locations before a run starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateSource checks that a configured source location can be read.
// Database locations are checked for a table parameter only; the database
// itself is not contacted.
func (v *FileValidator) ValidateSource(location string) error {
	if location == "" {
		return apperrors.NewAppValidationError("source location is empty")
	}

	if scheme, rest, ok := strings.Cut(location, "://"); ok {
		switch scheme {
		case "sqlite", "postgres", "postgresql":
		default:
			return apperrors.NewAppValidationError(fmt.Sprintf("unsupported source scheme %q", scheme)).
				WithContext("source", location)
		}
		_, rawQuery, _ := strings.Cut(rest, "?")
		query, err := url.ParseQuery(rawQuery)
		if err != nil || query.Get("table") == "" {
			v.logger.Error("Database source has no table",
				slog.String("source", location))
			return apperrors.NewAppValidationError(fmt.Sprintf("source %s needs a table parameter", location)).
				WithContext("source", location)
		}
		return nil
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".csv":
		return v.ValidateCSVFile(location)
	case ".xlsx":
		return v.ValidateExcelFile(location)
	}
	return apperrors.NewAppValidationError(fmt.Sprintf("unsupported source %s (expected .csv, .xlsx, sqlite:// or postgres://)", location)).
		WithContext("source", location)
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s does not exist", path)).
			WithContext("source", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return apperrors.NewAppValidationError(fmt.Sprintf("%s is a directory, not a file", path)).
			WithContext("source", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is a readable, non-temporary workbook
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is not an Excel workbook (extension: %s)", path, ext))
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Temporary Excel file",
			slog.String("file", path))
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is a temporary Excel file", path))
	}
	return nil
}

// ValidateCSVFile checks that path is a readable, non-empty CSV file
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is not a CSV file (extension: %s)", path, ext))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.Size() == 0 {
		return apperrors.NewAppValidationError(fmt.Sprintf("file %s is empty", path)).
			WithContext("source", path)
	}
	return nil
}
