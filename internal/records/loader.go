package records

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	apperrors "examstats/internal/errors"
)

// Loader turns a source location into a record store
type Loader interface {
	Load(ctx context.Context, source string) (*Store, error)
}

// Options control how file sources are read
type Options struct {
	// IndexColumn treats the first CSV/XLSX column as row labels rather than a field
	IndexColumn bool
	// Sheet selects the XLSX worksheet; empty means the first sheet
	Sheet string
}

// SourceLoader reads a source from scratch on every Load
type SourceLoader struct {
	opts   Options
	logger *slog.Logger
}

// NewSourceLoader creates a loader with the given options
func NewSourceLoader(opts Options, logger *slog.Logger) *SourceLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceLoader{
		opts:   opts,
		logger: logger.With(slog.String("component", "record_loader")),
	}
}

// Load reads the source and builds a store from it
func (l *SourceLoader) Load(ctx context.Context, source string) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		store *Store
		err   error
	)

	switch kind := sourceKind(source); kind {
	case "csv":
		store, err = l.loadCSV(source)
	case "xlsx":
		store, err = l.loadXLSX(source)
	case "sqlite", "postgres":
		store, err = l.loadSQL(ctx, kind, source)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported source %q", source), nil).
			WithContext("source", source)
	}

	if err != nil {
		l.logger.WarnContext(ctx, "failed to load source",
			slog.String("source", source),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.DebugContext(ctx, "source loaded",
		slog.String("source", source),
		slog.Int("rows", store.Len()),
		slog.Int("fields", len(store.fields)),
		slog.Duration("duration", time.Since(start)))
	return store, nil
}

func sourceKind(source string) string {
	switch {
	case strings.HasPrefix(source, "sqlite://"):
		return "sqlite"
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		return "postgres"
	}
	switch strings.ToLower(filepath.Ext(source)) {
	case ".csv":
		return "csv"
	case ".xlsx":
		return "xlsx"
	}
	return ""
}
