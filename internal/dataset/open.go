package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"enrollstats/internal/config"
	"enrollstats/internal/enrollment"
)

// NewSource picks the source for the configured format
func NewSource(cfg config.DatasetConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Format {
	case config.FormatEmbedded, "":
		return NewEmbeddedSource(logger), nil
	case config.FormatCSV:
		if cfg.Path == "" {
			return nil, fmt.Errorf("csv dataset requires a path")
		}
		return NewCSVSource(cfg.Path, logger), nil
	case config.FormatXLSX:
		if cfg.Path == "" {
			return nil, fmt.Errorf("xlsx dataset requires a path")
		}
		return NewXLSXSource(cfg.Path, logger), nil
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", cfg.Format)
	}
}

// Open reads the configured source against the default layout
func Open(ctx context.Context, cfg config.DatasetConfig, logger *slog.Logger) (*enrollment.Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	src, err := NewSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	return Load(ctx, src, DefaultLayout(), logger)
}

// Load reads src and assembles the immutable dataset
func Load(ctx context.Context, src Source, layout Layout, logger *slog.Logger) (*enrollment.Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	directory, err := enrollment.NewDirectory(layout.Schools)
	if err != nil {
		return nil, fmt.Errorf("build school directory: %w", err)
	}

	blocks, err := src.Blocks(ctx, layout)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to read dataset source",
			slog.String("source", src.Name()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("read %s: %w", src.Name(), err)
	}

	array, err := enrollment.Load(layout.Dims(), blocks)
	if err != nil {
		logger.ErrorContext(ctx, "Dataset shape rejected",
			slog.String("source", src.Name()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	ds, err := enrollment.New(array, directory, layout.Years, layout.Grades)
	if err != nil {
		return nil, fmt.Errorf("assemble dataset: %w", err)
	}

	logger.InfoContext(ctx, "Dataset loaded",
		slog.String("source", src.Name()),
		slog.String("shape", array.Dims().String()),
		slog.Int("missing_cells", MissingCells(array)),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

// MissingCells counts the cells without a value
func MissingCells(a *enrollment.Array) int {
	missing := 0
	for _, c := range a.All() {
		if !c.Valid {
			missing++
		}
	}
	return missing
}
