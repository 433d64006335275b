package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"enrollstats/internal/config"
	"enrollstats/internal/dataset"
	"enrollstats/internal/enrollment"
	apperrors "enrollstats/internal/errors"
	"enrollstats/internal/infrastructure"
	"enrollstats/internal/report"
)

// EnrollmentServiceConfig tunes the enrollment service
type EnrollmentServiceConfig struct {
	// Workers bounds the per-school fan-out of Summary
	Workers int
	// Threshold is the median cutoff used by Console and Summary
	Threshold int
}

// DatasetInfo describes the loaded dataset
type DatasetInfo struct {
	Source       string          `json:"source"`
	Shape        string          `json:"shape"`
	Dims         enrollment.Dims `json:"dims"`
	Ndim         int             `json:"ndim"`
	Years        []string        `json:"years"`
	Grades       []string        `json:"grades"`
	Schools      int             `json:"schools"`
	MissingCells int             `json:"missing_cells"`
}

// EnrollmentService answers enrollment statistics queries against one immutable dataset.
// It is safe for concurrent use.
type EnrollmentService struct {
	ds      *enrollment.Dataset
	source  string
	cfg     EnrollmentServiceConfig
	tracer  trace.Tracer
	metrics *infrastructure.QueryMetrics
	logger  *slog.Logger
}

// NewEnrollmentService creates a new enrollment service.
// A nil tracer uses the global provider; nil metrics disables recording.
func NewEnrollmentService(ds *enrollment.Dataset, source string, cfg EnrollmentServiceConfig,
	tracer trace.Tracer, metrics *infrastructure.QueryMetrics, logger *slog.Logger) (*EnrollmentService, error) {
	if ds == nil {
		return nil, fmt.Errorf("enrollment service requires a dataset")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = config.DefaultReportWorkers
	}
	if cfg.Threshold < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeThreshold, cfg.Threshold)
	}

	logger = infrastructure.WithComponent(logger, "enrollment_service")
	logger.Info("EnrollmentService initialized",
		slog.String("source", source),
		slog.String("shape", ds.Dims().String()),
		slog.Int("workers", cfg.Workers),
		slog.Int("threshold", cfg.Threshold))

	return &EnrollmentService{
		ds:      ds,
		source:  source,
		cfg:     cfg,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Dataset returns the underlying dataset
func (s *EnrollmentService) Dataset() *enrollment.Dataset {
	return s.ds
}

// Threshold returns the configured median cutoff
func (s *EnrollmentService) Threshold() int {
	return s.cfg.Threshold
}

// observe wraps one query in a span and records its outcome
func (s *EnrollmentService) observe(ctx context.Context, op string, fn func(ctx context.Context, span trace.Span) error) error {
	ctx, span := s.tracer.Start(ctx, "EnrollmentService."+op)
	defer span.End()

	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = fn(ctx, span)
	}
	infrastructure.RecordQuery(ctx, s.metrics, op, time.Since(start), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}

// Info returns the dataset description
func (s *EnrollmentService) Info(ctx context.Context) DatasetInfo {
	return DatasetInfo{
		Source:       s.source,
		Shape:        s.ds.Dims().String(),
		Dims:         s.ds.Dims(),
		Ndim:         s.ds.Array().Ndim(),
		Years:        s.ds.Years(),
		Grades:       s.ds.Grades(),
		Schools:      s.ds.Directory().Len(),
		MissingCells: dataset.MissingCells(s.ds.Array()),
	}
}

// Schools returns the school directory in index order
func (s *EnrollmentService) Schools(ctx context.Context) []enrollment.School {
	return s.ds.Directory().Schools()
}

// Resolve maps raw user input to a school index
func (s *EnrollmentService) Resolve(ctx context.Context, input string) (int, error) {
	var index int
	err := s.observe(ctx, "resolve", func(ctx context.Context, span trace.Span) error {
		i, err := s.resolve(ctx, input)
		index = i
		return err
	})
	return index, err
}

func (s *EnrollmentService) resolve(ctx context.Context, input string) (int, error) {
	if strings.TrimSpace(input) == "" {
		s.logger.WarnContext(ctx, "Empty school query")
		return 0, &enrollment.InvalidSchoolError{Query: enrollment.NameQuery(input)}
	}

	q := enrollment.ParseQuery(input)
	index, err := s.ds.Resolve(q)
	if err != nil {
		s.logger.WarnContext(ctx, "School query matched nothing",
			slog.String("query", q.String()))
		return 0, err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("school.index", index))
	return index, nil
}

// SchoolStats resolves input and computes the per-school aggregates
func (s *EnrollmentService) SchoolStats(ctx context.Context, input string) (enrollment.SchoolStats, error) {
	var stats enrollment.SchoolStats
	err := s.observe(ctx, "school_stats", func(ctx context.Context, span trace.Span) error {
		index, err := s.resolve(ctx, input)
		if err != nil {
			return err
		}
		stats, err = s.ds.SchoolStats(index)
		if err != nil {
			return fmt.Errorf("school stats: %w", err)
		}
		span.SetAttributes(attribute.Int("school.code", stats.School.Code))
		return nil
	})
	return stats, err
}

// Median resolves input and computes the median of its enrollments above threshold
func (s *EnrollmentService) Median(ctx context.Context, input string, threshold int) (enrollment.MedianResult, error) {
	var result enrollment.MedianResult
	err := s.observe(ctx, "median", func(ctx context.Context, span trace.Span) error {
		if threshold < 0 {
			return apperrors.ErrValidation("threshold", ErrNegativeThreshold.Error())
		}
		index, err := s.resolve(ctx, input)
		if err != nil {
			return err
		}
		result, err = s.ds.MedianOverThreshold(index, threshold)
		if err != nil {
			return fmt.Errorf("median over threshold: %w", err)
		}
		span.SetAttributes(
			attribute.Int("median.threshold", threshold),
			attribute.Int("median.count", result.Count),
		)
		return nil
	})
	return result, err
}

// GeneralStats computes the cross-school aggregates
func (s *EnrollmentService) GeneralStats(ctx context.Context) (enrollment.GeneralStats, error) {
	var gs enrollment.GeneralStats
	err := s.observe(ctx, "general_stats", func(ctx context.Context, span trace.Span) error {
		gs = s.ds.GeneralStats()
		return nil
	})
	return gs, err
}

// Console builds the full console report for one school query
func (s *EnrollmentService) Console(ctx context.Context, input string) (report.Console, error) {
	var c report.Console
	err := s.observe(ctx, "console", func(ctx context.Context, span trace.Span) error {
		index, err := s.resolve(ctx, input)
		if err != nil {
			return err
		}

		stats, err := s.ds.SchoolStats(index)
		if err != nil {
			return fmt.Errorf("school stats: %w", err)
		}
		median, err := s.ds.MedianOverThreshold(index, s.cfg.Threshold)
		if err != nil {
			return fmt.Errorf("median over threshold: %w", err)
		}

		c = report.Console{
			Dims:    s.ds.Dims(),
			Ndim:    s.ds.Array().Ndim(),
			School:  stats,
			Median:  median,
			General: s.ds.GeneralStats(),
		}
		return nil
	})
	return c, err
}

// Summary computes every school's aggregates and median concurrently
func (s *EnrollmentService) Summary(ctx context.Context) (report.Summary, error) {
	var summary report.Summary
	err := s.observe(ctx, "summary", func(ctx context.Context, span trace.Span) error {
		n := s.ds.Directory().Len()
		schools := make([]report.SchoolReport, n)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.cfg.Workers)

		for i := 0; i < n; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				stats, err := s.ds.SchoolStats(i)
				if err != nil {
					return fmt.Errorf("school %d stats: %w", i, err)
				}
				median, err := s.ds.MedianOverThreshold(i, s.cfg.Threshold)
				if err != nil {
					return fmt.Errorf("school %d median: %w", i, err)
				}
				schools[i] = report.SchoolReport{Stats: stats, Median: median}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		summary = report.Summary{
			Dims:      s.ds.Dims(),
			Years:     s.ds.Years(),
			Grades:    s.ds.Grades(),
			Threshold: s.cfg.Threshold,
			Schools:   schools,
			General:   s.ds.GeneralStats(),
		}
		span.SetAttributes(attribute.Int("summary.schools", n))
		return nil
	})
	return summary, err
}

// Export writes the all-schools summary to w in format
func (s *EnrollmentService) Export(ctx context.Context, w io.Writer, format string) error {
	if format != report.FormatXLSX && format != report.FormatCSV {
		return apperrors.ErrValidation("format", fmt.Sprintf("%s: %s", ErrUnsupportedFormat, format))
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		return err
	}

	return s.observe(ctx, "export", func(ctx context.Context, span trace.Span) error {
		span.SetAttributes(attribute.String("export.format", format))
		if err := report.Encode(w, summary, format); err != nil {
			s.logger.ErrorContext(ctx, "Export failed",
				slog.String("format", format),
				slog.String("error", err.Error()))
			return apperrors.ExportError(format, err)
		}
		return nil
	})
}

// ExportFile writes the all-schools summary to path and returns the written file
func (s *EnrollmentService) ExportFile(ctx context.Context, paths *config.Paths, path, format string) (string, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return "", err
	}

	var written string
	err = s.observe(ctx, "export_file", func(ctx context.Context, span trace.Span) error {
		out, err := report.Export(paths, summary, path, format)
		if err != nil {
			return apperrors.NewExportError("write export file", err).WithContext("path", path)
		}
		written = out
		span.SetAttributes(attribute.String("export.path", out))
		s.logger.InfoContext(ctx, "Report exported", slog.String("path", out))
		return nil
	})
	return written, err
}
