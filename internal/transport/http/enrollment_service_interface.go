package http

import (
	"context"
	"io"

	"enrollstats/internal/enrollment"
	"enrollstats/internal/services"
)

// EnrollmentServiceInterface defines the enrollment queries the API exposes
type EnrollmentServiceInterface interface {
	Info(ctx context.Context) services.DatasetInfo
	Schools(ctx context.Context) []enrollment.School
	SchoolStats(ctx context.Context, input string) (enrollment.SchoolStats, error)
	Median(ctx context.Context, input string, threshold int) (enrollment.MedianResult, error)
	GeneralStats(ctx context.Context) (enrollment.GeneralStats, error)
	Threshold() int
	Export(ctx context.Context, w io.Writer, format string) error
}
