// Package services implements the query layer between the transports (console CLI and
// HTTP API) and the enrollment dataset.
//
// EnrollmentService wraps every query in a trace span and records query metrics, so the
// handlers and the CLI only deal with raw user input and finished results:
//
//	svc, err := services.NewEnrollmentService(ds, "embedded", services.EnrollmentServiceConfig{
//	    Workers:   4,
//	    Threshold: 500,
//	}, providers.Tracer, metrics, logger)
//
//	stats, err := svc.SchoolStats(ctx, "9865")
//	if errors.Is(err, enrollment.ErrInvalidSchool) {
//	    // prompt again
//	}
//
// Summary fans the per-school computations out over a bounded errgroup; the dataset is
// immutable, so no locking is needed.
//
// HealthService backs the /healthz endpoint.
package services
