package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"enrollstats/internal/config"
	"enrollstats/internal/dataset"
	"enrollstats/internal/enrollment"
	"enrollstats/internal/infrastructure"
	"enrollstats/internal/report"
	"enrollstats/internal/services"
	"enrollstats/internal/validation"
)

// Prompt is shown before every school query
const Prompt = "Please enter the highschool name or school code: "

// errNoSchool reports that input ended before a school was chosen
var errNoSchool = errors.New("no school selected before end of input")

type options struct {
	school    string
	source    string
	format    string
	threshold int
	export    string
	logFile   string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes one report cycle and returns the process exit status
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	opts, err := parseFlags(args, cfg, stderr)
	if err != nil {
		return 2
	}

	logFile, err := infrastructure.OpenLogFile(opts.logFile)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open log file: %v\n", err)
		return 1
	}
	defer logFile.Close()
	logger := infrastructure.WithComponent(infrastructure.NewLogger(cfg.Logging, logFile), "enrollment-report")
	// One trace ID per run ties its log lines together
	ctx = infrastructure.EnsureTraceID(ctx)

	if err := cfg.Validate(); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Invalid configuration")
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	if err := validation.NewFileValidator(logger).ValidateSource(cfg.Dataset.Path, cfg.Dataset.Format); err != nil {
		fmt.Fprintf(stderr, "Invalid dataset source: %v\n", err)
		return 1
	}

	ds, err := dataset.Open(ctx, cfg.Dataset, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load dataset: %v\n", err)
		return 1
	}

	svc, err := services.NewEnrollmentService(ds, cfg.Dataset.Format, services.EnrollmentServiceConfig{
		Workers:   cfg.Report.Workers,
		Threshold: cfg.Dataset.Threshold,
	}, nil, nil, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize service: %v\n", err)
		return 1
	}

	if opts.export != "" {
		paths, err := config.GetPaths(cfg, "")
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve paths: %v\n", err)
			return 1
		}
		written, err := svc.ExportFile(ctx, paths, opts.export, "")
		if err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Report exported to %s\n", written)

		if opts.school == "" {
			return 0
		}
	}

	if err := report.WriteHeader(stdout, ds.Dims(), ds.Array().Ndim()); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write report")
		return 1
	}

	var c report.Console
	if opts.school != "" {
		c, err = svc.Console(ctx, opts.school)
		if errors.Is(err, enrollment.ErrInvalidSchool) {
			fmt.Fprintln(stdout, err.Error())
			return 1
		}
	} else {
		c, err = promptSchool(ctx, svc, stdin, stdout)
	}
	if err != nil {
		if errors.Is(err, errNoSchool) {
			fmt.Fprintln(stdout)
		}
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Report aborted")
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if err := report.WriteSchool(stdout, c.School, c.Median); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write report")
		return 1
	}
	if err := report.WriteGeneral(stdout, c.General); err != nil {
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Failed to write report")
		return 1
	}

	logger.InfoContext(ctx, "Report printed",
		slog.String("school", c.School.School.Name),
		slog.Int("code", c.School.School.Code))
	return 0
}

// parseFlags reads the command line; only flags that were set override cfg
func parseFlags(args []string, cfg *config.Config, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("enrollment-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.school, "school", "", "school name or code (skips the prompt)")
	fs.StringVar(&opts.source, "source", "", "dataset file (.csv or .xlsx); defaults to the built-in tables")
	fs.StringVar(&opts.format, "format", "", "dataset format: embedded, csv or xlsx (inferred from -source)")
	fs.IntVar(&opts.threshold, "threshold", cfg.Dataset.Threshold, "median threshold")
	fs.StringVar(&opts.export, "export", "", "write the all-schools report to this .xlsx or .csv file")
	fs.StringVar(&opts.logFile, "log", config.DefaultCLILogFile, "log file")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Dataset.Path = opts.source
			if opts.format == "" {
				cfg.Dataset.Format = formatFromPath(opts.source)
			}
		case "format":
			cfg.Dataset.Format = opts.format
		case "threshold":
			cfg.Dataset.Threshold = opts.threshold
		}
	})

	return opts, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return config.FormatXLSX
	case ".csv":
		return config.FormatCSV
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}

// promptSchool asks until the input names a school or input ends
func promptSchool(ctx context.Context, svc *services.EnrollmentService, stdin io.Reader, stdout io.Writer) (report.Console, error) {
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, Prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return report.Console{}, fmt.Errorf("read input: %w", err)
			}
			return report.Console{}, errNoSchool
		}

		c, err := svc.Console(ctx, strings.TrimRight(scanner.Text(), "\r"))
		if errors.Is(err, enrollment.ErrInvalidSchool) {
			fmt.Fprintln(stdout, err.Error())
			continue
		}
		return c, err
	}
}
