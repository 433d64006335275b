package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"enrollstats/internal/enrollment"
)

//go:embed data/enrollment.csv
var embeddedCSV []byte

// CSVSource reads long-format rows: year,school_code,grade,enrollment.
// Cells with no row stay missing; an empty or "nan" enrollment is missing too.
type CSVSource struct {
	name   string
	open   func() (io.ReadCloser, error)
	logger *slog.Logger
}

// NewCSVSource reads the CSV file at path
func NewCSVSource(path string, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{
		name:   filepath.Base(path),
		open:   func() (io.ReadCloser, error) { return os.Open(path) },
		logger: logger,
	}
}

// NewEmbeddedSource reads the tables bundled with the binary
func NewEmbeddedSource(logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{
		name:   "embedded",
		open:   func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(embeddedCSV)), nil },
		logger: logger,
	}
}

// Name identifies the source in logs
func (s *CSVSource) Name() string {
	return s.name
}

// Blocks parses the CSV into yearly blocks
func (s *CSVSource) Blocks(ctx context.Context, layout Layout) ([]enrollment.Block, error) {
	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open CSV source %s: %w", s.name, err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV source %s", s.name)
	}

	var dataStart int
	if isHeaderRow(records[0]) {
		dataStart = 1
	}

	dims := layout.Dims()
	blocks := emptyBlocks(dims)
	seen := make(map[int]bool, dims.Cells())
	skipped := 0

	for i := dataStart; i < len(records); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := records[i]
		lineNum := i + 1

		y, ok := layout.yearIndex(record[0])
		if !ok {
			s.logger.WarnContext(ctx, "skipping row for unknown year",
				"source", s.name, "line", lineNum, "year", record[0])
			skipped++
			continue
		}
		school, ok := layout.schoolIndex(record[1])
		if !ok {
			s.logger.WarnContext(ctx, "skipping row for unknown school code",
				"source", s.name, "line", lineNum, "school_code", record[1])
			skipped++
			continue
		}
		g, ok := layout.gradeIndex(record[2])
		if !ok {
			return nil, fmt.Errorf("unknown grade %q (line %d)", record[2], lineNum)
		}

		cell, err := parseCell(record[3])
		if err != nil {
			return nil, fmt.Errorf("parse enrollment (line %d): %w", lineNum, err)
		}

		flat := school*dims.Grades + g
		key := y*dims.BlockSize() + flat
		if seen[key] {
			return nil, fmt.Errorf("duplicate row for year %s, school %s, grade %s (line %d)",
				record[0], record[1], record[2], lineNum)
		}
		seen[key] = true
		blocks[y][flat] = cell
	}

	s.logger.DebugContext(ctx, "parsed CSV source",
		"source", s.name,
		"rows", len(records)-dataStart,
		"skipped", skipped,
		"cells", len(seen),
	)

	return blocks, nil
}

// isHeaderRow checks whether the first row names the columns
func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return strings.Contains(first, "year")
}
