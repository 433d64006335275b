package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"enrollstats/internal/enrollment"
)

// XLSXSource reads a workbook with one sheet per year label.
// Each sheet is either a single column of flat values (school-major, grade-minor)
// or a grid with one row per school and one column per grade; both flatten to the
// same block. Blank or "nan" cells are missing. A trailing missing cell must be
// written as "nan" since trailing blanks are not stored in the sheet.
type XLSXSource struct {
	path   string
	logger *slog.Logger
}

// NewXLSXSource reads the workbook at path
func NewXLSXSource(path string, logger *slog.Logger) *XLSXSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXSource{path: path, logger: logger}
}

// Name identifies the source in logs
func (s *XLSXSource) Name() string {
	return filepath.Base(s.path)
}

// Blocks reads every year sheet. Sheets with the wrong cell count come back as
// short or long blocks and are rejected by enrollment.Load.
func (s *XLSXSource) Blocks(ctx context.Context, layout Layout) ([]enrollment.Block, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[strings.TrimSpace(name)] = true
	}

	blocks := make([]enrollment.Block, len(layout.Years))
	for y, year := range layout.Years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !sheets[year] {
			return nil, fmt.Errorf("workbook %s has no sheet for year %s", s.Name(), year)
		}

		rows, err := f.GetRows(year)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", year, err)
		}

		block, err := flattenRows(rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", year, err)
		}
		blocks[y] = block

		s.logger.DebugContext(ctx, "read year sheet",
			"source", s.Name(),
			"sheet", year,
			"rows", len(rows),
			"cells", len(block),
		)
	}

	return blocks, nil
}

// flattenRows pads every row to the widest row and reads cells row-major
func flattenRows(rows [][]string) (enrollment.Block, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return enrollment.Block{}, nil
	}

	block := make(enrollment.Block, 0, len(rows)*width)
	for r, row := range rows {
		for c := 0; c < width; c++ {
			var raw string
			if c < len(row) {
				raw = row[c]
			}
			cell, err := parseCell(raw)
			if err != nil {
				name, _ := excelize.CoordinatesToCellName(c+1, r+1)
				return nil, fmt.Errorf("cell %s: %w", name, err)
			}
			block = append(block, cell)
		}
	}
	return block, nil
}
