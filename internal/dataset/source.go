package dataset

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"enrollstats/internal/enrollment"
)

// Source yields one flat block per year of the layout, in year order
type Source interface {
	Name() string
	Blocks(ctx context.Context, layout Layout) ([]enrollment.Block, error)
}

// missingTokens are the spellings treated as a no-data cell
var missingTokens = map[string]bool{
	"":    true,
	"nan": true,
	"na":  true,
	"n/a": true,
	"-":   true,
}

// maxEnrollment bounds a single cell so sums over the array cannot overflow
const maxEnrollment = math.MaxInt32

// parseCell parses one enrollment value. Whole-number floats ("602.0") are accepted
// because spreadsheet exports often write them that way.
func parseCell(raw string) (enrollment.Cell, error) {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return enrollment.None(), nil
	}

	if v, err := strconv.Atoi(s); err == nil {
		if v < 0 {
			return enrollment.None(), fmt.Errorf("negative enrollment %d", v)
		}
		if v > maxEnrollment {
			return enrollment.None(), fmt.Errorf("enrollment %d exceeds %d", v, maxEnrollment)
		}
		return enrollment.Some(v), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return enrollment.None(), fmt.Errorf("parse enrollment %q: %w", raw, err)
	}
	if math.IsNaN(f) {
		return enrollment.None(), nil
	}
	if f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
		return enrollment.None(), fmt.Errorf("enrollment %q is not a non-negative whole number", raw)
	}
	if f > maxEnrollment {
		return enrollment.None(), fmt.Errorf("enrollment %q exceeds %d", raw, maxEnrollment)
	}
	return enrollment.Some(int(f)), nil
}

// gradeIndex matches "10" or "Grade 10" against the layout's grade labels
func (l Layout) gradeIndex(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	for i, label := range l.Grades {
		if s == label || "Grade "+s == label {
			return i, true
		}
	}
	return -1, false
}

func (l Layout) yearIndex(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	for i, label := range l.Years {
		if s == label {
			return i, true
		}
	}
	return -1, false
}

func (l Layout) schoolIndex(raw string) (int, bool) {
	code, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return -1, false
	}
	for i, s := range l.Schools {
		if s.Code == code {
			return i, true
		}
	}
	return -1, false
}

// emptyBlocks allocates one all-missing block per year
func emptyBlocks(dims enrollment.Dims) []enrollment.Block {
	blocks := make([]enrollment.Block, dims.Years)
	for y := range blocks {
		blocks[y] = make(enrollment.Block, dims.BlockSize())
	}
	return blocks
}
