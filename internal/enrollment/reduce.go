package enrollment

import (
	"math"
	"sort"
)

// validValues drops no-data cells
func validValues(cells []Cell) []int {
	out := make([]int, 0, len(cells))
	for _, c := range cells {
		if c.Valid {
			out = append(out, c.Value)
		}
	}
	return out
}

// sumValid adds the valid cells; an all-missing slice sums to 0
func sumValid(cells []Cell) int {
	total := 0
	for _, c := range cells {
		if c.Valid {
			total += c.Value
		}
	}
	return total
}

// meanValid returns the arithmetic mean of valid cells and false when there are none
func meanValid(cells []Cell) (float64, bool) {
	values := validValues(cells)
	if len(values) == 0 {
		return math.NaN(), false
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values)), true
}

// truncatedMean is meanValid truncated toward zero
func truncatedMean(cells []Cell) Cell {
	m, ok := meanValid(cells)
	if !ok {
		return None()
	}
	return Some(int(math.Trunc(m)))
}

// flooredMean is meanValid rounded down
func flooredMean(cells []Cell) Cell {
	m, ok := meanValid(cells)
	if !ok {
		return None()
	}
	return Some(int(math.Floor(m)))
}

// extremes returns the max and min valid cell
func extremes(cells []Cell) (maxCell, minCell Cell) {
	for _, c := range cells {
		if !c.Valid {
			continue
		}
		if !maxCell.Valid || c.Value > maxCell.Value {
			maxCell = c
		}
		if !minCell.Valid || c.Value < minCell.Value {
			minCell = c
		}
	}
	return maxCell, minCell
}

// median computes the median of values; even counts average the two middle values
func median(values []int) float64 {
	if len(values) == 0 {
		return math.NaN()
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2
	}
	return float64(sorted[n/2])
}
