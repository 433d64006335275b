package enrollment

import (
	"fmt"
	"math"
)

// Dataset bundles a loaded array with its school directory and axis labels.
// It is immutable after New and safe for concurrent use.
type Dataset struct {
	array     *Array
	directory *Directory
	years     []string
	grades    []string
}

// New checks that the directory and labels line up with the array axes
func New(array *Array, directory *Directory, years, grades []string) (*Dataset, error) {
	if array == nil || directory == nil {
		return nil, fmt.Errorf("new dataset: array and directory are required")
	}

	dims := array.Dims()
	if directory.Len() != dims.Schools {
		return nil, &DirectoryError{
			Field:   "schools",
			Message: fmt.Sprintf("directory has %d schools, array has %d", directory.Len(), dims.Schools),
		}
	}
	if len(years) != dims.Years {
		return nil, &ShapeError{Year: -1, Want: dims.Years, Got: len(years)}
	}
	if len(grades) != dims.Grades {
		return nil, &DirectoryError{
			Field:   "grades",
			Message: fmt.Sprintf("%d grade labels for %d grades", len(grades), dims.Grades),
		}
	}

	ds := &Dataset{
		array:     array,
		directory: directory,
		years:     append([]string(nil), years...),
		grades:    append([]string(nil), grades...),
	}
	return ds, nil
}

// Array returns the underlying enrollment array
func (d *Dataset) Array() *Array { return d.array }

// Directory returns the school directory
func (d *Dataset) Directory() *Directory { return d.directory }

// Dims returns the array shape
func (d *Dataset) Dims() Dims { return d.array.Dims() }

// Years returns a copy of the year labels
func (d *Dataset) Years() []string { return append([]string(nil), d.years...) }

// Grades returns a copy of the grade labels
func (d *Dataset) Grades() []string { return append([]string(nil), d.grades...) }

// Resolve maps a query to a school index
func (d *Dataset) Resolve(q Query) (int, error) {
	return d.directory.Resolve(q)
}

func (d *Dataset) school(index int) (School, error) {
	s, ok := d.directory.School(index)
	if !ok {
		return School{}, &InvalidSchoolError{}
	}
	return s, nil
}

// SchoolStats computes the per-school aggregates for the school at index
func (d *Dataset) SchoolStats(index int) (SchoolStats, error) {
	school, err := d.school(index)
	if err != nil {
		return SchoolStats{}, err
	}

	dims := d.array.Dims()
	stats := SchoolStats{
		School:     school,
		Index:      index,
		GradeMeans: make([]GradeMean, dims.Grades),
		Yearly:     make([]YearTotal, dims.Years),
	}

	for g := 0; g < dims.Grades; g++ {
		stats.GradeMeans[g] = GradeMean{
			Grade: d.grades[g],
			Mean:  truncatedMean(d.array.GradeSeries(index, g)),
		}
	}

	stats.Highest, stats.Lowest = extremes(d.array.SchoolSlice(index))

	totals := make([]Cell, dims.Years)
	for y := 0; y < dims.Years; y++ {
		yearCells := make([]Cell, dims.Grades)
		for g := 0; g < dims.Grades; g++ {
			yearCells[g] = d.array.At(index, g, y)
		}
		total := sumValid(yearCells)
		stats.Yearly[y] = YearTotal{Year: d.years[y], Total: total}
		totals[y] = Some(total)
	}

	stats.TotalTenYears = sumValid(totals)
	stats.MeanYearlyTotal = truncatedMean(totals)

	return stats, nil
}

// GeneralStats computes the cross-school aggregates.
// Missing cells are skipped in the first-year and last-year reductions alike.
func (d *Dataset) GeneralStats() GeneralStats {
	dims := d.array.Dims()
	first := d.array.YearSlice(0)
	last := d.array.YearSlice(dims.Years - 1)

	gs := GeneralStats{
		FirstYear:     d.years[0],
		LastYear:      d.years[dims.Years-1],
		MeanFirstYear: flooredMean(first),
		MeanLastYear:  flooredMean(last),
		TotalLastYear: sumValid(last),
	}
	gs.Highest, gs.Lowest = extremes(d.array.All())

	return gs
}

// MedianOverThreshold returns the floored median of the school's cells strictly above threshold
func (d *Dataset) MedianOverThreshold(index, threshold int) (MedianResult, error) {
	if _, err := d.school(index); err != nil {
		return MedianResult{}, err
	}

	var over []int
	for _, v := range validValues(d.array.SchoolSlice(index)) {
		if v > threshold {
			over = append(over, v)
		}
	}

	result := MedianResult{Threshold: threshold, Count: len(over)}
	if len(over) == 0 {
		return result, nil
	}

	result.Median = int(math.Floor(median(over)))
	result.Found = true
	return result, nil
}
