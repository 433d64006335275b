package enrollment

import (
	"fmt"
	"strconv"
)

// Default dataset shape: 20 schools, 3 grades, 10 years.
const (
	DefaultSchools = 20
	DefaultGrades  = 3
	DefaultYears   = 10

	// DefaultThreshold is the cutoff used by the threshold median report
	DefaultThreshold = 500
)

// Dims describes the shape of an enrollment array
type Dims struct {
	Schools int `json:"schools"`
	Grades  int `json:"grades"`
	Years   int `json:"years"`
}

// DefaultDims returns the (20, 3, 10) shape of the bundled dataset
func DefaultDims() Dims {
	return Dims{Schools: DefaultSchools, Grades: DefaultGrades, Years: DefaultYears}
}

// BlockSize returns the number of cells in one year's flat block
func (d Dims) BlockSize() int {
	return d.Schools * d.Grades
}

// Cells returns the total number of cells in the array
func (d Dims) Cells() int {
	return d.Schools * d.Grades * d.Years
}

// IsValid checks that every axis is non-empty
func (d Dims) IsValid() bool {
	return d.Schools > 0 && d.Grades > 0 && d.Years > 0
}

// String renders the shape as a tuple, e.g. "(20, 3, 10)"
func (d Dims) String() string {
	return fmt.Sprintf("(%d, %d, %d)", d.Schools, d.Grades, d.Years)
}

// Cell is one (school, grade, year) enrollment value.
// Valid is false for a no-data cell (for example a grade not offered that year).
type Cell struct {
	Value int  `json:"value"`
	Valid bool `json:"valid"`
}

// Some returns a cell holding v
func Some(v int) Cell {
	return Cell{Value: v, Valid: true}
}

// None returns a no-data cell
func None() Cell {
	return Cell{}
}

// Get returns the value and whether it is present
func (c Cell) Get() (int, bool) {
	return c.Value, c.Valid
}

// String renders the value, or "nan" for a no-data cell
func (c Cell) String() string {
	if !c.Valid {
		return "nan"
	}
	return strconv.Itoa(c.Value)
}

// Block is one year of input: Schools*Grades cells in school-major, grade-minor order
type Block []Cell

// IntBlock builds a block with every cell present
func IntBlock(values ...int) Block {
	b := make(Block, len(values))
	for i, v := range values {
		b[i] = Some(v)
	}
	return b
}

// School is one entry of the school directory
type School struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

// YearTotal is the summed enrollment of one school for one year
type YearTotal struct {
	Year  string `json:"year"`
	Total int    `json:"total"`
}

// SchoolStats holds the per-school aggregates for one query
type SchoolStats struct {
	School          School      `json:"school"`
	Index           int         `json:"index"`
	GradeMeans      []GradeMean `json:"grade_means"`
	Highest         Cell        `json:"highest"`
	Lowest          Cell        `json:"lowest"`
	Yearly          []YearTotal `json:"yearly"`
	TotalTenYears   int         `json:"total_ten_years"`
	MeanYearlyTotal Cell        `json:"mean_yearly_total"`
}

// GradeMean is the truncated mean enrollment of one grade over all years.
// Mean is invalid when the grade has no data in any year.
type GradeMean struct {
	Grade string `json:"grade"`
	Mean  Cell   `json:"mean"`
}

// GeneralStats holds the cross-school aggregates
type GeneralStats struct {
	FirstYear     string `json:"first_year"`
	LastYear      string `json:"last_year"`
	MeanFirstYear Cell   `json:"mean_first_year"`
	MeanLastYear  Cell   `json:"mean_last_year"`
	TotalLastYear int    `json:"total_last_year"`
	Highest       Cell   `json:"highest"`
	Lowest        Cell   `json:"lowest"`
}

// MedianResult is the outcome of a threshold median query.
// Found is false when no cell exceeds the threshold.
type MedianResult struct {
	Threshold int  `json:"threshold"`
	Median    int  `json:"median"`
	Found     bool `json:"found"`
	Count     int  `json:"count"`
}
