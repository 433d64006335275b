package report

import (
	"fmt"
	"io"

	"enrollstats/internal/enrollment"
)

// Title is the first line of every console report
const Title = "School Enrollment Statistics"

// Console is the full console report for one school query
type Console struct {
	Dims    enrollment.Dims
	Ndim    int
	School  enrollment.SchoolStats
	Median  enrollment.MedianResult
	General enrollment.GeneralStats
}

// printer remembers the first write error so callers check once
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Write renders every section of c in order
func Write(w io.Writer, c Console) error {
	if err := WriteHeader(w, c.Dims, c.Ndim); err != nil {
		return err
	}
	if err := WriteSchool(w, c.School, c.Median); err != nil {
		return err
	}
	return WriteGeneral(w, c.General)
}

// WriteHeader renders the title and the array shape
func WriteHeader(w io.Writer, dims enrollment.Dims, ndim int) error {
	p := &printer{w: w}
	p.printf("%s\n", Title)
	p.printf("Shape of full data array: %s\n", dims)
	p.printf("Dimensions of full data array: %d\n", ndim)
	return p.err
}

// WriteSchool renders the requested school section followed by its median line
func WriteSchool(w io.Writer, stats enrollment.SchoolStats, median enrollment.MedianResult) error {
	p := &printer{w: w}
	p.printf("\n***Requested School Statistics***\n\n")
	p.printf("School Name: %s, School Code: %d\n", stats.School.Name, stats.School.Code)
	for _, gm := range stats.GradeMeans {
		p.printf("Mean enrollment for %s: %s\n", gm.Grade, gm.Mean)
	}
	p.printf("Highest enrollment for a single grade: %s\n", stats.Highest)
	p.printf("Lowest enrollment for a single grade: %s\n", stats.Lowest)
	for _, yt := range stats.Yearly {
		p.printf("Total enrollment for %s: %d\n", yt.Year, yt.Total)
	}
	p.printf("Total ten year enrolment: %d\n", stats.TotalTenYears)
	p.printf("Mean total enrollment over 10 years: %s\n", stats.MeanYearlyTotal)
	p.printf("%s\n", MedianLine(median))
	return p.err
}

// MedianLine renders the threshold median result
func MedianLine(m enrollment.MedianResult) string {
	if !m.Found {
		return fmt.Sprintf("No enrollments over %d.", m.Threshold)
	}
	return fmt.Sprintf("For all enrollments over %d, the median value was: %d", m.Threshold, m.Median)
}

// WriteGeneral renders the cross-school section
func WriteGeneral(w io.Writer, gs enrollment.GeneralStats) error {
	p := &printer{w: w}
	p.printf("\n***General Statistics for All Schools***\n\n")
	p.printf("Mean enrollment in %s: %s\n", gs.FirstYear, gs.MeanFirstYear)
	p.printf("Mean enrollment in %s: %s\n", gs.LastYear, gs.MeanLastYear)
	p.printf("Total graduating class of %s: %d\n", gs.LastYear, gs.TotalLastYear)
	p.printf("Highest enrollment for a single grade: %s\n", gs.Highest)
	p.printf("Lowest enrollment for a single grade: %s\n", gs.Lowest)
	return p.err
}
