package report

import (
	"fmt"
	"strconv"

	"enrollstats/internal/enrollment"
	"enrollstats/internal/exporter"
)

// SchoolReport pairs one school's aggregates with its threshold median
type SchoolReport struct {
	Stats  enrollment.SchoolStats  `json:"stats"`
	Median enrollment.MedianResult `json:"median"`
}

// Summary is the all-schools report used for exports
type Summary struct {
	Dims      enrollment.Dims         `json:"dims"`
	Years     []string                `json:"years"`
	Grades    []string                `json:"grades"`
	Threshold int                     `json:"threshold"`
	Schools   []SchoolReport          `json:"schools"`
	General   enrollment.GeneralStats `json:"general"`
}

// Sheets lays the summary out as the Schools, Yearly and General worksheets
func (s Summary) Sheets() []exporter.Sheet {
	schools := exporter.Sheet{Name: "Schools", Headers: s.schoolHeaders()}
	yearly := exporter.Sheet{Name: "Yearly", Headers: append([]string{"Code", "Name"}, s.Years...)}

	for _, sr := range s.Schools {
		st := sr.Stats

		row := []interface{}{st.School.Code, st.School.Name}
		for _, gm := range st.GradeMeans {
			row = append(row, cellValue(gm.Mean))
		}
		row = append(row,
			cellValue(st.Highest),
			cellValue(st.Lowest),
			st.TotalTenYears,
			cellValue(st.MeanYearlyTotal),
			medianValue(sr.Median),
		)
		schools.Rows = append(schools.Rows, row)

		yrow := []interface{}{st.School.Code, st.School.Name}
		for _, yt := range st.Yearly {
			yrow = append(yrow, yt.Total)
		}
		yearly.Rows = append(yearly.Rows, yrow)
	}

	g := s.General
	general := exporter.Sheet{
		Name:    "General",
		Headers: []string{"Statistic", "Value"},
		Rows: [][]interface{}{
			{"Shape of full data array", s.Dims.String()},
			{"Mean enrollment in " + g.FirstYear, cellValue(g.MeanFirstYear)},
			{"Mean enrollment in " + g.LastYear, cellValue(g.MeanLastYear)},
			{"Total graduating class of " + g.LastYear, g.TotalLastYear},
			{"Highest enrollment for a single grade", cellValue(g.Highest)},
			{"Lowest enrollment for a single grade", cellValue(g.Lowest)},
		},
	}

	return []exporter.Sheet{schools, yearly, general}
}

// CSVOptions flattens the per-school data into one table, yearly totals included
func (s Summary) CSVOptions() exporter.WriteOptions {
	headers := s.schoolHeaders()
	headers = append(headers[:len(headers):len(headers)], s.Years...)

	opts := exporter.WriteOptions{Headers: headers, BOMPrefix: true}
	for _, sr := range s.Schools {
		st := sr.Stats

		record := []string{strconv.Itoa(st.School.Code), st.School.Name}
		for _, gm := range st.GradeMeans {
			record = append(record, gm.Mean.String())
		}
		record = append(record,
			st.Highest.String(),
			st.Lowest.String(),
			strconv.Itoa(st.TotalTenYears),
			st.MeanYearlyTotal.String(),
			fmt.Sprint(medianValue(sr.Median)),
		)
		for _, yt := range st.Yearly {
			record = append(record, strconv.Itoa(yt.Total))
		}
		opts.Records = append(opts.Records, record)
	}
	return opts
}

func (s Summary) schoolHeaders() []string {
	headers := []string{"Code", "Name"}
	for _, g := range s.Grades {
		headers = append(headers, "Mean "+g)
	}
	return append(headers,
		"Highest",
		"Lowest",
		"Total Ten Years",
		"Mean Yearly Total",
		fmt.Sprintf("Median Over %d", s.Threshold),
	)
}

// cellValue keeps numbers numeric in the workbook and prints "nan" for missing cells
func cellValue(c enrollment.Cell) interface{} {
	if v, ok := c.Get(); ok {
		return v
	}
	return c.String()
}

func medianValue(m enrollment.MedianResult) interface{} {
	if !m.Found {
		return "nan"
	}
	return m.Median
}
