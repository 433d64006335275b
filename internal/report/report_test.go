package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"enrollstats/internal/config"
	"enrollstats/internal/dataset"
	"enrollstats/internal/enrollment"
	"enrollstats/internal/shared/testutil"
)

const syntheticReport = `School Enrollment Statistics
Shape of full data array: (2, 2, 2)
Dimensions of full data array: 3

***Requested School Statistics***

School Name: South High, School Code: 200
Mean enrollment for Grade 10: 550
Mean enrollment for Grade 11: 750
Highest enrollment for a single grade: 800
Lowest enrollment for a single grade: 500
Total enrollment for 2021: 1200
Total enrollment for 2022: 1400
Total ten year enrolment: 2600
Mean total enrollment over 10 years: 1300
For all enrollments over 500, the median value was: 700

***General Statistics for All Schools***

Mean enrollment in 2021: 310
Mean enrollment in 2022: 365
Total graduating class of 2022: 1460
Highest enrollment for a single grade: 800
Lowest enrollment for a single grade: 10
`

func consoleFor(t *testing.T, ds *enrollment.Dataset, index int) Console {
	t.Helper()

	stats, err := ds.SchoolStats(index)
	require.NoError(t, err)
	median, err := ds.MedianOverThreshold(index, enrollment.DefaultThreshold)
	require.NoError(t, err)

	return Console{
		Dims:    ds.Dims(),
		Ndim:    ds.Array().Ndim(),
		School:  stats,
		Median:  median,
		General: ds.GeneralStats(),
	}
}

func summaryFor(t *testing.T, ds *enrollment.Dataset) Summary {
	t.Helper()

	s := Summary{
		Dims:      ds.Dims(),
		Years:     ds.Years(),
		Grades:    ds.Grades(),
		Threshold: enrollment.DefaultThreshold,
		General:   ds.GeneralStats(),
	}
	for i := 0; i < ds.Dims().Schools; i++ {
		c := consoleFor(t, ds, i)
		s.Schools = append(s.Schools, SchoolReport{Stats: c.School, Median: c.Median})
	}
	return s
}

func TestWriteSynthetic(t *testing.T) {
	ds := testutil.SyntheticDataset(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, consoleFor(t, ds, 1)))
	assert.Equal(t, syntheticReport, buf.String())
}

func TestWriteEmbedded(t *testing.T) {
	ds, err := dataset.Open(context.Background(), config.DatasetConfig{Format: config.FormatEmbedded}, nil)
	require.NoError(t, err)

	idx, err := ds.Resolve(enrollment.CodeQuery(9865))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, consoleFor(t, ds, idx)))
	out := buf.String()

	for _, line := range []string{
		"Shape of full data array: (20, 3, 10)",
		"Dimensions of full data array: 3",
		"School Name: Lester B. Pearson High School, School Code: 9865",
		"Mean enrollment for Grade 10: 644",
		"Mean enrollment for Grade 11: 637",
		"Mean enrollment for Grade 12: 680",
		"Highest enrollment for a single grade: 766",
		"Lowest enrollment for a single grade: 550",
		"Total enrollment for 2013: 1832",
		"Total enrollment for 2022: 2153",
		"Total ten year enrolment: 19626",
		"Mean total enrollment over 10 years: 1962",
		"For all enrollments over 500, the median value was: 657",
		"Mean enrollment in 2013: 475",
		"Mean enrollment in 2022: 549",
		"Total graduating class of 2022: 32438",
		"Highest enrollment for a single grade: 837",
		"Lowest enrollment for a single grade: 40",
	} {
		assert.Contains(t, out, line+"\n")
	}
}

func TestMedianLine(t *testing.T) {
	assert.Equal(t, "No enrollments over 500.", MedianLine(enrollment.MedianResult{Threshold: 500}))
	assert.Equal(t, "For all enrollments over 650, the median value was: 701",
		MedianLine(enrollment.MedianResult{Threshold: 650, Median: 701, Found: true, Count: 4}))
}

func TestWriteUndefinedValues(t *testing.T) {
	ds := testutil.SparseDataset(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSchool(&buf, consoleFor(t, ds, 2).School, enrollment.MedianResult{Threshold: 500}))
	out := buf.String()

	assert.Contains(t, out, "School Name: Closed High, School Code: 300\n")
	assert.Contains(t, out, "Mean enrollment for Grade 10: nan\n")
	assert.Contains(t, out, "Highest enrollment for a single grade: nan\n")
	assert.Contains(t, out, "Total enrollment for 2021: 0\n")
	assert.Contains(t, out, "Total ten year enrolment: 0\n")
	assert.Contains(t, out, "No enrollments over 500.\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteStopsOnError(t *testing.T) {
	ds := testutil.SyntheticDataset(t)
	err := Write(failingWriter{}, consoleFor(t, ds, 0))
	assert.EqualError(t, err, "disk full")
}

func TestSummarySheets(t *testing.T) {
	s := summaryFor(t, testutil.SparseDataset(t))
	sheets := s.Sheets()
	require.Len(t, sheets, 3)

	schools := sheets[0]
	assert.Equal(t, "Schools", schools.Name)
	assert.Equal(t, []string{"Code", "Name", "Mean Grade 10", "Mean Grade 11", "Highest", "Lowest",
		"Total Ten Years", "Mean Yearly Total", "Median Over 500"}, schools.Headers)
	require.Len(t, schools.Rows, 3)
	assert.Equal(t, []interface{}{200, "South High", 550, 750, 800, 500, 2600, 1300, 700}, schools.Rows[1])
	assert.Equal(t, []interface{}{300, "Closed High", "nan", "nan", "nan", "nan", 0, 0, "nan"}, schools.Rows[2])

	yearly := sheets[1]
	assert.Equal(t, []string{"Code", "Name", "2021", "2022"}, yearly.Headers)
	assert.Equal(t, []interface{}{100, "North High", 40, 60}, yearly.Rows[0])

	general := sheets[2]
	assert.Equal(t, []interface{}{"Total graduating class of 2022", 1460}, general.Rows[3])
}

func TestEncodeCSV(t *testing.T) {
	s := summaryFor(t, testutil.SyntheticDataset(t))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, FormatCSV))

	data := strings.TrimPrefix(buf.String(), "\uFEFF")
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Median Over 500", records[0][8])
	assert.Equal(t, []string{"2021", "2022"}, records[0][9:])
	assert.Equal(t, []string{"100", "North High", "15", "35", "40", "10", "100", "50", "nan", "40", "60"}, records[1])
}

func TestEncodeXLSX(t *testing.T) {
	s := summaryFor(t, testutil.SyntheticDataset(t))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Schools", "Yearly", "General"}, f.GetSheetList())
	value, err := f.GetCellValue("Schools", "I3")
	require.NoError(t, err)
	assert.Equal(t, "700", value)

	assert.Error(t, Encode(&buf, s, "pdf"))
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	paths := &config.Paths{BaseDir: dir, ReportsDir: filepath.Join(dir, "reports")}
	s := summaryFor(t, testutil.SyntheticDataset(t))

	t.Run("default path", func(t *testing.T) {
		path, err := Export(paths, s, "", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "reports", "enrollment_report.xlsx"), path)
		assert.FileExists(t, path)
	})

	t.Run("format from extension", func(t *testing.T) {
		path, err := Export(paths, s, "out/report.CSV", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "reports", "out", "report.CSV"), path)
		assert.FileExists(t, path)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, err := Export(paths, s, "report.pdf", "")
		assert.ErrorContains(t, err, "unsupported export extension")
	})

	t.Run("no paths", func(t *testing.T) {
		_, err := Export(nil, s, "", FormatCSV)
		assert.Error(t, err)
	})
}

func TestFormatHelpers(t *testing.T) {
	f, err := FormatFromPath("/tmp/a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	assert.Equal(t, "text/csv; charset=utf-8", ContentType(FormatCSV))
	assert.Contains(t, ContentType(FormatXLSX), "spreadsheetml")
}
