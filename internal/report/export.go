package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"enrollstats/internal/config"
	"enrollstats/internal/exporter"
)

// Export formats
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ContentType returns the HTTP media type of an export format
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// FormatFromPath picks the export format from a file extension
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case FormatXLSX, FormatCSV:
		return ext, nil
	default:
		return "", fmt.Errorf("unsupported export extension %q: use .xlsx or .csv", filepath.Ext(path))
	}
}

// Encode writes the summary in format to w
func Encode(w io.Writer, s Summary, format string) error {
	switch format {
	case FormatXLSX:
		return exporter.EncodeWorkbook(w, s.Sheets())
	case FormatCSV:
		return exporter.EncodeCSV(w, s.CSVOptions())
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// Export writes the summary to path, inferring the format from its extension.
// An empty path uses the default export file in the reports directory.
func Export(paths *config.Paths, s Summary, path, format string) (string, error) {
	if path == "" {
		if format == "" {
			format = FormatXLSX
		}
		if paths == nil {
			return "", fmt.Errorf("no export path and no reports directory")
		}
		path = paths.GetExportPath(format)
	} else if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return "", err
		}
		format = f
	}

	switch format {
	case FormatXLSX:
		return exporter.NewWorkbookWriter(paths).WriteWorkbook(path, s.Sheets())
	case FormatCSV:
		return exporter.NewCSVWriter(paths).WriteCSV(path, s.CSVOptions())
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}
