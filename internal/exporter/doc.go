// Package exporter writes tabular report data to files.
//
// CSVWriter writes a single table as CSV with an optional UTF-8 BOM for Excel.
// WorkbookWriter writes several tables as the sheets of one .xlsx workbook.
// Both resolve relative file names against the configured reports directory.
// EncodeCSV and EncodeWorkbook write to any io.Writer, which the HTTP export uses.
//
// Example usage:
//
//	paths, _ := config.GetPaths(cfg, "")
//	path, err := exporter.NewWorkbookWriter(paths).WriteWorkbook("enrollment_report.xlsx", []exporter.Sheet{
//	    {Name: "Schools", Headers: []string{"Code", "Name"}, Rows: rows},
//	})
package exporter
