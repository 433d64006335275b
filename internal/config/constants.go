package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "enrollstats"
	AppVersion = "1.0.0"

	// Median over threshold default used by the report and the API
	DefaultMedianThreshold = 500

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultRequestTimeout = 30 * time.Second

	// All-schools report fan-out
	DefaultReportWorkers = 4

	// File Paths (relative to the working directory unless absolute)
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "logs/enrollstats.log"
	DefaultCLILogFile = "logs/enrollment-report.log"
	DefaultReportsDir = "data/reports"

	// Export file names
	ExportBaseName = "enrollment_report"
)
