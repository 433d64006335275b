// Package config provides centralized configuration management for the
// enrollment statistics binaries. It handles loading configuration from
// multiple sources, validation, and output path resolution.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. .env file (ENROLL_ENV_FILE, or .env in the working directory)
//	3. YAML configuration file
//	4. Default values (lowest priority)
//
// The YAML file is read from ENROLL_CONFIG_FILE when set, otherwise from
// config.yaml or configs/config.yaml in the working directory.
//
// # Environment Variables
//
// All environment variables follow the pattern ENROLL_<SECTION>_<FIELD>:
//
//	ENROLL_SERVER_PORT=8080
//	ENROLL_LOGGING_LEVEL=debug
//	ENROLL_DATASET_FORMAT=xlsx
//	ENROLL_DATASET_SOURCE_PATH=data/enrollment.xlsx
//	ENROLL_DATASET_THRESHOLD=500
//	ENROLL_TELEMETRY_ENABLE_TRACING=true
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use config.Default() which needs no environment or files.
package config
