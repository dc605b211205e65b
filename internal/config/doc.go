// Package config provides centralized configuration management for examstats.
//
// # Configuration Sources
//
// Configuration is assembled in three layers, later layers winning:
//
//	1. Default values (Default)
//	2. A YAML file (examstats.yaml, configs/examstats.yaml or $EXAMSTATS_CONFIG)
//	3. Environment variables that are set
//
// # Environment Variables
//
// Variables follow the pattern EXAMSTATS_<SECTION>_<FIELD>:
//
//	EXAMSTATS_SOURCES_QUESTIONS=data/question_config.csv
//	EXAMSTATS_SOURCES_RESPONSES=sqlite://data/exams.db?table=responses
//	EXAMSTATS_CACHE_ENABLED=false
//	EXAMSTATS_LOGGING_LEVEL=debug
//	EXAMSTATS_SERVER_PORT=9000
//
// # Source Locations
//
// Source locations are file paths (.csv, .xlsx) or URLs (sqlite://, postgres://).
// Relative file paths are resolved against paths.data_dir by Paths.ResolveSource.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
