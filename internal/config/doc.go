// Package config provides configuration management for the CNH Pulse
// dashboard. It loads configuration from multiple sources, validates it, and
// exposes a typed struct to the rest of the application.
//
// # Configuration Sources
//
// Configuration is built from the following sources, later sources winning:
//
//	1. Default values (Default)
//	2. A YAML file: CNH_CONFIG_FILE, or config.yaml / configs/config.yaml
//	3. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern CNH_<SECTION>_<KEY>:
//
//	CNH_SERVER_PORT=8080
//	CNH_DATA_SOURCE_PATH=data/condutores_habilitados.csv
//	CNH_DATA_ENCODING=iso-8859-1
//	CNH_DATA_CACHE_TTL=30m
//	CNH_SECURITY_RATE_LIMIT_RPS=50
//	CNH_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// GetPaths resolves the configured relative locations against a base
// directory:
//
//	paths, err := config.GetPaths(cfg, "")
//	out := paths.ExportPath("enriched.csv")
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
