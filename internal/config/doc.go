// Package config handles configuration loading for coven-throttle.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Missing values fall back to Default().
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from COVEN_THROTTLE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/coven/throttle.yaml
//  3. ~/.config/coven/throttle.yaml
//
// Files ending in .toml are decoded as TOML; anything else is YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	audit:
//	  path: "${COVEN_THROTTLE_DB}"
//
// # Configuration Sections
//
// Throttle windows use Go's time.ParseDuration syntax:
//
//	throttle:
//	  request_throttle: "10s"   # identical requests inside this window are skipped
//	  freshness_cutoff: "5m"    # successes inside this window count as fresh
//	  ignored_prefixes: ["UI_"] # types the tracking hook never logs
//
// Decision audit trail:
//
//	audit:
//	  enabled: true
//	  path: "/var/lib/coven/throttle.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.Load("/etc/coven/throttle.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
