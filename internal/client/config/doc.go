// Package config loads runtime configuration for the BookExpert CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with --config / -c.
//  3. Command-line flags set explicitly, which override earlier values.
//
// Flags are pflag flags so that they can be registered as persistent flags
// on the cobra root command (see RegisterFlags).
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds. Keys missing from the file keep their default:
//
//	{
//	  "objects_endpoint": "https://api.restful-api.dev/objects",
//	  "database_dsn": "bookexpert.db",
//	  "request_timeout": "10s",
//	  "persistence_policy": "surface",
//	  "refresh_policy": "reconcile",
//	  "auto_refresh_interval": "1m",
//	  "log_backend": "zap",
//	  "blob": {"backend": "minio", "endpoint": "localhost:9000", "bucket": "images"}
//	}
package config
