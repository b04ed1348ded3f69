// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. Environment
// variables use the TASKAPI_ prefix with nested keys joined by underscores,
// e.g. TASKAPI_DATABASE_URL or TASKAPI_CACHE_BACKEND.
package config
