// Package config provides 12-factor configuration management for the
// Mr. Timely backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional YAML file can overlay the environment for development setups.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Session: Storage directory, auto-save cadence, recovery window
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - SESSION_STORAGE_DIR, SESSION_SAVE_INTERVAL, SESSION_MAX_RECOVERY_AGE
//   - SESSION_POLL_INTERVAL, SESSION_COMPRESS, SESSION_AUTOSAVE_ON_CHANGE
package config
