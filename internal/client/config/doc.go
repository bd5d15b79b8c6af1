// Package config loads runtime configuration for the flashdeck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), FLASHDECK_* prefixed.
//  4. Command-line flags (see parseFlags), which override everything.
//
// Supported flags
//
//	-a string      base URL of the backend API
//	-t int         HTTP timeout (seconds)
//	-token string  access token to restore the session
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "10s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://localhost:5001",
//	  "http_timeout": "10s",
//	  "access_token": ""
//	}
package config
