// Package config loads runtime configuration for the postdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables with the POSTDESK_ prefix.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the content API
//	-t int      request timeout (seconds)
//	-d string   path of the session database
//	-r float    outbound requests per second (0 = unlimited)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "session_db": "session.db",
//	  "requests_per_second": 10,
//	  "log_level": "info"
//	}
//
// # Environment
//
//	POSTDESK_API_BASE_URL, POSTDESK_REQUEST_TIMEOUT (e.g. "5s"),
//	POSTDESK_SESSION_DB, POSTDESK_REQUESTS_PER_SECOND, POSTDESK_LOG_LEVEL
package config
