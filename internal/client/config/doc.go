// Package config loads runtime configuration for the ORCHA CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with a .env file loaded first (see parseEnv):
//     ORCHA_API_URL, ORCHA_DB_PATH.
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the ORCHA backend
//	-d string   path of the local state database
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "database_path": "orcha.db"
//	}
package config
