// Package config loads runtime configuration for the Distillr CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with a .env file loaded through godotenv.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Environment
//
//	STRIPE_PUBLISHABLE_KEY_TEST, STRIPE_PUBLISHABLE_KEY_LIVE
//	IS_LIVE_ENVIRONMENT
//	REVENUECAT_API_KEY_APPLE, REVENUECAT_API_KEY_GOOGLE
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "1s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "status_poll_interval": "1s",
//	  "success_close_delay": "3s",
//	  "platform": "web",
//	  "is_live": false,
//	  "database_path": "distillr.db"
//	}
package config
