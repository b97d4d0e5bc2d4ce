// Package config loads Kitchen's startup configuration.
//
// # Resolution
//
// Load reads a TOML file, by default ~/.config/kitchen/config.toml. A missing
// file is not an error: every field has a default, and blank or non-positive
// values fall back to it as well.
//
// Before reading the file, Load lets godotenv pick up an optional .env from
// the working directory. The build mode is then taken from, in order:
//
//  1. the KITCHEN_ENV environment variable
//  2. the env key in the config file
//  3. prod
//
// An unknown build mode is an error. Callers that accept a command-line
// override (cmd/kitchen -env) apply it after Load.
//
// # Fields
//
//	env = "prod"             # dev | prod
//	refresh_seconds = 60     # background refresh interval
//	stale_seconds = 30       # how long fetched data counts as fresh
//	log_file = "~/.local/state/kitchen/kitchen.log"
//	log_level = "info"       # debug | info | warn | error
//
// Tilde paths are expanded and relative paths are made absolute.
//
// # Endpoints
//
// APIEndpoint maps the build mode to a base URL through api.Endpoint. Both
// dev and prod currently point at https://dummyjson.com/recipes.
package config
