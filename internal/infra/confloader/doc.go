// Package confloader loads layered configuration and watches it for changes.
//
// Sources are merged with koanf, later sources overriding earlier ones:
//
//  1. Defaults (the values already present in the target struct)
//  2. YAML configuration file
//  3. Environment variables (FILECABINET_ prefix)
//  4. Explicit maps, typically built from command-line flags
//
// Environment variables nest with a double underscore so that keys which
// themselves contain underscores survive the mapping:
//
//	FILECABINET_SERVER__HTTP__RATE_LIMIT=50  ->  server.http.rate_limit
//
// Watcher reports edits to the configuration file so the server can swap
// its validation profile without a restart.
package confloader
