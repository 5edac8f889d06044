// Package config holds the CLI's own settings file (~/.filecabinet/cli.yaml):
// the default server, default output format, named server aliases and the
// REPL history location.
package config
