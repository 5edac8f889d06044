// Package tlsroots builds the trusted root set the CLI uses to reach a
// server over HTTPS: the system pool plus any private CA bundle passed
// with --ca-file.
package tlsroots
