// Package command defines the filecabinet-cli commands on urfave/cli/v2.
//
// Every command talks to a running server over HTTP through
// internal/cli/connection and renders results with internal/cli/output.
// The repl command re-enters the same App for each line it reads.
package command
