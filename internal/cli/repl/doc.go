// Package repl runs filecabinet-cli commands interactively.
//
// Each input line is split into arguments (single and double quotes group
// words) and handed to an Executor, normally the CLI app itself. A line
// ending in "?" lists the commands that start with the text before it.
package repl
