// Command filecabinet-cli manages records on a filecabinet server, one
// command per invocation or interactively through the repl command.
package main

import (
	"fmt"
	"os"

	"github.com/NikitaDemidenko/FileCabinet-sub000/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
