// Command repliprop runs the replicated-property scenario CLI.
package main

import (
	"os"

	"github.com/hollis-tate/repliprop/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
