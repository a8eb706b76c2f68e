// Command ippcode23 is the command-line interpreter for the IPPcode23
// intermediate language.
package main

import (
	"context"
	"os"

	"github.com/vutfit/ipp23/internal/cli"
	"github.com/vutfit/ipp23/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Interpret(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithDefault(commands[0]).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
