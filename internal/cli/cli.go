// Package cli contains the command-line interface.
package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/vutfit/ipp23/internal/log"
)

// Command represents a sub-command in the CLI. Each sub-command can have their own flags, config
// and action to perform.
type Command interface {
	// FlagSet returns a set of command options the command accepts.
	FlagSet() *flag.FlagSet

	// Description returns a brief description of the command's function.
	Description() string

	// Usage prints detailed command documentation.
	Usage(out io.Writer) error

	// Run executes the command with arguments. Command output should be written to |out|. It
	// returns an exit code. TODO: Should be an enum, instead of an exit code.
	Run(ctx context.Context, args []string, out io.Writer, logger *log.Logger) int
}

// Commander is a CLI command-runner that handles the life cycle of a CLI command execution.
type Commander struct {
	ctx context.Context
	log *log.Logger

	help     Command
	commands []Command
	def      Command
}

// New creates a new |Commander| that can start sub-commands.
func New(ctx context.Context) *Commander {
	return &Commander{
		ctx: ctx,
	}
}

// Execute runs a command. Unlike a multi-command CLI, this program has a
// single default command (interpret) invoked directly with flags, so a
// leading "-" or an empty argument list both go straight to it rather than
// requiring a subcommand word. A leading word that names a registered
// command still dispatches to it. The word "help" goes to the help command
// with the remaining arguments (so "help <command>" prints that command's
// help); any other unknown word prints the general help.
func (cli *Commander) Execute(args []string) int {
	found := cli.def

	if len(args) > 0 && args[0][0] != '-' {
		matched := false

		for _, cmd := range cli.commands {
			if args[0] == cmd.FlagSet().Name() {
				found, args, matched = cmd, args[1:], true
				break
			}
		}

		if !matched {
			if args[0] == cli.help.FlagSet().Name() {
				found, args = cli.help, args[1:]
			} else {
				found, args = cli.help, nil
			}
		}
	}

	fs := found.FlagSet()

	if err := fs.Parse(args); err != nil {
		cli.log.Error("parse error", "err", err)
		return 1
	}

	return found.Run(cli.ctx, fs.Args(), os.Stdout, cli.log)
}

// WithCommands adds a list of commands as sub-commands.
func (cli *Commander) WithCommands(cmds []Command) *Commander {
	cli.commands = append([]Command(nil), cmds...)
	return cli
}

// WithHelp configures the help message a command.
func (cli *Commander) WithHelp(cmd Command) *Commander {
	cli.help = cmd
	return cli
}

// WithDefault configures the command invoked when no leading word names a
// registered command — the interpret command, for a CLI that otherwise
// takes only flags.
func (cli *Commander) WithDefault(cmd Command) *Commander {
	cli.def = cmd
	return cli
}

// WithLogger configures the logger for the CLI. Logs are written to os.Stderr to leave os.Stdout
// for program output.
func (cli *Commander) WithLogger(out *os.File) *Commander {
	logger := log.NewFormattedLogger(os.Stderr)
	cli.log = logger

	log.SetDefault(logger)

	return cli
}

// Type aliases from std lib.
type (
	Flag    = flag.Flag
	FlagSet = flag.FlagSet
)
