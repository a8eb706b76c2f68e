package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/vutfit/ipp23/internal/cli"
	"github.com/vutfit/ipp23/internal/ioadapter"
	"github.com/vutfit/ipp23/internal/ipp"
	"github.com/vutfit/ipp23/internal/log"
)

// Interpret returns the interpret command: load an IPPcode23 source
// description, run it, and report the result's exit code the way a
// standalone ippcode23 binary would.
func Interpret() cli.Command {
	return &interpreter{log: log.DefaultLogger(), logLevel: slog.LevelWarn}
}

type interpreter struct {
	source   string
	input    string
	logLevel slog.Level
	help     bool

	// *Count tracks how many times each flag was given on the command
	// line; the flag package silently keeps the last value on a repeat,
	// so Run checks these itself to reject it (§6's "each flag appears at
	// most once").
	sourceCount   int
	inputCount    int
	helpCount     int
	logLevelCount int

	log *log.Logger
}

func (interpreter) Description() string {
	return "interpret an IPPcode23 program"
}

func (interpreter) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `[--source FILE] [--input FILE]

Interprets an IPPcode23 program described by an XML document.

At least one of --source and --input must be given. When --source is
omitted, the program is read from standard input; when --input is
omitted, the program's READ instructions read from standard input. The
two may not both be omitted, since both would then read from the same
stream.`)

	return err
}

func (in *interpreter) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("interpret", flag.ContinueOnError)

	fs.Func("source", "IPPcode23 source `file` (XML); defaults to stdin", func(s string) error {
		in.sourceCount++
		in.source = s

		return nil
	})
	fs.Func("input", "interpreted program's input `file`; defaults to stdin", func(s string) error {
		in.inputCount++
		in.input = s

		return nil
	})
	fs.BoolFunc("help", "print usage and exit", func(s string) error {
		in.helpCount++

		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}

		in.help = b

		return nil
	})
	fs.Func("loglevel", "set log `level`", func(s string) error {
		in.logLevelCount++
		return in.logLevel.UnmarshalText([]byte(s))
	})

	return fs
}

// validateFlags enforces the two CLI rules §6 states but flag.FlagSet
// can't: no flag may be given twice, and --help is mutually exclusive
// with --source/--input.
func (in *interpreter) validateFlags() error {
	counts := []struct {
		name  string
		count int
	}{
		{"source", in.sourceCount},
		{"input", in.inputCount},
		{"help", in.helpCount},
		{"loglevel", in.logLevelCount},
	}

	for _, c := range counts {
		if c.count > 1 {
			return &ipp.MissingParameterError{Msg: fmt.Sprintf("--%s given more than once", c.name)}
		}
	}

	if in.help && (in.source != "" || in.input != "") {
		return &ipp.MissingParameterError{Msg: "--help is mutually exclusive with --source/--input"}
	}

	return nil
}

// Run drives the full pipeline: parse XML, load the program tree,
// construct the engine, run it, and map any error to its exit code
// (§6). A usage error (neither or both of --source/--input unusable)
// is reported as ExitMissingParameter before anything is opened.
func (in *interpreter) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if err := in.validateFlags(); err != nil {
		exit, msg := ipp.Diagnose(err)
		logger.Error(msg, "exit", exit)

		return int(exit)
	}

	if in.help {
		_ = in.Usage(stdout)
		return int(ipp.ExitSuccess)
	}

	log.LogLevel.Set(in.logLevel)

	code, err := in.run(ctx, stdout)
	if err != nil {
		exit, msg := ipp.Diagnose(err)
		logger.Error(msg, "exit", exit)

		return int(exit)
	}

	return int(code)
}

func (in *interpreter) run(ctx context.Context, stdout io.Writer) (ipp.ExitCode, error) {
	src, srcFile, err := in.openSource()
	if err != nil {
		return 0, err
	}

	if srcFile != nil {
		defer srcFile.Close()
	}

	tree, err := ipp.ParseXML(src)
	if err != nil {
		return 0, err
	}

	loader := ipp.NewLoader(in.log)

	program, err := loader.Load(tree)
	if err != nil {
		return 0, err
	}

	input, inputFile, err := in.openInput()
	if err != nil {
		return 0, err
	}

	if inputFile != nil {
		defer inputFile.Close()
	}

	engine := ipp.NewEngine(program, input, stdout, os.Stderr, in.log)

	exit, err := engine.Run()
	if err != nil {
		return 0, err
	}

	return exit, nil
}

// openSource resolves --source to a readable stream: the named file, or
// stdin when --source is empty. Both --source and --input empty is a
// MissingParameterError, since the program and its input would otherwise
// collide on the same stream.
func (in *interpreter) openSource() (io.Reader, *os.File, error) {
	if in.source == "" && in.input == "" {
		return nil, nil, &ipp.MissingParameterError{
			Msg: "at least one of --source or --input is required",
		}
	}

	if in.source == "" {
		return os.Stdin, nil, nil
	}

	f, err := os.Open(in.source)
	if err != nil {
		return nil, nil, &ipp.CantOpenFileError{Msg: fmt.Sprintf("--source: %s", err)}
	}

	return f, f, nil
}

func (in *interpreter) openInput() (ipp.LineReader, *os.File, error) {
	if in.input == "" {
		return ioadapter.Open(os.Stdin), nil, nil
	}

	src, f, err := ioadapter.OpenFile(in.input)
	if err != nil {
		return nil, nil, &ipp.CantOpenFileError{Msg: fmt.Sprintf("--input: %s", err)}
	}

	return src, f, nil
}
