// Package devtool defines small development scripts, the way the teacher's
// internal/tool package replaces rote commands with tasks: think of them as
// executable screenplays. Unlike the teacher's version, which shells out to
// golangci-lint and docker, these tasks call golang.org/x/lint and
// golang.org/x/tools as libraries; both are module dependencies listed in
// go.mod, imported only by this tool and not by the interpreter.
package main

import (
	"fmt"
	"log"
	"os"
	path "path/filepath"
)

var usage = `go run internal/devtool <COMMAND>

Commands:

- lint      check style with golang.org/x/lint, in-process
- opcodes   verify every cataloged opcode has a registered handler
`

func main() {
	args := os.Args

	if err := projectWorkingDirectory(); err != nil {
		log.Fatal(err)
	}

	switch {
	case len(args) == 2 && args[1] == "lint":
		if err := runLint(); err != nil {
			log.Fatal(err)
		}
	case len(args) == 2 && args[1] == "opcodes":
		if err := runOpcodeCheck(); err != nil {
			log.Fatal(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
		os.Exit(2)
	}
}

// projectWorkingDirectory finds the project directory and changes to it.
// The project directory is the working directory or its ancestor with a
// go.mod file.
func projectWorkingDirectory() error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}

	for {
		file := path.Join(dir, "go.mod")

		if _, err := os.Stat(file); err == nil {
			break
		} else if os.IsNotExist(err) {
			parent := path.Dir(dir)
			if parent == dir {
				return fmt.Errorf("devtool: go.mod not found above %s", dir)
			}

			dir = parent
		} else {
			return err
		}
	}

	return os.Chdir(dir)
}
