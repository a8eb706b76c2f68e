package main

import (
	"fmt"
	"os"
	path "path/filepath"
	"strings"

	"golang.org/x/lint"
)

// runLint walks the module's own Go source files, excluding the read-only
// _examples corpus, and runs golang.org/x/lint's Linter over each one
// in-process rather than shelling out to a golangci-lint binary.
func runLint() error {
	var files []string

	err := path.Walk(".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") || info.Name() == "vendor" {
				return path.SkipDir
			}

			return nil
		}

		if strings.HasSuffix(p, ".go") {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("devtool: walk: %w", err)
	}

	var linter lint.Linter

	var problems int

	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("devtool: read %s: %w", f, err)
		}

		ps, err := linter.Lint(f, src)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", f, err)
			continue
		}

		for _, p := range ps {
			fmt.Printf("%s:%d: %s\n", f, p.Position.Line, p.Text)
			problems++
		}
	}

	fmt.Printf("devtool: lint: %d file(s), %d problem(s)\n", len(files), problems)

	return nil
}
