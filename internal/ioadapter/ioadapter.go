// Package ioadapter is the thin boundary between the engine's READ opcode
// and the operating system: a line-oriented source over either a plain
// file or an interactive terminal. It plays the same role the teacher's
// internal/tty package plays for the machine's keyboard device, adapted
// from asynchronous byte-at-a-time delivery to the engine's synchronous,
// one-line-per-READ contract.
package ioadapter

import (
	"bufio"
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Source reads successive lines of interpreter input, the concrete
// implementation of ipp.LineReader.
type Source struct {
	scanner  *bufio.Scanner
	terminal *term.Terminal
}

// Open builds a Source over r. When r is *os.File and names an interactive
// terminal (term.IsTerminal), lines are read through a term.Terminal so
// that basic line editing works; otherwise r is scanned line by line the
// way a redirected file or pipe would be.
func Open(r io.Reader) *Source {
	if f, ok := r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return &Source{terminal: term.NewTerminal(f, "")}
	}

	return &Source{scanner: bufio.NewScanner(r)}
}

// OpenFile opens path and wraps it in a Source; the caller owns closing
// the returned file via the second return value once finished.
func OpenFile(path string) (*Source, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return Open(f), f, nil
}

// ReadLine returns the next line of input, without its trailing newline.
// It returns io.EOF once input is exhausted, matching the contract READ
// relies on to produce a nil value rather than abort the program.
func (s *Source) ReadLine() (string, error) {
	if s.terminal != nil {
		line, err := s.terminal.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}

			return "", err
		}

		return line, nil
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return s.scanner.Text(), nil
}

// TerminalWidth reports the current width of fd if it is a terminal,
// falling back to 80 columns otherwise. BREAK uses this to truncate its frame
// dump lines to the debugging terminal's actual width instead of an arbitrary
// fixed column count.
func TerminalWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return 80
	}

	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 {
		return 80
	}

	return int(ws.Col)
}
