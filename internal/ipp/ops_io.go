package ipp

// ops_io.go implements READ, WRITE, DPRINT, and BREAK (§4.4). These are the
// only opcodes that touch the engine's LineReader/io.Writer boundary; every
// other opcode operates purely on frames and stacks.

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vutfit/ipp23/internal/ioadapter"
)

func init() {
	register(OpRead, execRead)
	register(OpWrite, execWrite)
	register(OpDprint, execDprint)
	register(OpBreak, execBreak)
}

// execRead implements READ var type: a malformed or absent line yields Nil
// rather than an error, matching the original language's READ semantics —
// a program must check for nil itself rather than have the interpreter
// abort on bad input.
func execRead(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	typeOp := ins.Operands[1]
	if typeOp.Kind != LiteralType {
		return &InvalidTypeError{"READ: second operand must be a type literal"}
	}

	want, err := ParseTypeToken(typeOp.Text)
	if err != nil {
		return &InvalidStructureError{err.Error()}
	}

	line, err := e.input.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			dest.Set(Nil)
			return nil
		}

		return &CantOpenFileError{fmt.Sprintf("READ: %s", err)}
	}

	v, err := parseReadValue(want, line)
	if err != nil {
		dest.Set(Nil)
		return nil
	}

	dest.Set(v)

	return nil
}

func parseReadValue(kind Kind, text string) (Value, error) {
	switch kind {
	case KindInt:
		i, err := ParseInt(text)
		if err != nil {
			return Value{}, err
		}

		return NewInt(i), nil
	case KindFloat:
		f, err := ParseFloat(text)
		if err != nil {
			return Value{}, err
		}

		return NewFloat(f), nil
	case KindBool:
		return NewBool(ParseBool(text)), nil
	case KindString:
		return NewString(text), nil
	default:
		return Value{}, &ErrMalformedLiteral{Kind: kind, Text: text}
	}
}

func execWrite(e *Engine, ins *Instruction) error {
	v, err := e.resolveSource(ins.Operands[0], MaskAny, false)
	if err != nil {
		return err
	}

	if _, err := io.WriteString(e.out, Format(v)); err != nil {
		return &CantWriteFileError{fmt.Sprintf("WRITE: %s", err)}
	}

	return nil
}

// execDprint writes to the engine's diagnostic stream, unconditionally,
// regardless of the run's exit status.
func execDprint(e *Engine, ins *Instruction) error {
	v, err := e.resolveSource(ins.Operands[0], MaskAny, false)
	if err != nil {
		return err
	}

	fmt.Fprint(e.errOut, Format(v))

	return nil
}

// execBreak reports the engine's current position and the contents of every
// live frame to the diagnostic stream, the interactive debugging aid §4.4
// describes. Each slot line is truncated to the diagnostic stream's terminal
// width when it is one (80 columns otherwise), so a BREAK dropped into an
// interactive debugging session doesn't wrap the way an unbounded Fprintf would.
func execBreak(e *Engine, ins *Instruction) error {
	width := ioadapter.TerminalWidth(errFd(e))

	fmt.Fprintf(e.errOut, "BREAK at instruction %d (order %d): calls=%d data=%d locals=%d\n",
		e.cursor, ins.Order, len(e.calls), len(e.data), e.frames.Len())

	dumpFrame(e.errOut, "GF", e.global, width)

	if lf, ok := e.frames.top(); ok {
		dumpFrame(e.errOut, "LF", lf, width)
	}

	if e.temp != nil {
		dumpFrame(e.errOut, "TF", e.temp, width)
	}

	return nil
}

// dumpFrame writes one "name value type" line per slot in f, sorted by
// name, truncating each line to width columns when width is positive.
func dumpFrame(w io.Writer, label string, f *Frame, width int) {
	fmt.Fprintf(w, "%s:\n", label)

	for _, name := range f.Slots() {
		slot, err := f.Lookup(name)
		if err != nil {
			continue
		}

		line := fmt.Sprintf("  %s <uninitialized>", name)
		if slot.Initialized() {
			v := slot.Get()
			line = fmt.Sprintf("  %s %s %s", name, Format(v), v.Kind())
		}

		if width > 0 && len(line) > width {
			line = line[:width]
		}

		fmt.Fprintln(w, line)
	}
}

// errFd reports the file descriptor backing the engine's diagnostic stream,
// or -1 when it isn't a file (e.g. a test's bytes.Buffer); TerminalWidth
// treats -1 the same as any other non-terminal descriptor.
func errFd(e *Engine) int {
	f, ok := e.errOut.(*os.File)
	if !ok {
		return -1
	}

	return int(f.Fd())
}
