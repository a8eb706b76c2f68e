package ipp

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// stringLines is a LineReader over a fixed list of lines, the test double
// for an ioadapter.Source.
type stringLines struct {
	lines []string
	pos   int
}

func (s *stringLines) ReadLine() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}

	line := s.lines[s.pos]
	s.pos++

	return line, nil
}

func mustLoad(t *testing.T, instrs []RawInstruction) *Program {
	t.Helper()

	program, err := NewLoader(nil).Load(&ProgramTree{Language: "ippcode23", Instrs: instrs})
	if err != nil {
		t.Fatalf("Load(): unexpected error: %s", err)
	}

	return program
}

func varOp(text string) Operand    { return Operand{Kind: LiteralVar, Text: text} }
func intOp(text string) Operand    { return Operand{Kind: LiteralInt, Text: text} }
func strOp(text string) Operand    { return Operand{Kind: LiteralString, Text: text} }
func labelOp(text string) Operand  { return Operand{Kind: LiteralLabel, Text: text} }
func typeOp(text string) Operand   { return Operand{Kind: LiteralType, Text: text} }

func TestEngineHelloWorld(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "WRITE", Operands: []Operand{strOp("hello, world")}},
	})

	var out bytes.Buffer

	engine := NewEngine(program, &stringLines{}, &out, io.Discard, nil)

	exit, err := engine.Run()
	if err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	if exit != ExitSuccess {
		t.Errorf("exit = %d, want ExitSuccess", exit)
	}

	if out.String() != "hello, world" {
		t.Errorf("output = %q, want %q", out.String(), "hello, world")
	}
}

func TestEngineEscapeDecoding(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "WRITE", Operands: []Operand{strOp("a\\032b")}},
	})

	var out bytes.Buffer

	engine := NewEngine(program, &stringLines{}, &out, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	if out.String() != "a b" {
		t.Errorf("output = %q, want %q", out.String(), "a b")
	}
}

func TestEngineUninitializedRead(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: "WRITE", Operands: []Operand{varOp("GF@x")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	_, err := engine.Run()
	if !errors.Is(err, ErrMissingValue) {
		t.Errorf("want ErrMissingValue, got %v", err)
	}
}

func TestEngineDivisionByZero(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@r")}},
		{Order: 2, Opcode: "IDIV", Operands: []Operand{varOp("GF@r"), intOp("10"), intOp("0")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	_, err := engine.Run()
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("want ErrInvalidValue, got %v", err)
	}
}

func TestEngineJumpToMissingLabel(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "JUMP", Operands: []Operand{labelOp("nowhere")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	_, err := engine.Run()
	if !errors.Is(err, ErrSemantic) {
		t.Errorf("want ErrSemantic, got %v", err)
	}
}

func TestEngineStackArithmetic(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@r")}},
		{Order: 2, Opcode: "PUSHS", Operands: []Operand{intOp("3")}},
		{Order: 3, Opcode: "PUSHS", Operands: []Operand{intOp("4")}},
		{Order: 4, Opcode: "ADDS"},
		{Order: 5, Opcode: "POPS", Operands: []Operand{varOp("GF@r")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	slot, err := engine.global.Lookup("r")
	if err != nil {
		t.Fatalf("Lookup: unexpected error: %s", err)
	}

	if slot.Get().Int() != 7 {
		t.Errorf("r = %d, want 7", slot.Get().Int())
	}
}

func TestEngineFrameDiscipline(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "CREATEFRAME"},
		{Order: 2, Opcode: "PUSHFRAME"},
		{Order: 3, Opcode: "DEFVAR", Operands: []Operand{varOp("LF@x")}},
		{Order: 4, Opcode: "MOVE", Operands: []Operand{varOp("LF@x"), intOp("1")}},
		{Order: 5, Opcode: "POPFRAME"},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	if engine.frames.Len() != 0 {
		t.Errorf("local frame stack should be empty after POPFRAME, got %d", engine.frames.Len())
	}

	if engine.temp == nil {
		t.Error("POPFRAME should move the popped frame into TF")
	}
}

func TestEngineFrameDisciplineMissingFrame(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("LF@x")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	_, err := engine.Run()
	if !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("want ErrFrameNotFound, got %v", err)
	}
}

func TestEngineBadSetChar(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@s")}},
		{Order: 2, Opcode: "MOVE", Operands: []Operand{varOp("GF@s"), strOp("ab")}},
		{Order: 3, Opcode: "SETCHAR", Operands: []Operand{varOp("GF@s"), intOp("5"), strOp("x")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	_, err := engine.Run()
	if !errors.Is(err, ErrBadStringOperation) {
		t.Errorf("want ErrBadStringOperation, got %v", err)
	}
}

func TestEngineRead(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: "READ", Operands: []Operand{varOp("GF@x"), typeOp("int")}},
		{Order: 3, Opcode: "WRITE", Operands: []Operand{varOp("GF@x")}},
	})

	var out bytes.Buffer

	engine := NewEngine(program, &stringLines{lines: []string{"42"}}, &out, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	if out.String() != "42" {
		t.Errorf("output = %q, want %q", out.String(), "42")
	}
}

func TestEngineExitRange(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name   string
		code   string
		expErr error
	}{
		{name: "zero", code: "0"},
		{name: "max valid", code: "49"},
		{name: "just out of range", code: "50", expErr: ErrInvalidValue},
		{name: "negative", code: "-1", expErr: ErrInvalidValue},
	}

	for _, tc := range tcs {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			program := mustLoad(t, []RawInstruction{
				{Order: 1, Opcode: "EXIT", Operands: []Operand{intOp(tc.code)}},
			})

			engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

			exit, err := engine.Run()

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Errorf("want %v, got %v", tc.expErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run(): unexpected error: %s", err)
			}

			want, _ := ParseInt(tc.code)
			if exit != ExitCode(want) {
				t.Errorf("exit = %d, want %d", exit, want)
			}
		})
	}
}

func TestEngineIdivFloorsTowardNegativeInfinity(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@r")}},
		{Order: 2, Opcode: "IDIV", Operands: []Operand{varOp("GF@r"), intOp("-7"), intOp("2")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	slot, err := engine.global.Lookup("r")
	if err != nil {
		t.Fatalf("Lookup: unexpected error: %s", err)
	}

	if slot.Get().Int() != -4 {
		t.Errorf("-7 IDIV 2 = %d, want -4", slot.Get().Int())
	}
}

func TestEngineIdivsFloorsTowardNegativeInfinity(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@r")}},
		{Order: 2, Opcode: "PUSHS", Operands: []Operand{intOp("7")}},
		{Order: 3, Opcode: "PUSHS", Operands: []Operand{intOp("-2")}},
		{Order: 4, Opcode: "IDIVS"},
		{Order: 5, Opcode: "POPS", Operands: []Operand{varOp("GF@r")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	slot, err := engine.global.Lookup("r")
	if err != nil {
		t.Fatalf("Lookup: unexpected error: %s", err)
	}

	if slot.Get().Int() != -4 {
		t.Errorf("7 IDIVS -2 = %d, want -4", slot.Get().Int())
	}
}

func TestEngineBreakDumpsFrameContents(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: "MOVE", Operands: []Operand{varOp("GF@x"), intOp("42")}},
		{Order: 3, Opcode: "BREAK"},
	})

	var errOut bytes.Buffer

	engine := NewEngine(program, &stringLines{}, io.Discard, &errOut, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	if !bytes.Contains(errOut.Bytes(), []byte("x 42 int")) {
		t.Errorf("BREAK output = %q, want a line with \"x 42 int\"", errOut.String())
	}
}

func TestEngineDefVarRejectsNonVarOperand(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{strOp("GF@x")}},
	})

	engine := NewEngine(program, &stringLines{}, io.Discard, io.Discard, nil)

	_, err := engine.Run()
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("want ErrInvalidType, got %v", err)
	}
}

func TestEngineReadMalformedYieldsNil(t *testing.T) {
	t.Parallel()

	program := mustLoad(t, []RawInstruction{
		{Order: 1, Opcode: "DEFVAR", Operands: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: "READ", Operands: []Operand{varOp("GF@x"), typeOp("int")}},
		{Order: 3, Opcode: "WRITE", Operands: []Operand{varOp("GF@x")}},
	})

	var out bytes.Buffer

	engine := NewEngine(program, &stringLines{lines: []string{"not-a-number"}}, &out, io.Discard, nil)

	if _, err := engine.Run(); err != nil {
		t.Fatalf("Run(): unexpected error: %s", err)
	}

	if out.String() != "" {
		t.Errorf("output = %q, want empty string for nil", out.String())
	}
}
