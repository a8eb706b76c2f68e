package ipp

// engine.go defines the engine state (spec.md §3's "Engine state") and the
// instruction cursor loop, in the shape of the teacher's internal/vm/exec.go
// Run/Step/Decode: fetch the current instruction, dispatch it to its
// handler, and advance the cursor unless the handler already moved it.

import (
	"fmt"
	"io"

	"github.com/vutfit/ipp23/internal/log"
)

// Engine holds every piece of mutable state a running program touches:
// the instruction vector and label table, the three frame roles, the
// frame/call/data stacks, the cursor, and the I/O streams. It is the
// single mutable-by-reference value spec.md §9 calls for in place of
// module-level globals.
type Engine struct {
	program *Program

	global *Frame
	temp   *Frame
	frames FrameStack

	calls []int
	data  []Value

	cursor int
	jumped bool
	halted bool
	exit   ExitCode

	input  LineReader
	out    io.Writer
	errOut io.Writer

	log *log.Logger
}

// LineReader is the minimal input source contract READ depends on: one
// line at a time, with io.EOF signaling end of stream. The concrete
// adapter (internal/ioadapter) implements this over a file or an
// interactive terminal.
type LineReader interface {
	ReadLine() (string, error)
}

// NewEngine creates an engine ready to run program, reading READ input from
// input and writing WRITE/DPRINT/BREAK output to out/errOut.
func NewEngine(program *Program, input LineReader, out, errOut io.Writer, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	return &Engine{
		program: program,
		global:  NewFrame(),
		input:   input,
		out:     out,
		errOut:  errOut,
		log:     logger,
	}
}

// haltError is an error value whose message is "halted". Run does not use
// it: EXIT stops Run's loop through the halted flag that halt sets.
type haltError struct{}

func (haltError) Error() string { return "halted" }

// Run executes the loaded program until the cursor steps past the last
// instruction or EXIT runs. It returns the process exit code and, for a
// failed run, the error that produced it together with the exit code
// Diagnose maps that error to.
func (e *Engine) Run() (ExitCode, error) {
	e.log.Info("START", "instructions", len(e.program.Instrs))

	for e.cursor < len(e.program.Instrs) && !e.halted {
		ins := &e.program.Instrs[e.cursor]

		e.log.Debug("step", "index", e.cursor, "opcode", ins.Opcode)

		e.jumped = false

		if err := e.dispatch(ins); err != nil {
			e.log.Error("halted", "index", e.cursor, "opcode", ins.Opcode, "err", err)
			return diagnoseExit(err), err
		}

		if e.halted {
			break
		}

		// A control-transfer opcode already overwrote e.cursor via jumpTo;
		// only advance by one if it didn't, so a jump to the instruction
		// immediately following itself isn't mistaken for no jump at all.
		if !e.jumped {
			e.cursor++
		}
	}

	e.log.Info("HALTED", "exit", e.exit)

	return e.exit, nil
}

func diagnoseExit(err error) ExitCode {
	code, _ := Diagnose(err)
	return code
}

// dispatch routes an instruction to its opcode handler. Unlike the
// teacher's per-operation structs staged across Decode/EvalAddress/
// FetchOperands/Execute/Writeback — a shape driven by the LC-3's fixed
// binary instruction encoding and memory-mapped addressing — IPPcode23's
// instructions are already a decoded tree with a handful of operand
// shapes, so one function per opcode plays the role of Execute alone.
func (e *Engine) dispatch(ins *Instruction) error {
	h, ok := handlers[ins.Opcode]
	if !ok {
		return &InvalidStructureError{fmt.Sprintf("no handler registered for opcode %s", ins.Opcode)}
	}

	return h(e, ins)
}

// handler is the signature every opcode implementation satisfies.
type handler func(e *Engine, ins *Instruction) error

// handlers is the dispatch table, populated by the per-family init()
// functions in ops_*.go — the generalization of the teacher's opcode
// switch in internal/vm/exec.go's Decode.
var handlers = map[Opcode]handler{}

func register(op Opcode, h handler) {
	handlers[op] = h
}

// jumpTo overwrites the cursor, used by every control-transfer opcode.
func (e *Engine) jumpTo(index int) {
	e.cursor = index
	e.jumped = true
}

// halt stops the run loop with the given exit code, used by EXIT.
func (e *Engine) halt(code ExitCode) {
	e.halted = true
	e.exit = code
}

// pushData and popData implement the data stack PUSHS/POPS and every *S
// opcode variant operate on (§4.4).
func (e *Engine) pushData(v Value) {
	e.data = append(e.data, v)
}

func (e *Engine) popData() (Value, error) {
	if len(e.data) == 0 {
		return Value{}, &MissingValueError{"data stack is empty"}
	}

	v := e.data[len(e.data)-1]
	e.data = e.data[:len(e.data)-1]

	return v, nil
}

// valuesEqual compares two Values of the same, already-checked kind.
func valuesEqual(a, b Value) bool {
	switch a.Kind() {
	case KindNil:
		return true
	case KindBool:
		return a.Bool() == b.Bool()
	case KindInt:
		return a.Int() == b.Int()
	case KindFloat:
		return a.Float() == b.Float()
	case KindString:
		return a.String() == b.String()
	case KindType:
		return a.Type() == b.Type()
	default:
		return false
	}
}
