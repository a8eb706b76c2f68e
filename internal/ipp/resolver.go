package ipp

// resolver.go implements the operand resolver (spec.md §4.3): resolveDest
// turns operand 0 of an instruction into its destination slot, and
// resolveSource turns one source operand into a Value, checked against a
// Mask over acceptable kinds and a takeType flag that lets an
// uninitialized variable through. Centralizing the type checks here keeps every
// opcode body a thin expression on already-validated values, the same
// division of labor the teacher draws between vm.Instruction's decoding
// helpers and each operation's Execute method.

import (
	"fmt"
	"strings"
)

// varRef is a parsed "<frame>@<name>" variable reference.
type varRef struct {
	frame FrameKind
	name  string
}

func parseVarRef(text string) (varRef, error) {
	parts := strings.SplitN(text, "@", 2)
	if len(parts) != 2 {
		return varRef{}, &InvalidTypeError{fmt.Sprintf("malformed variable reference: %q", text)}
	}

	var kind FrameKind

	switch parts[0] {
	case "GF":
		kind = Global
	case "LF":
		kind = Local
	case "TF":
		kind = Temporary
	default:
		return varRef{}, &InvalidTypeError{fmt.Sprintf("malformed variable reference: %q", text)}
	}

	return varRef{frame: kind, name: parts[1]}, nil
}

// frame resolves a FrameKind to the live Frame it currently names.
func (e *Engine) frame(kind FrameKind) (*Frame, error) {
	switch kind {
	case Global:
		return e.global, nil
	case Temporary:
		if e.temp == nil {
			return nil, &FrameNotFoundError{"temporary frame does not exist"}
		}

		return e.temp, nil
	case Local:
		f, ok := e.frames.top()
		if !ok {
			return nil, &FrameNotFoundError{"local frame stack is empty"}
		}

		return f, nil
	default:
		return nil, &FrameNotFoundError{"unknown frame"}
	}
}

// slotFor resolves a variable operand to its backing Slot.
func (e *Engine) slotFor(text string) (*Slot, error) {
	ref, err := parseVarRef(text)
	if err != nil {
		return nil, err
	}

	f, err := e.frame(ref.frame)
	if err != nil {
		return nil, err
	}

	return f.Lookup(ref.name)
}

// literalValue parses a non-var operand according to its declared kind. Program
// literals are parsed strictly: a malformed int/float/type literal is an
// ErrInvalidStructure, since these are fixed at load time, not user input.
func literalValue(op Operand) (Value, error) {
	switch op.Kind {
	case LiteralNil:
		return Nil, nil
	case LiteralInt:
		i, err := ParseInt(op.Text)
		if err != nil {
			return Value{}, &InvalidStructureError{err.Error()}
		}

		return NewInt(i), nil
	case LiteralFloat:
		f, err := ParseFloat(op.Text)
		if err != nil {
			return Value{}, &InvalidStructureError{err.Error()}
		}

		return NewFloat(f), nil
	case LiteralBool:
		return NewBool(ParseBool(op.Text)), nil
	case LiteralString:
		return NewString(ParseString(op.Text)), nil
	case LiteralType:
		t, err := ParseTypeToken(op.Text)
		if err != nil {
			return Value{}, &InvalidStructureError{err.Error()}
		}

		return NewType(t), nil
	case LiteralLabel:
		return NewString(op.Text), nil
	default:
		return Value{}, &InvalidTypeError{fmt.Sprintf("unexpected operand kind: %s", op.Kind)}
	}
}

// literalKindAsValueKind maps a literal's declared kind to the Value Kind it
// produces, for mask checking. label/var have no Value-kind equivalent and
// are handled by their own call sites.
func literalKindAsValueKind(lk LiteralKind) (Kind, bool) {
	switch lk {
	case LiteralNil:
		return KindNil, true
	case LiteralInt:
		return KindInt, true
	case LiteralFloat:
		return KindFloat, true
	case LiteralBool:
		return KindBool, true
	case LiteralString:
		return KindString, true
	case LiteralType:
		return KindType, true
	default:
		return 0, false
	}
}

// resolveDest resolves operand 0 as a destination slot, requiring it to be
// a var (else ErrInvalidType, per §4.3's "operand 0 must be of kind var").
// Every two- and three-operand opcode that writes a result uses this for
// operand 0 and resolveSource for the remaining operands, which keeps each
// opcode body in ops_*.go a thin expression over already-validated values.
func (e *Engine) resolveDest(ins *Instruction) (*Slot, error) {
	if len(ins.Operands) == 0 || ins.Operands[0].Kind != LiteralVar {
		return nil, &InvalidTypeError{"expected a variable destination operand"}
	}

	return e.slotFor(ins.Operands[0].Text)
}

// resolveSource resolves one source operand (var or literal) against mask.
func (e *Engine) resolveSource(op Operand, mask Mask, takeType bool) (Value, error) {
	if op.Kind == LiteralVar {
		slot, err := e.slotFor(op.Text)
		if err != nil {
			return Value{}, err
		}

		if !slot.Initialized() {
			if takeType {
				return Value{kind: kindUninitialized}, nil
			}

			return Value{}, &MissingValueError{fmt.Sprintf("uninitialized variable: %s", op.Text)}
		}

		v := slot.Get()
		if !mask.has(v.Kind()) {
			return Value{}, &InvalidTypeError{fmt.Sprintf("unexpected type %s", v.Kind())}
		}

		return v, nil
	}

	vk, ok := literalKindAsValueKind(op.Kind)
	if !ok {
		return Value{}, &InvalidTypeError{fmt.Sprintf("unexpected operand kind: %s", op.Kind)}
	}

	if !mask.has(vk) {
		return Value{}, &InvalidTypeError{fmt.Sprintf("unexpected type %s", vk)}
	}

	return literalValue(op)
}

// label resolves a label operand to its instruction index.
func (e *Engine) label(op Operand) (int, error) {
	idx, ok := e.program.Labels[op.Text]
	if !ok {
		return 0, &SemanticError{fmt.Sprintf("undefined label: %s", op.Text)}
	}

	return idx, nil
}
