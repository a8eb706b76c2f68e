package ipp

// ops_control.go implements the control-transfer family: LABEL (a no-op at
// run time; the loader already indexed it), JUMP, the four conditional
// jumps, CALL/RETURN, and EXIT.

import "fmt"

func init() {
	register(OpLabel, execLabel)
	register(OpJump, execJump)
	register(OpJumpIfEq, execJumpIfEq)
	register(OpJumpIfNeq, execJumpIfNeq)
	register(OpJumpIfEqs, execJumpIfEqs)
	register(OpJumpIfNeqs, execJumpIfNeqs)
	register(OpCall, execCall)
	register(OpReturn, execReturn)
	register(OpExit, execExit)
}

func execLabel(e *Engine, ins *Instruction) error {
	return nil
}

func execJump(e *Engine, ins *Instruction) error {
	idx, err := e.label(ins.Operands[0])
	if err != nil {
		return err
	}

	e.jumpTo(idx)

	return nil
}

// jumpCompare resolves the two comparison operands, sharing one mask-free
// equality rule: any two values of the same kind compare by kind-specific
// equality, and nil compares equal only to nil. Operands of differing,
// non-nil kinds are an ErrInvalidType, per §4.4's JUMPIFEQ/JUMPIFNEQ rule.
func jumpCompare(e *Engine, a, b Operand) (bool, error) {
	va, err := e.resolveSource(a, MaskComparableNil, false)
	if err != nil {
		return false, err
	}

	vb, err := e.resolveSource(b, MaskComparableNil, false)
	if err != nil {
		return false, err
	}

	if va.Kind() == KindNil || vb.Kind() == KindNil {
		return va.Kind() == vb.Kind(), nil
	}

	if va.Kind() != vb.Kind() {
		return false, &InvalidTypeError{fmt.Sprintf("JUMPIFEQ/JUMPIFNEQ: mismatched operand types %s and %s", va.Kind(), vb.Kind())}
	}

	return valuesEqual(va, vb), nil
}

func execJumpIfEq(e *Engine, ins *Instruction) error {
	eq, err := jumpCompare(e, ins.Operands[1], ins.Operands[2])
	if err != nil {
		return err
	}

	if eq {
		idx, err := e.label(ins.Operands[0])
		if err != nil {
			return err
		}

		e.jumpTo(idx)
	}

	return nil
}

func execJumpIfNeq(e *Engine, ins *Instruction) error {
	eq, err := jumpCompare(e, ins.Operands[1], ins.Operands[2])
	if err != nil {
		return err
	}

	if !eq {
		idx, err := e.label(ins.Operands[0])
		if err != nil {
			return err
		}

		e.jumpTo(idx)
	}

	return nil
}

// stackJumpCompare is JUMPIFEQ/JUMPIFNEQ's data-stack form: pop two values,
// compare, push nothing, and only the label operand is read from the
// instruction itself.
func stackJumpCompare(e *Engine) (bool, error) {
	b, err := e.popData()
	if err != nil {
		return false, err
	}

	a, err := e.popData()
	if err != nil {
		return false, err
	}

	if a.Kind() == KindNil || b.Kind() == KindNil {
		return a.Kind() == b.Kind(), nil
	}

	if a.Kind() != b.Kind() {
		return false, &InvalidTypeError{fmt.Sprintf("JUMPIFEQS/JUMPIFNEQS: mismatched operand types %s and %s", a.Kind(), b.Kind())}
	}

	return valuesEqual(a, b), nil
}

func execJumpIfEqs(e *Engine, ins *Instruction) error {
	eq, err := stackJumpCompare(e)
	if err != nil {
		return err
	}

	if eq {
		idx, err := e.label(ins.Operands[0])
		if err != nil {
			return err
		}

		e.jumpTo(idx)
	}

	return nil
}

func execJumpIfNeqs(e *Engine, ins *Instruction) error {
	eq, err := stackJumpCompare(e)
	if err != nil {
		return err
	}

	if !eq {
		idx, err := e.label(ins.Operands[0])
		if err != nil {
			return err
		}

		e.jumpTo(idx)
	}

	return nil
}

func execCall(e *Engine, ins *Instruction) error {
	idx, err := e.label(ins.Operands[0])
	if err != nil {
		return err
	}

	e.calls = append(e.calls, e.cursor+1)
	e.jumpTo(idx)

	return nil
}

func execReturn(e *Engine, ins *Instruction) error {
	if len(e.calls) == 0 {
		return &MissingValueError{"RETURN: call stack is empty"}
	}

	ret := e.calls[len(e.calls)-1]
	e.calls = e.calls[:len(e.calls)-1]
	e.jumpTo(ret)

	return nil
}

func execExit(e *Engine, ins *Instruction) error {
	v, err := e.resolveSource(ins.Operands[0], MaskInt, false)
	if err != nil {
		return err
	}

	if v.Int() < 0 || v.Int() > 49 {
		return &InvalidValueError{fmt.Sprintf("EXIT: code out of range: %d", v.Int())}
	}

	e.halt(ExitCode(v.Int()))

	return nil
}
