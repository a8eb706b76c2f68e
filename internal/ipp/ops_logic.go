package ipp

// ops_logic.go implements AND, OR, NOT and their stack variants (§4.4),
// all strictly bool-typed.

func init() {
	register(OpAnd, execAnd)
	register(OpOr, execOr)
	register(OpNot, execNot)
	register(OpAnds, execAnds)
	register(OpOrs, execOrs)
	register(OpNots, execNots)
}

func execAnd(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskBool)
	if err != nil {
		return err
	}

	dest.Set(NewBool(a.Bool() && b.Bool()))

	return nil
}

func execOr(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskBool)
	if err != nil {
		return err
	}

	dest.Set(NewBool(a.Bool() || b.Bool()))

	return nil
}

func execNot(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], MaskBool, false)
	if err != nil {
		return err
	}

	dest.Set(NewBool(!v.Bool()))

	return nil
}

func execAnds(e *Engine, ins *Instruction) error {
	return e.stackBinary(MaskBool, func(a, b Value) (Value, error) { return NewBool(a.Bool() && b.Bool()), nil })
}

func execOrs(e *Engine, ins *Instruction) error {
	return e.stackBinary(MaskBool, func(a, b Value) (Value, error) { return NewBool(a.Bool() || b.Bool()), nil })
}

func execNots(e *Engine, ins *Instruction) error {
	v, err := e.popData()
	if err != nil {
		return err
	}

	if !MaskBool.has(v.Kind()) {
		return &InvalidTypeError{"NOTS: operand is not a bool"}
	}

	e.pushData(NewBool(!v.Bool()))

	return nil
}
