package ipp

// ops_frame.go implements the frame/variable family: CREATEFRAME,
// PUSHFRAME, POPFRAME, DEFVAR, MOVE.

func init() {
	register(OpCreateFrame, execCreateFrame)
	register(OpPushFrame, execPushFrame)
	register(OpPopFrame, execPopFrame)
	register(OpDefVar, execDefVar)
	register(OpMove, execMove)
}

func execCreateFrame(e *Engine, ins *Instruction) error {
	e.temp = NewFrame()
	return nil
}

func execPushFrame(e *Engine, ins *Instruction) error {
	if e.temp == nil {
		return &FrameNotFoundError{"PUSHFRAME: temporary frame does not exist"}
	}

	e.frames.push(e.temp)
	e.temp = nil

	return nil
}

func execPopFrame(e *Engine, ins *Instruction) error {
	f, ok := e.frames.pop()
	if !ok {
		return &FrameNotFoundError{"POPFRAME: local frame stack is empty"}
	}

	e.temp = f

	return nil
}

func execDefVar(e *Engine, ins *Instruction) error {
	if ins.Operands[0].Kind != LiteralVar {
		return &InvalidTypeError{"DEFVAR: operand must be a variable"}
	}

	ref, err := parseVarRef(ins.Operands[0].Text)
	if err != nil {
		return err
	}

	f, err := e.frame(ref.frame)
	if err != nil {
		return err
	}

	return f.Declare(ref.name)
}

func execMove(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], MaskAny, true)
	if err != nil {
		return err
	}

	if v.Kind() == kindUninitialized {
		return &MissingValueError{"MOVE: source variable is uninitialized"}
	}

	dest.Set(v)

	return nil
}
