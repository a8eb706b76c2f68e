package ipp

// ops_datastack.go implements PUSHS, POPS, and CLEARS (§4.4): the data
// stack primitives every *S arithmetic/comparison/logical/conversion
// opcode builds on.

func init() {
	register(OpPushs, execPushs)
	register(OpPops, execPops)
	register(OpClears, execClears)
}

func execPushs(e *Engine, ins *Instruction) error {
	v, err := e.resolveSource(ins.Operands[0], MaskAny, true)
	if err != nil {
		return err
	}

	if v.Kind() == kindUninitialized {
		return &MissingValueError{"PUSHS: source variable is uninitialized"}
	}

	e.pushData(v)

	return nil
}

func execPops(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.popData()
	if err != nil {
		return err
	}

	dest.Set(v)

	return nil
}

func execClears(e *Engine, ins *Instruction) error {
	e.data = e.data[:0]
	return nil
}
