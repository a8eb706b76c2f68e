package ipp

// ops_convert.go implements the type-conversion family: INT2CHAR,
// INT2FLOAT, FLOAT2INT, STRI2INT, and their stack variants (§4.4).

import "fmt"

func init() {
	register(OpInt2Char, execInt2Char)
	register(OpInt2Float, execInt2Float)
	register(OpFloat2Int, execFloat2Int)
	register(OpStri2Int, execStri2Int)

	register(OpInt2Chars, execInt2Chars)
	register(OpInt2Floats, execInt2Floats)
	register(OpFloat2Ints, execFloat2Ints)
	register(OpStri2Ints, execStri2Ints)
}

func int2char(i int64) (Value, error) {
	r := rune(i)
	if i < 0 || i > 0x10FFFF || !validRune(r) {
		return Value{}, &BadStringOperationError{fmt.Sprintf("INT2CHAR: invalid Unicode value: %d", i)}
	}

	return NewString(string(r)), nil
}

func validRune(r rune) bool {
	return r >= 0 && r <= 0x10FFFF
}

func stri2int(s string, idx int64) (Value, error) {
	runes := []rune(s)
	if idx < 0 || idx >= int64(len(runes)) {
		return Value{}, &BadStringOperationError{fmt.Sprintf("STRI2INT: index out of range: %d", idx)}
	}

	return NewInt(int64(runes[idx])), nil
}

func execInt2Char(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], MaskInt, false)
	if err != nil {
		return err
	}

	out, err := int2char(v.Int())
	if err != nil {
		return err
	}

	dest.Set(out)

	return nil
}

func execInt2Float(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], MaskInt, false)
	if err != nil {
		return err
	}

	dest.Set(NewFloat(float64(v.Int())))

	return nil
}

func execFloat2Int(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], maskOf(KindFloat), false)
	if err != nil {
		return err
	}

	dest.Set(NewInt(int64(v.Float())))

	return nil
}

func execStri2Int(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskStringInt)
	if err != nil {
		return err
	}

	if a.Kind() != KindString || b.Kind() != KindInt {
		return &InvalidTypeError{fmt.Sprintf("STRI2INT: expected (string, int), got (%s, %s)", a.Kind(), b.Kind())}
	}

	out, err := stri2int(a.String(), b.Int())
	if err != nil {
		return err
	}

	dest.Set(out)

	return nil
}

func execInt2Chars(e *Engine, ins *Instruction) error {
	v, err := e.popData()
	if err != nil {
		return err
	}

	if v.Kind() != KindInt {
		return &InvalidTypeError{"INT2CHARS: operand is not an int"}
	}

	out, err := int2char(v.Int())
	if err != nil {
		return err
	}

	e.pushData(out)

	return nil
}

func execInt2Floats(e *Engine, ins *Instruction) error {
	v, err := e.popData()
	if err != nil {
		return err
	}

	if v.Kind() != KindInt {
		return &InvalidTypeError{"INT2FLOATS: operand is not an int"}
	}

	e.pushData(NewFloat(float64(v.Int())))

	return nil
}

func execFloat2Ints(e *Engine, ins *Instruction) error {
	v, err := e.popData()
	if err != nil {
		return err
	}

	if v.Kind() != KindFloat {
		return &InvalidTypeError{"FLOAT2INTS: operand is not a float"}
	}

	e.pushData(NewInt(int64(v.Float())))

	return nil
}

func execStri2Ints(e *Engine, ins *Instruction) error {
	b, err := e.popData()
	if err != nil {
		return err
	}

	a, err := e.popData()
	if err != nil {
		return err
	}

	if a.Kind() != KindString || b.Kind() != KindInt {
		return &InvalidTypeError{fmt.Sprintf("STRI2INTS: expected (string, int), got (%s, %s)", a.Kind(), b.Kind())}
	}

	out, err := stri2int(a.String(), b.Int())
	if err != nil {
		return err
	}

	e.pushData(out)

	return nil
}
