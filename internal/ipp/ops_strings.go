package ipp

// ops_strings.go implements CONCAT, STRLEN, GETCHAR, SETCHAR (§4.4), and
// TYPE, the sole reflection opcode — grouped here since, like the string
// opcodes, it formats rather than computes over a Value.

import "fmt"

func init() {
	register(OpConcat, execConcat)
	register(OpStrlen, execStrlen)
	register(OpGetChar, execGetChar)
	register(OpSetChar, execSetChar)
	register(OpType, execType)
}

func execConcat(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskString)
	if err != nil {
		return err
	}

	dest.Set(NewString(a.String() + b.String()))

	return nil
}

func execStrlen(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], MaskString, false)
	if err != nil {
		return err
	}

	dest.Set(NewInt(int64(len([]rune(v.String())))))

	return nil
}

func execGetChar(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskStringInt)
	if err != nil {
		return err
	}

	if a.Kind() != KindString || b.Kind() != KindInt {
		return &InvalidTypeError{fmt.Sprintf("GETCHAR: expected (string, int), got (%s, %s)", a.Kind(), b.Kind())}
	}

	runes := []rune(a.String())
	idx := b.Int()

	if idx < 0 || idx >= int64(len(runes)) {
		return &BadStringOperationError{fmt.Sprintf("GETCHAR: index out of range: %d", idx)}
	}

	dest.Set(NewString(string(runes[idx])))

	return nil
}

// execSetChar implements SETCHAR dest idx char: dest must already hold a
// string (read-modify-write, not a fresh assignment), matching §4.4's
// "replaces the character at idx in the variable's own current value."
func execSetChar(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	if !dest.Initialized() || dest.Get().Kind() != KindString {
		return &InvalidTypeError{"SETCHAR: destination does not hold a string"}
	}

	idxVal, err := e.resolveSource(ins.Operands[1], MaskInt, false)
	if err != nil {
		return err
	}

	charVal, err := e.resolveSource(ins.Operands[2], MaskString, false)
	if err != nil {
		return err
	}

	if len([]rune(charVal.String())) == 0 {
		return &BadStringOperationError{"SETCHAR: replacement string is empty"}
	}

	runes := []rune(dest.Get().String())
	idx := idxVal.Int()

	if idx < 0 || idx >= int64(len(runes)) {
		return &BadStringOperationError{fmt.Sprintf("SETCHAR: index out of range: %d", idx)}
	}

	runes[idx] = []rune(charVal.String())[0]
	dest.Set(NewString(string(runes)))

	return nil
}

// execType implements TYPE dest src: dest receives the string name of
// src's current kind, or the empty string if src is an uninitialized
// variable — the one place a type query never fails on missing value.
func execType(e *Engine, ins *Instruction) error {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return err
	}

	v, err := e.resolveSource(ins.Operands[1], MaskAny, true)
	if err != nil {
		return err
	}

	if v.Kind() == kindUninitialized {
		dest.Set(NewString(""))
		return nil
	}

	dest.Set(NewString(v.Kind().String()))

	return nil
}
