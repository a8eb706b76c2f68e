package ipp

// ops_arith.go implements the arithmetic family: ADD, SUB, MUL, IDIV (all
// int-or-float except IDIV, which is integer-only), their stack-operand
// variants (§4.4's uniform *S pattern), and DIV, the floating-point
// division this extended instruction set adds alongside IDIV.

import "fmt"

func init() {
	register(OpAdd, execAdd)
	register(OpSub, execSub)
	register(OpMul, execMul)
	register(OpIdiv, execIdiv)
	register(OpDiv, execDiv)

	register(OpAdds, execAdds)
	register(OpSubs, execSubs)
	register(OpMuls, execMuls)
	register(OpIdivs, execIdivs)
	register(OpDivs, execDivs)
}

// binaryArgs resolves operands 1 and 2 of a three-operand arithmetic or
// comparison instruction against mask, returning the destination slot too.
func (e *Engine) binaryArgs(ins *Instruction, mask Mask) (*Slot, Value, Value, error) {
	dest, err := e.resolveDest(ins)
	if err != nil {
		return nil, Value{}, Value{}, err
	}

	a, err := e.resolveSource(ins.Operands[1], mask, false)
	if err != nil {
		return nil, Value{}, Value{}, err
	}

	b, err := e.resolveSource(ins.Operands[2], mask, false)
	if err != nil {
		return nil, Value{}, Value{}, err
	}

	return dest, a, b, nil
}

func execAdd(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskIntFloat)
	if err != nil {
		return err
	}

	v, err := arithAdd(a, b)
	if err != nil {
		return err
	}

	dest.Set(v)

	return nil
}

func execSub(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskIntFloat)
	if err != nil {
		return err
	}

	v, err := arithSub(a, b)
	if err != nil {
		return err
	}

	dest.Set(v)

	return nil
}

func execMul(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskIntFloat)
	if err != nil {
		return err
	}

	v, err := arithMul(a, b)
	if err != nil {
		return err
	}

	dest.Set(v)

	return nil
}

func execIdiv(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskInt)
	if err != nil {
		return err
	}

	v, err := arithIdiv(a, b)
	if err != nil {
		return err
	}

	dest.Set(v)

	return nil
}

func execDiv(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, maskOf(KindFloat))
	if err != nil {
		return err
	}

	v, err := arithDiv(a, b)
	if err != nil {
		return err
	}

	dest.Set(v)

	return nil
}

// stackBinary pops two values for a *S opcode, applies op, and pushes the
// result. Every *S arithmetic opcode is this same shape over a different op.
func (e *Engine) stackBinary(mask Mask, op func(a, b Value) (Value, error)) error {
	b, err := e.popData()
	if err != nil {
		return err
	}

	a, err := e.popData()
	if err != nil {
		return err
	}

	if !mask.has(a.Kind()) || !mask.has(b.Kind()) {
		return &InvalidTypeError{fmt.Sprintf("unexpected operand types %s, %s", a.Kind(), b.Kind())}
	}

	v, err := op(a, b)
	if err != nil {
		return err
	}

	e.pushData(v)

	return nil
}

func execAdds(e *Engine, ins *Instruction) error  { return e.stackBinary(MaskIntFloat, arithAdd) }
func execSubs(e *Engine, ins *Instruction) error  { return e.stackBinary(MaskIntFloat, arithSub) }
func execMuls(e *Engine, ins *Instruction) error  { return e.stackBinary(MaskIntFloat, arithMul) }
func execIdivs(e *Engine, ins *Instruction) error { return e.stackBinary(MaskInt, arithIdiv) }
func execDivs(e *Engine, ins *Instruction) error  { return e.stackBinary(maskOf(KindFloat), arithDiv) }

func arithAdd(a, b Value) (Value, error) {
	if err := requireSameNumericKind(a, b); err != nil {
		return Value{}, err
	}

	if a.Kind() == KindFloat {
		return NewFloat(a.Float() + b.Float()), nil
	}

	return NewInt(a.Int() + b.Int()), nil
}

func arithSub(a, b Value) (Value, error) {
	if err := requireSameNumericKind(a, b); err != nil {
		return Value{}, err
	}

	if a.Kind() == KindFloat {
		return NewFloat(a.Float() - b.Float()), nil
	}

	return NewInt(a.Int() - b.Int()), nil
}

func arithMul(a, b Value) (Value, error) {
	if err := requireSameNumericKind(a, b); err != nil {
		return Value{}, err
	}

	if a.Kind() == KindFloat {
		return NewFloat(a.Float() * b.Float()), nil
	}

	return NewInt(a.Int() * b.Int()), nil
}

// arithIdiv computes floored integer division, truncating toward negative
// infinity rather than Go's native truncation toward zero, matching the
// original language's `//` operator: -7 IDIV 2 is -4, not -3.
func arithIdiv(a, b Value) (Value, error) {
	if b.Int() == 0 {
		return Value{}, &InvalidValueError{"IDIV: division by zero"}
	}

	q := a.Int() / b.Int()
	if r := a.Int() % b.Int(); r != 0 && (r < 0) != (b.Int() < 0) {
		q--
	}

	return NewInt(q), nil
}

func arithDiv(a, b Value) (Value, error) {
	if b.Float() == 0 {
		return Value{}, &InvalidValueError{"DIV: division by zero"}
	}

	return NewFloat(a.Float() / b.Float()), nil
}

func requireSameNumericKind(a, b Value) error {
	if a.Kind() != b.Kind() {
		return &InvalidTypeError{fmt.Sprintf("mismatched operand types %s and %s", a.Kind(), b.Kind())}
	}

	return nil
}
