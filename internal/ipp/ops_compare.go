package ipp

// ops_compare.go implements LT, GT, EQ and their stack variants (§4.4).
// LT/GT never accept nil, matching the original language's rule that
// ordering is undefined for it; EQ alone treats nil as comparable, equal
// only to itself.

import "fmt"

func init() {
	register(OpLt, execLt)
	register(OpGt, execGt)
	register(OpEq, execEq)
	register(OpLts, execLts)
	register(OpGts, execGts)
	register(OpEqs, execEqs)
}

func execLt(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskComparable)
	if err != nil {
		return err
	}

	r, err := compareLess(a, b)
	if err != nil {
		return err
	}

	dest.Set(NewBool(r))

	return nil
}

func execGt(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskComparable)
	if err != nil {
		return err
	}

	r, err := compareLess(b, a)
	if err != nil {
		return err
	}

	dest.Set(NewBool(r))

	return nil
}

func execEq(e *Engine, ins *Instruction) error {
	dest, a, b, err := e.binaryArgs(ins, MaskComparableNil)
	if err != nil {
		return err
	}

	r, err := compareEqual(a, b)
	if err != nil {
		return err
	}

	dest.Set(NewBool(r))

	return nil
}

func execLts(e *Engine, ins *Instruction) error {
	return e.stackCompare(MaskComparable, compareLess)
}

func execGts(e *Engine, ins *Instruction) error {
	return e.stackCompare(MaskComparable, func(a, b Value) (bool, error) { return compareLess(b, a) })
}

func execEqs(e *Engine, ins *Instruction) error {
	return e.stackCompare(MaskComparableNil, compareEqual)
}

func (e *Engine) stackCompare(mask Mask, cmp func(a, b Value) (bool, error)) error {
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

	r, err := cmp(a, b)
	if err != nil {
		return err
	}

	e.pushData(NewBool(r))

	return nil
}

func compareLess(a, b Value) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, &InvalidTypeError{fmt.Sprintf("LT/GT: mismatched operand types %s and %s", a.Kind(), b.Kind())}
	}

	switch a.Kind() {
	case KindInt:
		return a.Int() < b.Int(), nil
	case KindFloat:
		return a.Float() < b.Float(), nil
	case KindBool:
		return !a.Bool() && b.Bool(), nil
	case KindString:
		return a.String() < b.String(), nil
	default:
		return false, &InvalidTypeError{fmt.Sprintf("LT/GT: unorderable type %s", a.Kind())}
	}
}

func compareEqual(a, b Value) (bool, error) {
	if a.Kind() == KindNil || b.Kind() == KindNil {
		return a.Kind() == b.Kind(), nil
	}

	if a.Kind() != b.Kind() {
		return false, &InvalidTypeError{fmt.Sprintf("EQ: mismatched operand types %s and %s", a.Kind(), b.Kind())}
	}

	return valuesEqual(a, b), nil
}
