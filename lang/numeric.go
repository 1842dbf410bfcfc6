package lang

import (
	"log/slog"
	"math"
)

// numericOp is a binary operation under the promotion rule: two integers
// yield an integer, any float operand widens the other to float, and any
// other pairing is a binding error.
type numericOp struct {
	ints   func(a, b int) (int, error)
	floats func(a, b float64) float64
	name   string
}

var (
	opAdd = numericOp{
		name:   "+",
		ints:   func(a, b int) (int, error) { return a + b, nil },
		floats: func(a, b float64) float64 { return a + b },
	}
	opSub = numericOp{
		name:   "-",
		ints:   func(a, b int) (int, error) { return a - b, nil },
		floats: func(a, b float64) float64 { return a - b },
	}
	opMul = numericOp{
		name:   "*",
		ints:   func(a, b int) (int, error) { return a * b, nil },
		floats: func(a, b float64) float64 { return a * b },
	}
	opDiv = numericOp{
		name: "/",
		ints: func(a, b int) (int, error) {
			if b == 0 {
				return 0, ErrBinding.Wrapf("integer division by zero")
			}

			return a / b, nil
		},
		floats: func(a, b float64) float64 { return a / b },
	}
	opMod = numericOp{
		name: "mod",
		ints: func(a, b int) (int, error) {
			if b == 0 {
				return 0, ErrBinding.Wrapf("integer modulo by zero")
			}

			return a % b, nil
		},
		floats: math.Mod,
	}
)

// apply combines a and b, or reports the offending operands.
func (op numericOp) apply(a, b Value) (Value, error) {
	switch {
	case a.kind == KindInteger && b.kind == KindInteger:
		n, err := op.ints(a.num, b.num)
		if err != nil {
			return Unit, WrapError(err).With(
				slog.String("proc", op.name),
				slog.String("lhs", a.GoString()),
				slog.String("rhs", b.GoString()))
		}

		return IntValue(n), nil

	case isNumber(a) && isNumber(b):
		return FloatValue(op.floats(toFloat(a), toFloat(b))), nil

	default:
		return Unit, ErrBinding.With(
			slog.String("proc", op.name),
			slog.String("lhs", a.GoString()),
			slog.String("rhs", b.GoString()),
		).Wrapf("cannot apply %s to %s and %s", op.name, a.kind, b.kind)
	}
}

// fold combines operands left to right.
func (op numericOp) fold(args []Value) (Value, error) {
	acc := args[0]
	if !isNumber(acc) {
		return Unit, ErrBinding.With(
			slog.String("proc", op.name),
			slog.Int("operand", 0),
			slog.String("value", acc.GoString()),
		).Wrapf("expected integer or float, got %s", acc.kind)
	}

	for _, arg := range args[1:] {
		var err error
		if acc, err = op.apply(acc, arg); err != nil {
			return Unit, err
		}
	}

	return acc, nil
}

func isNumber(v Value) bool { return v.kind == KindInteger || v.kind == KindFloat }

func toFloat(v Value) float64 {
	if v.kind == KindInteger {
		return float64(v.num)
	}

	return v.flt
}
