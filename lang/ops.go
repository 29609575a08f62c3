package lang

import (
	"log/slog"
	"math"
	"slices"
)

// binaryOp applies the operator token op to l and r.
func binaryOp(op Token, l, r Value) (Value, error) {
	pos := op.Pos

	switch {
	case op.Kind == TokenPlus || op.Kind == TokenPlusAssign:
		return add(pos, op, l, r)
	case op.Kind == TokenMinus || op.Kind == TokenMinusAssign:
		return arith(pos, op, l, r,
			func(a, b int32) (int32, error) { return a - b, nil },
			func(a, b float32) float32 { return a - b })
	case op.Kind == TokenStar || op.Kind == TokenStarAssign:
		return arith(pos, op, l, r,
			func(a, b int32) (int32, error) { return a * b, nil },
			func(a, b float32) float32 { return a * b })
	case op.Kind == TokenSlash || op.Kind == TokenSlashAssign:
		return arith(pos, op, l, r, divInt(pos),
			func(a, b float32) float32 { return a / b })
	case op.Kind == TokenCaret:
		return arith(pos, op, l, r, powInt(pos), powFloat)
	case op.Kind == TokenEq, op.Kind == TokenNe, op.Kind == TokenLt,
		op.Kind == TokenLe, op.Kind == TokenGt, op.Kind == TokenGe:
		return compare(pos, op, l, r)
	case op.IsKeyword(KeywordAnd):
		return logical(pos, op, l, r, func(a, b bool) bool { return a && b })
	case op.IsKeyword(KeywordOr):
		return logical(pos, op, l, r, func(a, b bool) bool { return a || b })
	}

	return None(pos), ErrInvalidOperation.At(pos).
		Msgf("invalid binary operator %s", op.Symbol())
}

// unary applies the prefix operator op to v.
func unary(op Token, v Value) (Value, error) {
	pos := op.Pos

	switch {
	case op.IsKeyword(KeywordNot):
		if v.Type != TypeInteger {
			return None(pos), ErrType.At(pos).
				Msgf("operand of not must be Integer, found %s", v.Repr())
		}

		return BoolValue(v.Int == 0, pos), nil

	case op.Kind == TokenPlus, op.Kind == TokenMinus:
		if !v.IsNumeric() {
			return None(pos), ErrType.At(pos).
				Msgf("bad operand for unary %s: %s", op.Symbol(), v.Repr())
		}

		if op.Kind == TokenPlus {
			v.Pos = pos

			return v, nil
		}

		if v.Type == TypeInteger {
			return IntValue(-v.Int, pos), nil
		}

		return FloatValue(-v.Float, pos), nil
	}

	return None(pos), ErrInvalidOperation.At(pos).
		Msgf("invalid unary operator %s", op.Symbol())
}

// mismatch reports an operator applied to unsupported operand types.
func mismatch(pos Position, op Token, l, r Value) error {
	return ErrType.At(pos).
		Msgf("unsupported operands for %s: %s and %s",
			op.Symbol(), l.Repr(), r.Repr()).
		With(
			slog.String("left", l.Type.String()),
			slog.String("right", r.Type.String()),
		)
}

func add(pos Position, op Token, l, r Value) (Value, error) {
	switch {
	case l.Type == TypeList && r.Type == TypeList:
		return ListValue(slices.Concat(l.Items, r.Items), pos), nil
	}

	return arith(pos, op, l, r,
		func(a, b int32) (int32, error) { return a + b, nil },
		func(a, b float32) float32 { return a + b })
}

// arith applies a numeric operator. Two Integers use intOp; any Float
// operand promotes both sides to Float.
func arith(
	pos Position,
	op Token,
	l, r Value,
	intOp func(a, b int32) (int32, error),
	floatOp func(a, b float32) float32,
) (Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return None(pos), mismatch(pos, op, l, r)
	}

	if l.Type == TypeInteger && r.Type == TypeInteger {
		n, err := intOp(l.Int, r.Int)
		if err != nil {
			return None(pos), err
		}

		return IntValue(n, pos), nil
	}

	return FloatValue(floatOp(l.AsFloat(), r.AsFloat()), pos), nil
}

func divInt(pos Position) func(a, b int32) (int32, error) {
	return func(a, b int32) (int32, error) {
		if b == 0 {
			return 0, ErrInvalidOperation.At(pos).Msg("integer division by zero")
		}

		return a / b, nil
	}
}

func powInt(pos Position) func(a, b int32) (int32, error) {
	return func(base, exp int32) (int32, error) {
		if exp < 0 {
			return 0, ErrInvalidOperation.At(pos).
				Msgf("negative integer exponent %d", exp)
		}

		result := int32(1)

		for exp > 0 {
			if exp&1 == 1 {
				result *= base
			}

			base *= base
			exp >>= 1
		}

		return result, nil
	}
}

func powFloat(a, b float32) float32 {
	return float32(math.Pow(float64(a), float64(b)))
}

// compare applies a relational operator to numeric operands.
func compare(pos Position, op Token, l, r Value) (Value, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return None(pos), mismatch(pos, op, l, r)
	}

	if l.Type == TypeInteger && r.Type == TypeInteger {
		return BoolValue(relation(op.Kind, l.Int, r.Int), pos), nil
	}

	return BoolValue(relation(op.Kind, l.AsFloat(), r.AsFloat()), pos), nil
}

// relation uses the native operators so that NaN fails every comparison
// except !=.
func relation[T int32 | float32](kind TokenKind, a, b T) bool {
	switch kind {
	case TokenEq:
		return a == b
	case TokenNe:
		return a != b
	case TokenLt:
		return a < b
	case TokenLe:
		return a <= b
	case TokenGt:
		return a > b
	default:
		return a >= b
	}
}

func logical(
	pos Position,
	op Token,
	l, r Value,
	fn func(a, b bool) bool,
) (Value, error) {
	if l.Type != TypeInteger || r.Type != TypeInteger {
		return None(pos), mismatch(pos, op, l, r)
	}

	return BoolValue(fn(l.Int != 0, r.Int != 0), pos), nil
}
