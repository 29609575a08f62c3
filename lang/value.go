package lang

import (
	"math"
	"strconv"
	"strings"
)

// Type is the runtime type of a [Value].
type Type int

// Value types.
const (
	TypeNone Type = iota
	TypeInteger
	TypeFloat
	TypeString
	TypeFunction
	TypeList
)

var typeName = [...]string{
	TypeNone:     "None",
	TypeInteger:  "Integer",
	TypeFloat:    "Float",
	TypeString:   "String",
	TypeFunction: "Function",
	TypeList:     "List",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeName) {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}

	return typeName[t]
}

// Value is a tagged runtime value. Only the field selected by Type is
// meaningful. Pos records where the value was produced.
type Value struct {
	Fn    Callable
	Str   string
	Items []Value
	Pos   Position
	Type  Type
	Int   int32
	Float float32
}

// None returns the None value.
func None(pos Position) Value { return Value{Type: TypeNone, Pos: pos} }

// IntValue returns an Integer value.
func IntValue(n int32, pos Position) Value {
	return Value{Type: TypeInteger, Int: n, Pos: pos}
}

// FloatValue returns a Float value.
func FloatValue(f float32, pos Position) Value {
	return Value{Type: TypeFloat, Float: f, Pos: pos}
}

// StringValue returns a String value.
func StringValue(s string, pos Position) Value {
	return Value{Type: TypeString, Str: s, Pos: pos}
}

// FuncValue returns a Function value.
func FuncValue(fn Callable, pos Position) Value {
	return Value{Type: TypeFunction, Fn: fn, Pos: pos}
}

// ListValue returns a List value holding items.
func ListValue(items []Value, pos Position) Value {
	return Value{Type: TypeList, Items: items, Pos: pos}
}

// BoolValue returns Integer 1 for true and 0 for false.
func BoolValue(b bool, pos Position) Value {
	if b {
		return IntValue(1, pos)
	}

	return IntValue(0, pos)
}

// IsNumeric reports whether v is an Integer or a Float.
func (v Value) IsNumeric() bool {
	return v.Type == TypeInteger || v.Type == TypeFloat
}

// IsTrue reports whether v is a nonzero Integer.
func (v Value) IsTrue() bool { return v.Type == TypeInteger && v.Int != 0 }

// AsFloat returns the numeric value of v as a float32.
func (v Value) AsFloat() float32 {
	if v.Type == TypeInteger {
		return float32(v.Int)
	}

	return v.Float
}

// String returns the display form of v: strings are unquoted.
func (v Value) String() string {
	if v.Type == TypeString {
		return v.Str
	}

	return v.Repr()
}

// Repr returns the literal form of v: strings are quoted.
func (v Value) Repr() string {
	switch v.Type {
	case TypeInteger:
		return strconv.FormatInt(int64(v.Int), 10)

	case TypeFloat:
		return formatFloat(v.Float)

	case TypeString:
		return quote(v.Str)

	case TypeFunction:
		return "<func " + v.Fn.Name() + ">"

	case TypeList:
		var sb strings.Builder

		sb.WriteByte('[')

		for i, item := range v.Items {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(item.Repr())
		}

		sb.WriteByte(']')

		return sb.String()

	default:
		return "none"
	}
}

// Equal reports whether v and o hold the same type and contents, ignoring
// positions. Functions are equal when they are the same callable.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}

	switch v.Type {
	case TypeInteger:
		return v.Int == o.Int
	case TypeFloat:
		return v.Float == o.Float
	case TypeString:
		return v.Str == o.Str
	case TypeFunction:
		return v.Fn == o.Fn
	case TypeList:
		if len(v.Items) != len(o.Items) {
			return false
		}

		for i := range v.Items {
			if !v.Items[i].Equal(o.Items[i]) {
				return false
			}
		}

		return true
	default:
		return true
	}
}

// Native converts v into a plain Go value: int64, float64, string, []any,
// or nil. Functions convert to their name.
func (v Value) Native() any {
	switch v.Type {
	case TypeInteger:
		return int64(v.Int)
	case TypeFloat:
		return float64(v.Float)
	case TypeString:
		return v.Str
	case TypeFunction:
		return v.Fn.Name()
	case TypeList:
		out := make([]any, len(v.Items))
		for i, item := range v.Items {
			out[i] = item.Native()
		}

		return out
	default:
		return nil
	}
}

// FromNative converts a plain Go value into a Value. Booleans become Integer
// 0/1; integers outside the int32 range are an [ErrArgument].
func FromNative(x any, pos Position) (Value, error) {
	switch x := x.(type) {
	case nil:
		return None(pos), nil
	case Value:
		return x, nil
	case bool:
		return BoolValue(x, pos), nil
	case int:
		return fromInt64(int64(x), pos)
	case int32:
		return IntValue(x, pos), nil
	case int64:
		return fromInt64(x, pos)
	case uint:
		if x > math.MaxInt32 {
			return None(pos), ErrArgument.At(pos).
				Msgf("integer %d out of range", x)
		}

		return IntValue(int32(x), pos), nil
	case float32:
		return FloatValue(x, pos), nil
	case float64:
		return FloatValue(float32(x), pos), nil
	case string:
		return StringValue(x, pos), nil
	case []string:
		items := make([]Value, len(x))
		for i, s := range x {
			items[i] = StringValue(s, pos)
		}

		return ListValue(items, pos), nil
	case []any:
		items := make([]Value, len(x))

		for i, e := range x {
			v, err := FromNative(e, pos)
			if err != nil {
				return None(pos), err
			}

			items[i] = v
		}

		return ListValue(items, pos), nil
	default:
		return None(pos), ErrArgument.At(pos).
			Msgf("cannot convert %T to a value", x)
	}
}

func fromInt64(n int64, pos Position) (Value, error) {
	if n < math.MinInt32 || n > math.MaxInt32 {
		return None(pos), ErrArgument.At(pos).
			Msgf("integer %d out of range", n)
	}

	return IntValue(int32(n), pos), nil
}

// formatFloat renders f so that it reads back as a Float literal.
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)

	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	}

	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}
