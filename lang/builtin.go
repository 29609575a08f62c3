package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// placeholder is the substitution marker recognized by print.
const placeholder = "{}"

// Stdlib returns the standard built-ins: console I/O, conversions, and the
// host helpers.
func Stdlib() []Builtin {
	return append([]Builtin{
		{Name: "print", Params: []string{"format"}, Variadic: true, Fn: builtinPrint},
		{Name: "input", Params: []string{"prompt"}, Fn: builtinInput},
		{Name: "str", Params: []string{"value"}, Fn: builtinStr},
		{Name: "int", Params: []string{"value"}, Fn: builtinInt},
		{Name: "float", Params: []string{"value"}, Fn: builtinFloat},
		{Name: "type", Params: []string{"value"}, Fn: builtinType},
		{Name: "len", Params: []string{"value"}, Fn: builtinLen},
	}, hostBuiltins()...)
}

// Format substitutes the display form of each arg for successive "{}"
// markers in format. The number of markers must equal len(args).
func Format(format string, args ...Value) (string, error) {
	if n := strings.Count(format, placeholder); n != len(args) {
		return "", ErrType.Msgf(
			"format has %d placeholders but %d arguments were given",
			n, len(args))
	}

	var sb strings.Builder

	for _, arg := range args {
		before, after, _ := strings.Cut(format, placeholder)
		sb.WriteString(before)
		sb.WriteString(arg.String())

		format = after
	}

	sb.WriteString(format)

	return sb.String(), nil
}

func builtinPrint(_ context.Context, call *Call) (Value, error) {
	format := call.Arg(0)
	if format.Type != TypeString {
		return None(call.Pos), ErrType.At(call.ArgPos(0)).
			Msgf("print format must be String, found %s", format.Repr())
	}

	s, err := Format(format.Str, call.Values[1:]...)
	if err != nil {
		var ee *Error
		if errors.As(err, &ee) {
			err = ee.At(call.ArgPos(0))
		}

		return None(call.Pos), err
	}

	_, err = io.WriteString(call.Output(), s+"\n")
	if err != nil {
		return None(call.Pos), ErrIO.At(call.Pos).Msg("write output").Wrap(err)
	}

	return None(call.Pos), nil
}

func builtinInput(_ context.Context, call *Call) (Value, error) {
	_, err := io.WriteString(call.Output(), call.Arg(0).String())
	if err != nil {
		return None(call.Pos), ErrIO.At(call.Pos).Msg("write prompt").Wrap(err)
	}

	line, err := call.Input().ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return None(call.Pos), ErrIO.At(call.Pos).Msg("read input").Wrap(err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return StringValue(line, call.Pos), nil
}

func builtinStr(_ context.Context, call *Call) (Value, error) {
	return StringValue(call.Arg(0).String(), call.Pos), nil
}

func builtinInt(_ context.Context, call *Call) (Value, error) {
	v := call.Arg(0)

	switch v.Type {
	case TypeInteger:
		return IntValue(v.Int, call.Pos), nil

	case TypeFloat:
		f := math.Trunc(float64(v.Float))
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return None(call.Pos), ErrArgument.At(call.ArgPos(0)).
				Msgf("cannot convert %s to Integer", v.Repr())
		}

		return IntValue(int32(f), call.Pos), nil

	case TypeString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 32)
		if err != nil {
			return None(call.Pos), ErrArgument.At(call.ArgPos(0)).
				Msgf("cannot convert %s to Integer", v.Repr()).
				Wrap(err)
		}

		return IntValue(int32(n), call.Pos), nil
	}

	return None(call.Pos), ErrType.At(call.ArgPos(0)).
		Msgf("cannot convert %s to Integer", v.Repr())
}

func builtinFloat(_ context.Context, call *Call) (Value, error) {
	v := call.Arg(0)

	switch v.Type {
	case TypeInteger, TypeFloat:
		return FloatValue(v.AsFloat(), call.Pos), nil

	case TypeString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 32)
		if err != nil {
			return None(call.Pos), ErrArgument.At(call.ArgPos(0)).
				Msgf("cannot convert %s to Float", v.Repr()).
				Wrap(err)
		}

		return FloatValue(float32(f), call.Pos), nil
	}

	return None(call.Pos), ErrType.At(call.ArgPos(0)).
		Msgf("cannot convert %s to Float", v.Repr())
}

func builtinType(_ context.Context, call *Call) (Value, error) {
	return StringValue(call.Arg(0).Type.String(), call.Pos), nil
}

func builtinLen(_ context.Context, call *Call) (Value, error) {
	v := call.Arg(0)

	switch v.Type {
	case TypeString:
		return IntValue(int32(utf8.RuneCountInString(v.Str)), call.Pos), nil
	case TypeList:
		return IntValue(int32(len(v.Items)), call.Pos), nil
	}

	return None(call.Pos), ErrType.At(call.ArgPos(0)).
		Msgf("len of %s", v.Repr()).
		With(slog.String("type", v.Type.String()))
}
