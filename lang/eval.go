package lang

import (
	"context"
	"errors"
	"log/slog"
)

// returnSignal unwinds evaluation from a return statement to the nearest
// call boundary or to the program root.
type returnSignal struct {
	value Value
}

func (r *returnSignal) Error() string { return "return outside of function" }

func asReturn(err error) (*returnSignal, bool) {
	var sig *returnSignal
	if errors.As(err, &sig) {
		return sig, true
	}

	return nil, false
}

// eval evaluates n in env.
func (in *Interpreter) eval(ctx context.Context, n Node, env *Env) (Value, error) {
	switch n := n.(type) {
	case *Sequence:
		return in.sequence(ctx, n, env)

	case *NumberLiteral:
		return n.Value, nil

	case *StringLiteral:
		return StringValue(n.Token.Text, n.Token.Pos), nil

	case *UnaryOp:
		v, err := in.eval(ctx, n.Operand, env)
		if err != nil {
			return None(n.Pos()), err
		}

		return unary(n.Op, v)

	case *BinaryOp:
		l, err := in.eval(ctx, n.Left, env)
		if err != nil {
			return None(n.Pos()), err
		}

		r, err := in.eval(ctx, n.Right, env)
		if err != nil {
			return None(n.Pos()), err
		}

		return binaryOp(n.Op, l, r)

	case *VarAssign:
		v, err := in.eval(ctx, n.Value, env)
		if err != nil {
			return None(n.Pos()), err
		}

		env.Set(n.Name.Text, v)

		return None(n.Pos()), nil

	case *VarCompoundAssign:
		return in.compoundAssign(ctx, n, env)

	case *VarAccess:
		v, ok := env.Get(n.Name.Text)
		if !ok {
			return None(n.Pos()), undefined(n.Name)
		}

		return v, nil

	case *If:
		return in.ifExpr(ctx, n, env)

	case *FuncDef:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Text
		}

		env.Set(n.Name.Text, FuncValue(&Closure{
			name:   n.Name.Text,
			params: params,
			body:   n.Body,
			env:    env,
		}, n.Pos()))

		return None(n.Pos()), nil

	case *FuncCall:
		return in.call(ctx, n, env)

	case *ListExpr:
		items := make([]Value, len(n.Elements))

		for i, elem := range n.Elements {
			v, err := in.eval(ctx, elem, env)
			if err != nil {
				return None(n.Pos()), err
			}

			items[i] = v
		}

		return ListValue(items, n.Pos()), nil

	case *Return:
		v := None(n.Pos())

		if n.Value != nil {
			var err error

			v, err = in.eval(ctx, n.Value, env)
			if err != nil {
				return None(n.Pos()), err
			}
		}

		return v, &returnSignal{value: v}

	case *Assert:
		v, err := in.eval(ctx, n.Cond, env)
		if err != nil {
			return None(n.Pos()), err
		}

		if !v.IsTrue() {
			return None(n.Pos()), ErrAssert.At(n.Cond.Pos()).
				Msgf("assertion failed: %s", n.Cond.String()).
				With(slog.String("value", v.Repr()))
		}

		return v, nil
	}

	return None(Position{}), ErrInvalidOperation.Msgf("unknown node %T", n)
}

// sequence evaluates each statement in order, yielding the last value.
func (in *Interpreter) sequence(
	ctx context.Context,
	seq *Sequence,
	env *Env,
) (Value, error) {
	result := None(seq.Pos())

	for _, stmt := range seq.Statements {
		err := ctx.Err()
		if err != nil {
			return None(stmt.Pos()), err
		}

		result, err = in.eval(ctx, stmt, env)
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (in *Interpreter) compoundAssign(
	ctx context.Context,
	n *VarCompoundAssign,
	env *Env,
) (Value, error) {
	cur, ok := env.Get(n.Name.Text)
	if !ok {
		return None(n.Pos()), undefined(n.Name)
	}

	rhs, err := in.eval(ctx, n.Value, env)
	if err != nil {
		return None(n.Pos()), err
	}

	v, err := binaryOp(n.Op, cur, rhs)
	if err != nil {
		return None(n.Pos()), err
	}

	env.Set(n.Name.Text, v)

	return None(n.Pos()), nil
}

// ifExpr evaluates the taken branch in env; branches do not open a scope.
func (in *Interpreter) ifExpr(ctx context.Context, n *If, env *Env) (Value, error) {
	cond, err := in.eval(ctx, n.Cond, env)
	if err != nil {
		return None(n.Pos()), err
	}

	if cond.Type != TypeInteger {
		return None(n.Pos()), ErrType.At(n.Cond.Pos()).
			Msgf("if condition must be Integer, found %s", cond.Repr())
	}

	switch {
	case cond.Int != 0:
		return in.sequence(ctx, n.Then, env)
	case n.Else != nil:
		return in.eval(ctx, n.Else, env)
	}

	return None(n.Pos()), nil
}

// call evaluates the arguments, resolves the callee, and invokes it in a
// fresh scope.
func (in *Interpreter) call(
	ctx context.Context,
	n *FuncCall,
	env *Env,
) (Value, error) {
	pos := n.Pos()

	args := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		v, err := in.eval(ctx, arg, env)
		if err != nil {
			return None(pos), err
		}

		args[i] = v
	}

	ref, ok := n.Callee.(*VarAccess)
	if !ok {
		return None(pos), ErrType.At(pos).
			Msgf("cannot call %s", n.Callee.String())
	}

	fv, ok := env.Get(ref.Name.Text)
	if !ok {
		return None(pos), undefined(ref.Name)
	}

	if fv.Type != TypeFunction {
		return None(pos), ErrType.At(pos).
			Msgf("%s is not a function: %s", ref.Name.Text, fv.Repr())
	}

	err := checkArity(pos, fv.Fn, len(args))
	if err != nil {
		return None(pos), err
	}

	err = ctx.Err()
	if err != nil {
		return None(pos), err
	}

	if in.depth >= in.opts.maxCallDepth {
		return None(pos), ErrRecursion.At(pos).
			Msgf("call depth exceeds maximum %d", in.opts.maxCallDepth).
			With(slog.String("func", ref.Name.Text))
	}

	in.depth++
	defer func() { in.depth-- }()

	in.opts.logger.TraceContext(ctx, "call",
		slog.String("func", ref.Name.Text),
		slog.Int("args", len(args)),
		slog.Int("depth", in.depth))

	switch fn := fv.Fn.(type) {
	case *Closure:
		scope := NewEnv(fn.env)
		for i, p := range fn.params {
			scope.Set(p, args[i])
		}

		_, err := in.sequence(ctx, fn.body, scope)
		if sig, ok := asReturn(err); ok {
			return sig.value, nil
		}

		if err != nil {
			return None(pos), err
		}

		// Without a return the call yields None, not the last statement.
		return None(pos), nil

	case *Native:
		scope := NewEnv(in.globals)
		for i, p := range fn.params {
			scope.Set(p, args[i])
		}

		return fn.fn(ctx, &Call{
			Env:    scope,
			interp: in,
			Name:   fn.name,
			Args:   n.Args,
			Values: args,
			Pos:    pos,
		})
	}

	return None(pos), ErrType.At(pos).Msgf("%s is not callable", ref.Name.Text)
}

func checkArity(pos Position, fn Callable, got int) error {
	want := len(fn.Params())

	if n, ok := fn.(*Native); ok && n.variadic {
		if got < want {
			return ErrType.At(pos).
				Msgf("%s expected at least %d, got %d arguments",
					fn.Name(), want, got)
		}

		return nil
	}

	if got != want {
		return ErrType.At(pos).
			Msgf("%s expected %d, got %d arguments", fn.Name(), want, got)
	}

	return nil
}

func undefined(name Token) error {
	return ErrUndefinedVariable.At(name.Pos).
		Msgf("%s is not defined", name.Text).
		With(slog.String("name", name.Text))
}
