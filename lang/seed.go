package lang

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Define evaluates the host expression source with expr-lang and binds the
// result to name in the global scope.
//
// The expression sees every global Integer, Float, String, and List binding
// by name, the process environment through env(name), and the host helpers
// cwd, hostname, platform, target, exists, isdir, isfile, abspath, joinpath,
// and pathprefix.
func (in *Interpreter) Define(ctx context.Context, name, source string) error {
	if !isIdentifier(name) {
		return ErrArgument.Msgf("invalid name %q", name)
	}

	program, err := expr.Compile(source, expr.Env(in.exprEnv()))
	if err != nil {
		return ErrArgument.Msgf("compile %s", name).
			Wrap(err).
			With(slog.String("source", source))
	}

	result, err := vm.Run(program, in.exprEnv())
	if err != nil {
		return ErrArgument.Msgf("evaluate %s", name).
			Wrap(err).
			With(slog.String("source", source))
	}

	v, err := FromNative(result, Position{})
	if err != nil {
		return WrapError(err).With(slog.String("name", name))
	}

	in.globals.Set(name, v)

	in.opts.logger.TraceContext(ctx, "define",
		slog.String("name", name),
		slog.String("type", v.Type.String()),
		slog.String("value", v.Repr()))

	return nil
}

// ParseDefine splits a "NAME=EXPR" definition.
func ParseDefine(def string) (name, source string, err error) {
	name, source, ok := strings.Cut(def, "=")

	name = strings.TrimSpace(name)
	if !ok || !isIdentifier(name) || strings.TrimSpace(source) == "" {
		return "", "", ErrArgument.Msgf("invalid definition %q: want NAME=EXPR", def)
	}

	return name, source, nil
}

// exprEnv builds the expr-lang environment from the visible globals and the
// host helpers.
func (in *Interpreter) exprEnv() map[string]any {
	processEnv := processEnvMap(in.processEnv())

	env := map[string]any{
		"env":      func(key string) string { return processEnv[key] },
		"cwd":      getCwd,
		"hostname": getHostname,
		"platform": func() string {
			t := getPlatform()

			return t.OS + "/" + t.Arch
		},
		"target": func() string {
			t := getTarget()

			return t.Arch + "-" + t.OS
		},
		"exists":     fileExists,
		"isdir":      fileIsDir,
		"isfile":     fileIsRegular,
		"abspath":    pathAbs,
		"joinpath":   filepath.Join,
		"pathprefix": pathPrefix,
	}

	for name, v := range in.globals.Locals() {
		switch v.Type {
		case TypeInteger, TypeFloat, TypeString, TypeList:
			env[name] = v.Native()
		}
	}

	return env
}
