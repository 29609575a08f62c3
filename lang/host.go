package lang

// Host built-ins expose the process environment and filesystem. They are
// also the function set available to --define expressions (see seed.go).

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

func hostBuiltins() []Builtin {
	return []Builtin{
		{Name: "getenv", Params: []string{"name"}, Fn: builtinGetenv},
		{Name: "platform", Fn: stringer(func() string {
			t := getPlatform()

			return t.OS + "/" + t.Arch
		})},
		{Name: "target", Fn: stringer(func() string {
			t := getTarget()

			return t.Arch + "-" + t.OS
		})},
		{Name: "hostname", Fn: stringer(getHostname)},
		{Name: "cwd", Fn: stringer(getCwd)},
		{Name: "exists", Params: []string{"path"}, Fn: predicate(fileExists)},
		{Name: "isdir", Params: []string{"path"}, Fn: predicate(fileIsDir)},
		{Name: "isfile", Params: []string{"path"}, Fn: predicate(fileIsRegular)},
		{Name: "abspath", Params: []string{"path"}, Fn: builtinAbspath},
		{Name: "joinpath", Params: []string{"elem"}, Variadic: true, Fn: builtinJoinpath},
		{Name: "pathprefix", Params: []string{"list"}, Variadic: true, Fn: builtinPathprefix},
	}
}

func stringer(fn func() string) NativeFunc {
	return func(_ context.Context, call *Call) (Value, error) {
		return StringValue(fn(), call.Pos), nil
	}
}

func predicate(fn func(string) bool) NativeFunc {
	return func(_ context.Context, call *Call) (Value, error) {
		path, err := stringArg(call, 0)
		if err != nil {
			return None(call.Pos), err
		}

		return BoolValue(fn(path), call.Pos), nil
	}
}

// stringArg returns the i'th argument, which must be a String.
func stringArg(call *Call, i int) (string, error) {
	v := call.Arg(i)
	if v.Type != TypeString {
		return "", ErrType.At(call.ArgPos(i)).
			Msgf("%s argument %d must be String, found %s",
				call.Name, i+1, v.Repr())
	}

	return v.Str, nil
}

// stringArgs returns the arguments from i onward, each of which must be a
// String.
func stringArgs(call *Call, i int) ([]string, error) {
	out := make([]string, 0, len(call.Values)-i)

	for ; i < len(call.Values); i++ {
		s, err := stringArg(call, i)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

func builtinGetenv(_ context.Context, call *Call) (Value, error) {
	name, err := stringArg(call, 0)
	if err != nil {
		return None(call.Pos), err
	}

	return StringValue(processEnvMap(call.ProcessEnv())[name], call.Pos), nil
}

func builtinAbspath(_ context.Context, call *Call) (Value, error) {
	path, err := stringArg(call, 0)
	if err != nil {
		return None(call.Pos), err
	}

	return StringValue(pathAbs(path), call.Pos), nil
}

func builtinJoinpath(_ context.Context, call *Call) (Value, error) {
	elem, err := stringArgs(call, 0)
	if err != nil {
		return None(call.Pos), err
	}

	return StringValue(filepath.Join(elem...), call.Pos), nil
}

// builtinPathprefix prepends items to a PATH-like list, removing duplicates.
func builtinPathprefix(_ context.Context, call *Call) (Value, error) {
	list, err := stringArg(call, 0)
	if err != nil {
		return None(call.Pos), err
	}

	items, err := stringArgs(call, 1)
	if err != nil {
		return None(call.Pos), err
	}

	return StringValue(pathPrefix(list, items...), call.Pos), nil
}

func pathPrefix(list string, items ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(items...),
	).String()
}

// processEnvMap converts a "KEY=VALUE" list to a map.
func processEnvMap(env []string) map[string]string {
	m := make(map[string]string, len(env))

	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			m[key] = value
		}
	}

	return m
}

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		o = runtime.GOOS
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		a = runtime.GOARCH
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}
