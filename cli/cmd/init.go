package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/log"
	"github.com/ardnew/quill/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration script with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err := os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	ast := buildConfig(ktx)

	err = ast.Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
		slog.Int("settings", len(ast.Root.Statements)),
	)

	return nil
}

// buildConfig constructs a program with one assignment per flag that has a
// value. Flag names become identifiers with hyphens replaced by underscores.
func buildConfig(ktx *kong.Context) *lang.AST {
	prefixIgnore := []string{"help", "version", profile.Tag}

	root := &lang.Sequence{}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagValue(ktx.FlagValue(flag))
		if val == nil {
			continue
		}

		root.Statements = append(root.Statements, &lang.VarAssign{
			Name:  lang.Token{Kind: lang.TokenIdent, Text: ConfigName(flag.Name)},
			Value: val,
		})
	}

	return &lang.AST{Root: root}
}

// ConfigName returns the identifier used for the flag name in the
// configuration script.
func ConfigName(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// flagValue returns the literal for a flag value, or nil if it is unset or
// has no literal form.
func flagValue(val any) lang.Node {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		if v {
			return intLiteral("1")
		}

		return intLiteral("0")

	case string:
		if v == "" {
			return nil
		}

		return stringLiteral(v)

	case time.Duration:
		return stringLiteral(v.String())

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return intLiteral(fmt.Sprint(v))

	case float32:
		return floatLiteral(float64(v))

	case float64:
		return floatLiteral(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		list := &lang.ListExpr{Bracket: lang.Token{Kind: lang.TokenLBracket, Text: "["}}
		for _, s := range v {
			list.Elements = append(list.Elements, stringLiteral(s))
		}

		return list

	default:
		return stringLiteral(fmt.Sprint(v))
	}
}

func intLiteral(text string) lang.Node {
	return &lang.NumberLiteral{Token: lang.Token{Kind: lang.TokenInt, Text: text}}
}

func floatLiteral(f float64) lang.Node {
	text := strconv.FormatFloat(f, 'f', -1, 32)
	if !strings.Contains(text, ".") {
		text += ".0"
	}

	return &lang.NumberLiteral{Token: lang.Token{Kind: lang.TokenFloat, Text: text}}
}

func stringLiteral(s string) lang.Node {
	return &lang.StringLiteral{Token: lang.Token{Kind: lang.TokenString, Text: s}}
}
