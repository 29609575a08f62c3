package cli

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/quill/cli/cmd"
	"github.com/ardnew/quill/lang"
	"github.com/ardnew/quill/pkg"
)

// CLI is the top-level command-line interface for quill.
type CLI struct {
	Log    logConfig    `embed:"" group:"log"    prefix:"log-"`
	Pprof  pprofConfig  `embed:"" group:"pprof"  prefix:"pprof-"`
	Interp interpConfig `embed:"" group:"interp"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Run quill programs (default)"`
	Eval cmd.Eval `cmd:""                    help:"Evaluate an expression and print its value"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Format programs"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`
}

// interpConfig holds the flags that configure every interpreter.
type interpConfig struct {
	Define       []string      `help:"Seed global NAME with the value of expression EXPR." placeholder:"NAME=EXPR" short:"D"`
	Timeout      time.Duration `default:"0"                                                help:"Abort evaluation after duration (0 disables)."`
	MaxDepth     int           `default:"${maxDepth}"                                      help:"Maximum expression nesting depth."`
	MaxCallDepth int           `default:"${maxCallDepth}"                                  help:"Maximum function call depth."`
}

func (interpConfig) vars() kong.Vars {
	return kong.Vars{
		"maxDepth":     strconv.Itoa(lang.DefaultMaxDepth),
		"maxCallDepth": strconv.Itoa(lang.DefaultMaxCallDepth),
	}
}

func (interpConfig) group() kong.Group {
	var group kong.Group

	group.Key = "interp"
	group.Title = "Interpreter options"

	return group
}

func (f interpConfig) settings() cmd.Settings {
	return cmd.Settings{
		Defines:      f.Define,
		Timeout:      f.Timeout,
		MaxDepth:     f.MaxDepth,
		MaxCallDepth: f.MaxCallDepth,
	}
}

// Run executes the quill CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigFile()

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Interp.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports any parse errors.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Interp.group()},
		),
		kong.DefaultEnvars(envarPrefix()),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSettings(ctx, cli.Interp.settings())
	ctx = cmd.WithStreams(ctx, cmd.Streams{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})

	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
