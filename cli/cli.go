package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/frisp/cli/cmd"
	"github.com/ardnew/frisp/log"
	"github.com/ardnew/frisp/pkg"
)

// CLI is the top-level command-line interface for frisp.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Lang  langConfig  `embed:"" group:"lang"`

	Run  cmd.Run  `cmd:"" default:"withargs" help:"Evaluate scripts and inline forms"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Reformat scripts"`
	Test cmd.Test `cmd:""                    help:"Run script test suites"`
	Init cmd.Init `cmd:""                    help:"Initialize configuration file"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`
}

// Run executes the frisp CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// handles a flag such as --help itself.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + extLisp)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logger flags before kong reports anything.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Lang.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+extJSON)),
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

	cli.Log.start(ctx)

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.Lang.options(log.Default())...)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
