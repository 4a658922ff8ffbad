package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bvlang/bvc/compiler"
	"github.com/bvlang/bvc/compiler/back"
)

func main() {
	genCmd := &cli.Command{
		Name:        "gen",
		Description: "generate C artifacts for built-in example graphs",
		Action:      genAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "directory for artifacts (default: the graph name)"),
			cli.NewFlag("config,c", "", "options file (toml)"),
			cli.NewFlag("force,f", false, "overwrite artifacts already present"),
			cli.NewFlag("checks", true, "guard table reads and shifts at runtime"),
			cli.NewFlag("values", "", "comma separated driver seeds"),
			cli.NewFlag("no-driver", false, "skip the example driver"),
			cli.NewFlag("no-makefile", false, "skip the build recipe"),
		},
	}

	listCmd := &cli.Command{
		Name:        "list",
		Description: "list built-in example graphs",
		Action:      listAct,
	}

	app := &cli.Command{
		Name:        "bvc",
		Description: "bvc lowers bit-vector expression graphs to C",
		Commands: []*cli.Command{
			genCmd,
			listCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func genAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return errors.Wrap(err, "config")
	}

	opts, dir, force, err := options(c, cfg)
	if err != nil {
		return err
	}

	args := []string(c.Args)
	if len(args) == 0 {
		args = exampleNames()
	}

	for _, a := range args {
		err = gen1(ctx, a, opts, dir, force)
		if err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "%v: %v\n", a, err)

			return errors.Wrap(err, "%v", a)
		}
	}

	return nil
}

func gen1(ctx context.Context, name string, opts back.Options, dir string, force bool) error {
	ex, ok := examples[name]
	if !ok {
		return errors.New("unknown graph (try list)")
	}

	g, outs := ex.build()
	opts.OutNames = outs

	res, err := compiler.Compile(ctx, name, g, opts)
	if err != nil {
		return errors.Wrap(err, "compile")
	}

	if dir == "" {
		dir = name
	}

	err = compiler.WriteFiles(ctx, dir, res, force)
	if err != nil {
		return errors.Wrap(err, "write")
	}

	color.New(color.FgGreen).Printf("%s: %d artifacts in %s/\n", name, len(res.Files()), dir)

	return nil
}

func listAct(c *cli.Command) error {
	for _, n := range exampleNames() {
		fmt.Printf("%-10s %s\n", n, examples[n].desc)
	}

	return nil
}

// options layers the effective generation options: built-in defaults,
// then the config file, then flags changed from their defaults.
func options(c *cli.Command, cfg config) (opts back.Options, dir string, force bool, err error) {
	opts.Checks = cfg.Codegen.Checks
	if !c.Bool("checks") {
		opts.Checks = false
	}

	opts.NoDriver = !cfg.Codegen.Driver
	if c.Bool("no-driver") {
		opts.NoDriver = true
	}

	opts.NoMakefile = !cfg.Codegen.Makefile
	if c.Bool("no-makefile") {
		opts.NoMakefile = true
	}

	opts.DriverValues = cfg.Codegen.Values

	if v := c.String("values"); v != "" {
		opts.DriverValues, err = parseValues(v)
		if err != nil {
			return opts, "", false, errors.Wrap(err, "values")
		}
	}

	dir = cfg.Out.Dir
	if d := c.String("output"); d != "" {
		dir = d
	}

	force = cfg.Out.Force || c.Bool("force")

	return opts, dir, force, nil
}

func parseValues(s string) (vals []int64, err error) {
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "%v", f)
		}

		vals = append(vals, v)
	}

	return vals, nil
}
