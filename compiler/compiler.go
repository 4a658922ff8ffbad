package compiler

import (
	"context"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bvlang/bvc/compiler/back"
	"github.com/bvlang/bvc/compiler/ir"
)

// Compile lowers a finished expression graph into a C procedure named
// name and its companion artifacts.
func Compile(ctx context.Context, name string, g *ir.Graph, opts back.Options) (*back.Result, error) {
	res, err := back.Gen(ctx, g, name, opts)
	if err != nil {
		return nil, errors.Wrap(err, "generate %v", name)
	}

	return res, nil
}

// CompileWith is Compile with an explicit driver seed sequence, zero
// padded beyond its length.
func CompileWith(ctx context.Context, name string, g *ir.Graph, values []int64, opts back.Options) (*back.Result, error) {
	if values == nil {
		values = []int64{}
	}

	opts.DriverValues = values

	return Compile(ctx, name, g, opts)
}

// WriteFiles stores the artifact set under dir, one file per artifact.
// Files already present are kept unless overwrite is set.
func WriteFiles(ctx context.Context, dir string, res *back.Result, overwrite bool) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return errors.Wrap(err, "artifacts dir")
	}

	files := res.Files()

	if !overwrite {
		for name := range files {
			_, err := os.Stat(filepath.Join(dir, name))
			if err == nil {
				return errors.New("%v already exists", name)
			}
		}
	}

	eg, _ := errgroup.WithContext(ctx)

	for name, data := range files {
		name, data := name, data

		eg.Go(func() error {
			err := os.WriteFile(filepath.Join(dir, name), data, 0o644)

			return errors.Wrap(err, "write %v", name)
		})
	}

	err = eg.Wait()
	if err != nil {
		return err
	}

	tlog.SpanFromContext(ctx).Printw("artifacts written", "dir", dir, "files", len(files))

	return nil
}
