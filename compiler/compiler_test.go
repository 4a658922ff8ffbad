package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvlang/bvc/compiler/back"
	"github.com/bvlang/bvc/compiler/ir"
	"github.com/bvlang/bvc/compiler/tp"
)

func obfGraph() *ir.Graph {
	b := ir.NewBuilder()
	u8 := tp.Word(8)

	x := b.Input("x", u8)
	b.Output(b.Op(u8, ir.Xor{L: x, R: b.Const(u8, 0x5a)}))

	return b.Graph()
}

func TestCompileWriteFiles(t *testing.T) {
	ctx := context.Background()

	res, err := CompileWith(ctx, "obf", obfGraph(), []int64{7}, back.Options{Checks: true})
	require.NoError(t, err)

	dir := t.TempDir()

	err = WriteFiles(ctx, dir, res, false)
	require.NoError(t, err)

	files := res.Files()
	require.Len(t, files, 4)

	for name, data := range files {
		stored, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, "%v", name)
		assert.Equal(t, data, stored, "%v", name)
	}

	err = WriteFiles(ctx, dir, res, false)
	assert.Error(t, err, "artifacts are already there")

	err = WriteFiles(ctx, dir, res, true)
	assert.NoError(t, err)
}

func TestCompileWithPadsSeeds(t *testing.T) {
	b := ir.NewBuilder()
	u8 := tp.Word(8)

	x := b.Input("x", u8)
	y := b.Input("y", u8)
	b.Output(b.Op(u8, ir.Add{L: x, R: y}))

	res, err := CompileWith(context.Background(), "pad", b.Graph(), []int64{300}, back.Options{})
	require.NoError(t, err)

	assert.Contains(t, string(res.Driver), "const SWord8 x = 44;")
	assert.Contains(t, string(res.Driver), "const SWord8 y = 0;")
}

func TestCompileDeterministic(t *testing.T) {
	ctx := context.Background()
	g := obfGraph()

	r1, err := CompileWith(ctx, "obf", g, []int64{9}, back.Options{})
	require.NoError(t, err)

	r2, err := CompileWith(ctx, "obf", g, []int64{9}, back.Options{})
	require.NoError(t, err)

	if d := cmp.Diff(string(r1.Driver), string(r2.Driver)); d != "" {
		t.Errorf("drivers differ:\n%s", d)
	}
}

func TestCompileError(t *testing.T) {
	b := ir.NewBuilder()

	x := b.Input("x", tp.Word(8))
	b.Output(x)
	b.Axiom("x is even")

	_, err := Compile(context.Background(), "ax", b.Graph(), back.Options{})
	assert.ErrorIs(t, err, back.ErrUnsupported)
}
