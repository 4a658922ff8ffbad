package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvlang/bvc/compiler"
	"github.com/bvlang/bvc/compiler/back"
)

func TestExamples(t *testing.T) {
	ctx := context.Background()

	for _, name := range exampleNames() {
		name := name

		t.Run(name, func(t *testing.T) {
			g, outs := examples[name].build()

			res, err := compiler.Compile(ctx, name, g, back.Options{
				Checks:       true,
				OutNames:     outs,
				DriverValues: []int64{100, 200, 3},
			})
			require.NoError(t, err)

			assert.Contains(t, string(res.Header), name+"(")
			assert.True(t, strings.HasSuffix(string(res.Code), "}\n"))
			assert.NotEmpty(t, res.Driver)
			assert.NotEmpty(t, res.Makefile)
		})
	}
}

func TestParseValues(t *testing.T) {
	vals, err := parseValues("1, -2,300")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, -2, 300}, vals)

	_, err = parseValues("1,x")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.Codegen.Checks)
	assert.True(t, cfg.Codegen.Driver)
	assert.True(t, cfg.Codegen.Makefile)

	p := filepath.Join(t.TempDir(), "bvc.toml")

	err = os.WriteFile(p, []byte(`[codegen]
checks = false
values = [1, 2]

[out]
dir = "gen"
`), 0o644)
	require.NoError(t, err)

	cfg, err = loadConfig(p)
	require.NoError(t, err)

	assert.False(t, cfg.Codegen.Checks)
	assert.True(t, cfg.Codegen.Makefile)
	assert.Equal(t, []int64{1, 2}, cfg.Codegen.Values)
	assert.Equal(t, "gen", cfg.Out.Dir)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
