package main

import (
	"sort"

	"github.com/bvlang/bvc/compiler/ir"
	"github.com/bvlang/bvc/compiler/tp"
)

type example struct {
	desc  string
	build func() (*ir.Graph, []string)
}

var examples = map[string]example{
	"twice": {
		desc:  "double a byte: the smallest possible unit",
		build: twice,
	},
	"addsub": {
		desc:  "sum and difference of two bytes, two outputs",
		build: addsub,
	},
	"sbox": {
		desc:  "substitution box: a static table and a guarded read",
		build: sbox,
	},
	"window": {
		desc:  "a table computed from the inputs, read back by index",
		build: window,
	},
	"mix": {
		desc:  "64-bit avalanche mixer: shifts, xors, multiplies",
		build: mix,
	},
	"clamp": {
		desc:  "clamp a signed byte into [-100, 100]",
		build: clamp,
	},
}

func exampleNames() []string {
	names := make([]string, 0, len(examples))

	for n := range examples {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

func twice() (*ir.Graph, []string) {
	b := ir.NewBuilder()

	x := b.Input("x", tp.Word(8))
	b.Output(b.Op(tp.Word(8), ir.Add{L: x, R: x}))

	return b.Graph(), nil
}

func addsub() (*ir.Graph, []string) {
	b := ir.NewBuilder()
	u8 := tp.Word(8)

	x := b.Input("x", u8)
	y := b.Input("y", u8)

	b.Output(b.Op(u8, ir.Add{L: x, R: y}))
	b.Output(b.Op(u8, ir.Sub{L: x, R: y}))

	return b.Graph(), []string{"sum", "dif"}
}

// sbox substitutes the low nibble through a table too short for its
// index type, so the read keeps its fallback.
func sbox() (*ir.Graph, []string) {
	b := ir.NewBuilder()
	u8 := tp.Word(8)

	x := b.Input("x", u8)

	elems := make([]ir.Expr, 11)
	for i := range elems {
		elems[i] = b.Const(u8, uint64(i*i*7)%251)
	}

	t := b.Table(u8, elems)

	lo := b.Op(u8, ir.And{L: x, R: b.Const(u8, 0x0f)})
	b.Output(b.Op(u8, ir.LkUp{Table: t, Index: lo, Def: b.Const(u8, 0xff)}))

	return b.Graph(), []string{"sub"}
}

func window() (*ir.Graph, []string) {
	b := ir.NewBuilder()
	u16 := tp.Word(16)

	a := b.Input("a", u16)
	c := b.Input("c", u16)
	i := b.Input("i", tp.Word(8))

	sum := b.Op(u16, ir.Add{L: a, R: c})
	prod := b.Op(u16, ir.Mul{L: a, R: c})
	mixd := b.Op(u16, ir.Xor{L: sum, R: prod})

	t := b.Table(u16, []ir.Expr{sum, prod, mixd, b.Const(u16, 0)})

	b.Output(b.Op(u16, ir.LkUp{Table: t, Index: i, Def: b.Const(u16, 0)}))

	return b.Graph(), []string{"w"}
}

// mix is the 64-bit murmur finalizer, trimmed to one multiply round.
func mix() (*ir.Graph, []string) {
	b := ir.NewBuilder()
	u64 := tp.Word(64)

	x := b.Input("x", u64)

	h := b.Op(u64, ir.Xor{L: x, R: b.Op(u64, ir.Shr{X: x, N: 33})})
	h = b.Op(u64, ir.Mul{L: h, R: b.Const(u64, 0xff51afd7ed558ccd)})
	h = b.Op(u64, ir.Xor{L: h, R: b.Op(u64, ir.Shr{X: h, N: 33})})

	b.Output(h)

	return b.Graph(), []string{"hash"}
}

func clamp() (*ir.Graph, []string) {
	b := ir.NewBuilder()
	i8 := tp.SInt(8)

	x := b.Input("x", i8)
	lo := b.ConstInt(i8, -100)
	hi := b.ConstInt(i8, 100)

	under := b.Op(tp.Bool(), ir.Cmp{Cond: ir.Lt, L: x, R: lo})
	over := b.Op(tp.Bool(), ir.Cmp{Cond: ir.Gt, L: x, R: hi})

	v := b.Op(i8, ir.Ite{Cond: under, Then: lo, Else: x})
	v = b.Op(i8, ir.Ite{Cond: over, Then: hi, Else: v})

	b.Output(v)

	return b.Graph(), []string{"clamped"}
}
