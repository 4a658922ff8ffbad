package ir

import (
	"tlog.app/go/loc"

	"github.com/bvlang/bvc/compiler/tp"
)

type (
	// Builder assembles a Graph. It only appends: handles grow
	// monotonically and code stays in creation order, which the
	// backend relies on.
	Builder struct {
		g Graph

		track bool
		pool  map[poolKey]Expr
	}

	poolKey struct {
		tp  tp.Int
		val uint64
	}
)

func NewBuilder() *Builder {
	return &Builder{
		pool: map[poolKey]Expr{},
	}
}

// TrackCallers records the creation site of every node allocated after
// the call. Sites show up in graph validation failures.
func (b *Builder) TrackCallers(on bool) { b.track = on }

func (b *Builder) alloc(t tp.Int, d int) Expr {
	id := Expr(len(b.g.Types))
	b.g.Types = append(b.g.Types, t)

	if b.track {
		for len(b.g.From) < len(b.g.Types) {
			b.g.From = append(b.g.From, 0)
		}

		b.g.From[id] = loc.Caller(d + 2)
	}

	return id
}

// Input declares a named procedure input.
func (b *Builder) Input(name string, t tp.Int) Expr {
	id := b.alloc(t, 0)
	b.g.In = append(b.g.In, Param{Name: name, Expr: id})

	return id
}

// Const interns v in the constant pool. The same type and truncated
// pattern always yield the same node. Unsigned 1-bit constants fold to
// the False and True sentinels.
func (b *Builder) Const(t tp.Int, v uint64) Expr {
	v = t.Trunc(v)

	if t.Bits == 1 && !t.Signed {
		if v == 0 {
			return False
		}

		return True
	}

	k := poolKey{tp: t, val: v}

	if id, ok := b.pool[k]; ok {
		return id
	}

	id := b.alloc(t, 0)
	b.g.Consts = append(b.g.Consts, Const{Expr: id, Val: v})
	b.pool[k] = id

	return id
}

// ConstInt interns a signed value, truncated to t's width.
func (b *Builder) ConstInt(t tp.Int, v int64) Expr {
	return b.Const(t, uint64(v))
}

// Op appends an assignment computing op into a fresh node of type t.
func (b *Builder) Op(t tp.Int, op any) Expr {
	id := b.alloc(t, 0)
	b.g.Code = append(b.g.Code, Assign{Dst: id, Op: op})

	return id
}

// Table registers a lookup table and returns its index.
// The element list is copied.
func (b *Builder) Table(elem tp.Int, elems []Expr) int {
	idx := len(b.g.Tables)
	b.g.Tables = append(b.g.Tables, Table{
		Index: idx,
		Elem:  elem,
		Elems: append([]Expr{}, elems...),
	})

	return idx
}

// Output appends x to the procedure output list.
func (b *Builder) Output(x Expr) {
	b.g.Out = append(b.g.Out, x)
}

// Array, Uninterpreted and Axiom attach constructs the backend does
// not lower. Generation fails naming the first of them.
func (b *Builder) Array(desc string) {
	b.g.Arrays = append(b.g.Arrays, desc)
}

func (b *Builder) Uninterpreted(desc string) {
	b.g.Uninterps = append(b.g.Uninterps, desc)
}

func (b *Builder) Axiom(desc string) {
	b.g.Axioms = append(b.g.Axioms, desc)
}

// Graph hands over the finished graph. The builder must not be used
// after that.
func (b *Builder) Graph() *Graph {
	return &b.g
}
