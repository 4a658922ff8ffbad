package ir

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog/tlwire"

	"github.com/bvlang/bvc/compiler/tp"
)

type (
	// Expr is a node handle in the graph arena. The handle is the
	// node's identity and its ordering: operands always carry smaller
	// handles than the nodes computed from them.
	Expr int

	Cond string

	// Param binds a display name to a node.
	Param struct {
		Name string
		Expr Expr
	}

	// Const is a pool entry: a node statically known to hold Val.
	// Val is the canonical width-truncated bit pattern.
	Const struct {
		Expr Expr
		Val  uint64
	}

	// Table is a lookup array of nodes, all of type Elem.
	// Elems is never mutated once captured.
	Table struct {
		Index int
		Elem  tp.Int
		Elems []Expr
	}

	// Assign binds the operator application Op to the node Dst.
	Assign struct {
		Dst Expr
		Op  any
	}

	// Graph is a finished expression graph. Code is ordered by
	// strictly increasing Dst, and every operand handle is smaller
	// than the node using it.
	Graph struct {
		Types []tp.Int // node handle -> value type

		In     []Param
		Consts []Const
		Tables []Table
		Code   []Assign
		Out    []Expr

		// From records node creation sites when the builder tracks
		// them. May be nil or shorter than Types.
		From []loc.PC

		// Constructs the backend refuses to lower. Descriptions only.
		Arrays    []string
		Uninterps []string
		Axioms    []string
	}

	Ite struct {
		Cond Expr
		Then Expr
		Else Expr
	}

	Add struct{ L, R Expr }
	Sub struct{ L, R Expr }
	Mul struct{ L, R Expr }
	Div struct{ L, R Expr }
	Mod struct{ L, R Expr }

	And struct{ L, R Expr }
	Or  struct{ L, R Expr }
	Xor struct{ L, R Expr }

	Not struct{ X Expr }

	Cmp struct {
		Cond Cond
		L, R Expr
	}

	Shl struct {
		X Expr
		N int
	}

	Shr struct {
		X Expr
		N int
	}

	// LkUp reads table Table at Index, falling back to Def when the
	// index may escape the table and runtime checks are on.
	LkUp struct {
		Table int
		Index Expr
		Def   Expr
	}

	// Operators below are part of the graph vocabulary so upstream
	// builders can be named in rejections. They are never lowered.

	RotL struct {
		X Expr
		N int
	}

	RotR struct {
		X Expr
		N int
	}

	Extract struct {
		X      Expr
		Hi, Lo int
	}

	Join struct{ L, R Expr }

	ArrRead struct {
		Arr   string
		Index Expr
	}

	ArrEq struct {
		A, B string
	}

	Uninterp struct {
		Name string
		In   []Expr
	}
)

// Boolean sentinels. They order before every allocated node and act as
// implicit pool entries.
const (
	False Expr = -2
	True  Expr = -1
)

const (
	Eq Cond = "=="
	Ne Cond = "!="
	Lt Cond = "<"
	Gt Cond = ">"
	Le Cond = "<="
	Ge Cond = ">="
)

func (x Expr) Sentinel() bool { return x < 0 }

// Type resolves a node's value type. Sentinels are boolean.
func (g *Graph) Type(x Expr) tp.Int {
	if x.Sentinel() {
		return tp.Bool()
	}

	return g.Types[x]
}

// ConstVal finds x in the constant pool.
func (g *Graph) ConstVal(x Expr) (uint64, bool) {
	switch x {
	case False:
		return 0, true
	case True:
		return 1, true
	}

	for _, c := range g.Consts {
		if c.Expr == x {
			return c.Val, true
		}
	}

	return 0, false
}

// At reports where x was allocated, if the builder tracked it.
func (g *Graph) At(x Expr) (loc.PC, bool) {
	if x < 0 || int(x) >= len(g.From) || g.From[x] == 0 {
		return 0, false
	}

	return g.From[x], true
}

func (p Param) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 2)

	b = e.AppendKeyString(b, "name", p.Name)
	b = e.AppendKeyInt(b, "id", int(p.Expr))

	return b
}

func (x Expr) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendInt(b, int(x))
}
