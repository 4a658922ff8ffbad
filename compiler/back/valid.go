package back

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/bvlang/bvc/compiler/ir"
	"github.com/bvlang/bvc/compiler/set"
)

// validate asserts the handover contract on a finished graph and
// screens out constructs with no C lowering. It returns the set of
// bound nodes for diagnostics.
func validate(g *ir.Graph, sg sig) (bound set.Bitmap, err error) {
	if !cIdent(sg.name) {
		return bound, errors.Wrap(ErrValue, "procedure name %q", sg.name)
	}

	if len(g.Arrays) != 0 {
		return bound, errors.Wrap(ErrUnsupported, "array: %v", g.Arrays[0])
	}

	if len(g.Uninterps) != 0 {
		return bound, errors.Wrap(ErrUnsupported, "uninterpreted function: %v", g.Uninterps[0])
	}

	if len(g.Axioms) != 0 {
		return bound, errors.Wrap(ErrUnsupported, "axiom: %v", g.Axioms[0])
	}

	bound = set.MakeBitmap(len(g.Types))
	names := map[string]struct{}{sg.name: {}}

	last := ir.Expr(-1)

	for _, p := range g.In {
		switch {
		case !cIdent(p.Name):
			return bound, errors.Wrap(ErrValue, "input name %q", p.Name)
		case nodeName(p.Name) && p.Name != fmt.Sprintf("s%d", int(p.Expr)):
			return bound, errors.Wrap(ErrValue, "input name %q shadows a generated local", p.Name)
		}

		if _, ok := names[p.Name]; ok {
			return bound, errors.Wrap(ErrValue, "duplicate input name %q", p.Name)
		}

		names[p.Name] = struct{}{}

		err = checkNode(g, p.Expr)
		if err != nil {
			return bound, errors.Wrap(err, "input %v", p.Name)
		}

		if p.Expr <= last {
			return bound, errors.New("input %v: node s%d out of order", p.Name, int(p.Expr))
		}

		last = p.Expr
		bound.Set(int(p.Expr))
	}

	for _, c := range g.Consts {
		err = checkNode(g, c.Expr)
		if err != nil {
			return bound, errors.Wrap(err, "const pool")
		}

		if bound.IsSet(int(c.Expr)) {
			return bound, errors.New("node s%d bound twice%s", int(c.Expr), at(g, c.Expr))
		}

		bound.Set(int(c.Expr))
	}

	lastIn := last
	last = ir.Expr(-1)

	for i, a := range g.Code {
		err = checkNode(g, a.Dst)
		if err != nil {
			return bound, errors.Wrap(err, "code %d", i)
		}

		if a.Dst <= last || a.Dst <= lastIn {
			return bound, errors.New("node s%d assigned out of order%s", int(a.Dst), at(g, a.Dst))
		}

		if bound.IsSet(int(a.Dst)) {
			return bound, errors.New("node s%d bound twice%s", int(a.Dst), at(g, a.Dst))
		}

		for _, o := range operands(a.Op) {
			err = checkRef(g, &bound, o)
			if err != nil {
				return bound, errors.Wrap(err, "node s%d%s", int(a.Dst), at(g, a.Dst))
			}
		}

		if lk, ok := a.Op.(ir.LkUp); ok {
			if lk.Table < 0 || lk.Table >= len(g.Tables) {
				return bound, errors.New("node s%d: no table%d", int(a.Dst), lk.Table)
			}

			// The table lands at its highest element, so a read needs
			// every element already settled.
			for i, e := range g.Tables[lk.Table].Elems {
				err = checkRef(g, &bound, e)
				if err != nil {
					return bound, errors.Wrap(err, "node s%d: table%d element %d", int(a.Dst), lk.Table, i)
				}
			}
		}

		bound.Set(int(a.Dst))
		last = a.Dst
	}

	for i, t := range g.Tables {
		if t.Index != i {
			return bound, errors.New("table%d carries index %d", i, t.Index)
		}

		if len(t.Elems) == 0 {
			return bound, errors.Wrap(ErrUnsupported, "empty table%d", t.Index)
		}

		for i, e := range t.Elems {
			err = checkRef(g, &bound, e)
			if err != nil {
				return bound, errors.Wrap(err, "table%d element %d", t.Index, i)
			}
		}
	}

	for i, x := range g.Out {
		err = checkRef(g, &bound, x)
		if err != nil {
			return bound, errors.Wrap(err, "output %d", i)
		}
	}

	for _, p := range sg.out {
		switch {
		case !cIdent(p.Name):
			return bound, errors.Wrap(ErrValue, "output name %q", p.Name)
		case nodeName(p.Name):
			return bound, errors.Wrap(ErrValue, "output name %q shadows a generated local", p.Name)
		}

		if _, ok := names[p.Name]; ok {
			return bound, errors.Wrap(ErrValue, "duplicate output name %q", p.Name)
		}

		names[p.Name] = struct{}{}
	}

	return bound, nil
}

// operands lists the node references an operator consumes.
func operands(op any) []ir.Expr {
	switch x := op.(type) {
	case ir.Ite:
		return []ir.Expr{x.Cond, x.Then, x.Else}
	case ir.Add:
		return []ir.Expr{x.L, x.R}
	case ir.Sub:
		return []ir.Expr{x.L, x.R}
	case ir.Mul:
		return []ir.Expr{x.L, x.R}
	case ir.Div:
		return []ir.Expr{x.L, x.R}
	case ir.Mod:
		return []ir.Expr{x.L, x.R}
	case ir.And:
		return []ir.Expr{x.L, x.R}
	case ir.Or:
		return []ir.Expr{x.L, x.R}
	case ir.Xor:
		return []ir.Expr{x.L, x.R}
	case ir.Not:
		return []ir.Expr{x.X}
	case ir.Cmp:
		return []ir.Expr{x.L, x.R}
	case ir.Shl:
		return []ir.Expr{x.X}
	case ir.Shr:
		return []ir.Expr{x.X}
	case ir.LkUp:
		return []ir.Expr{x.Index, x.Def}
	case ir.RotL:
		return []ir.Expr{x.X}
	case ir.RotR:
		return []ir.Expr{x.X}
	case ir.Extract:
		return []ir.Expr{x.X}
	case ir.Join:
		return []ir.Expr{x.L, x.R}
	case ir.ArrRead:
		return []ir.Expr{x.Index}
	case ir.ArrEq:
		return nil
	case ir.Uninterp:
		return x.In
	default:
		panic(x)
	}
}

func checkNode(g *ir.Graph, x ir.Expr) error {
	if x < 0 || int(x) >= len(g.Types) {
		return errors.New("node s%d does not exist", int(x))
	}

	return nil
}

func checkRef(g *ir.Graph, bound *set.Bitmap, x ir.Expr) error {
	switch {
	case x == ir.False || x == ir.True:
		return nil
	case x < 0 || int(x) >= len(g.Types):
		return errors.New("node s%d does not exist", int(x))
	case !bound.IsSet(int(x)):
		return errors.New("node s%d used before definition%s", int(x), at(g, x))
	}

	return nil
}

func at(g *ir.Graph, x ir.Expr) string {
	pc, ok := g.At(x)
	if !ok {
		return ""
	}

	return fmt.Sprintf(" (created at %v)", pc)
}
