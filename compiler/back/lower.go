package back

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/bvlang/bvc/compiler/ir"
)

// rhs lowers one operator application to a C expression over node
// names and pooled literals.
func (s *state) rhs(a ir.Assign) (string, error) {
	switch x := a.Op.(type) {
	case ir.Ite:
		return fmt.Sprintf("%s ? %s : %s", s.ref(x.Cond), s.ref(x.Then), s.ref(x.Else)), nil
	case ir.Add:
		return s.binop(x.L, "+", x.R), nil
	case ir.Sub:
		return s.binop(x.L, "-", x.R), nil
	case ir.Mul:
		return s.binop(x.L, "*", x.R), nil
	case ir.Div:
		return s.binop(x.L, "/", x.R), nil
	case ir.Mod:
		return s.binop(x.L, "%", x.R), nil
	case ir.And:
		return s.binop(x.L, "&", x.R), nil
	case ir.Or:
		return s.binop(x.L, "|", x.R), nil
	case ir.Xor:
		return s.binop(x.L, "^", x.R), nil
	case ir.Not:
		return fmt.Sprintf("!%s", s.ref(x.X)), nil
	case ir.Cmp:
		return s.cmp(x)
	case ir.Shl:
		return s.shift(x.X, x.N, "<<")
	case ir.Shr:
		return s.shift(x.X, x.N, ">>")
	case ir.LkUp:
		return s.lookup(x)
	case ir.RotL:
		return "", errors.Wrap(ErrUnsupported, "rotate left by %d", x.N)
	case ir.RotR:
		return "", errors.Wrap(ErrUnsupported, "rotate right by %d", x.N)
	case ir.Extract:
		return "", errors.Wrap(ErrUnsupported, "bit extraction [%d:%d]", x.Hi, x.Lo)
	case ir.Join:
		return "", errors.Wrap(ErrUnsupported, "word concatenation")
	case ir.ArrRead:
		return "", errors.Wrap(ErrUnsupported, "array read: %v", x.Arr)
	case ir.ArrEq:
		return "", errors.Wrap(ErrUnsupported, "array equality: %v, %v", x.A, x.B)
	case ir.Uninterp:
		return "", errors.Wrap(ErrUnsupported, "uninterpreted function %v/%d", x.Name, len(x.In))
	default:
		panic(x)
	}
}

func (s *state) binop(l ir.Expr, op string, r ir.Expr) string {
	return fmt.Sprintf("%s %s %s", s.ref(l), op, s.ref(r))
}

func (s *state) cmp(x ir.Cmp) (string, error) {
	switch x.Cond {
	case ir.Eq, ir.Ne, ir.Lt, ir.Gt, ir.Le, ir.Ge:
	default:
		return "", errors.Wrap(ErrUnsupported, "comparison %q", string(x.Cond))
	}

	return fmt.Sprintf("%s %s %s", s.ref(x.L), string(x.Cond), s.ref(x.R)), nil
}

// shift lowers a constant-amount shift. Shifting by zero is the
// operand itself. C leaves signed operands and escaping amounts
// undefined, so the former never lowers and the latter fails while
// checks are on.
func (s *state) shift(x ir.Expr, n int, op string) (string, error) {
	t := s.Type(x)

	if t.Signed {
		return "", errors.Wrap(ErrUnsupported, "shift of a signed operand (i%d)", t.Bits)
	}

	if n == 0 {
		return s.ref(x), nil
	}

	if s.opts.Checks && (n < 0 || n >= t.Bits) {
		return "", errors.Wrap(ErrValue, "shift by %d on u%d", n, t.Bits)
	}

	return fmt.Sprintf("%s %s %d", s.ref(x), op, n), nil
}

// lookup lowers a table read. With checks on, the guard covers only
// the escapes the index type leaves reachable: an unsigned index needs
// no lower bound, and an index too narrow to pass the table end needs
// no upper bound.
func (s *state) lookup(x ir.LkUp) (string, error) {
	t := s.Tables[x.Table]
	it := s.Type(x.Index)

	idx := s.ref(x.Index)
	read := fmt.Sprintf("table%d[%s]", x.Table, idx)

	if !s.opts.Checks {
		return read, nil
	}

	var low, high string

	if it.Signed {
		low = fmt.Sprintf("%s < 0", idx)
	}

	if it.MaxMag() >= uint64(len(t.Elems)) {
		high = fmt.Sprintf("%s >= %d", idx, len(t.Elems))
	}

	switch {
	case low == "" && high == "":
		return read, nil
	case low == "":
		return fmt.Sprintf("(%s) ? %s : %s", high, s.ref(x.Def), read), nil
	case high == "":
		return fmt.Sprintf("(%s) ? %s : %s", low, s.ref(x.Def), read), nil
	default:
		return fmt.Sprintf("((%s) || (%s)) ? %s : %s", low, high, s.ref(x.Def), read), nil
	}
}
