package back

import (
	"context"
	"fmt"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/bvlang/bvc/compiler/ir"
)

// Generation failures wrap one of these, except defects of the graph
// structure itself, which come back as plain descriptive errors.
var (
	ErrUnsupported = errors.New("unsupported construct")
	ErrWidth       = errors.New("unsupported width")
	ErrValue       = errors.New("unsupported value")
)

type (
	Options struct {
		// Checks guards table reads and shifts at runtime where the
		// operand type does not already rule the escape out.
		Checks bool

		NoDriver   bool
		NoMakefile bool

		// DriverValues seed the driver inputs, zero padded beyond the
		// list. nil draws from the process random source.
		DriverValues []int64

		// OutNames name the procedure outputs. Missing and empty
		// entries fall back to the out<n> scheme. Listing more names
		// than the graph has outputs is a caller defect and panics.
		OutNames []string
	}

	// Result holds the generated artifacts. Driver and Makefile are
	// nil when switched off.
	Result struct {
		Name string

		Header   []byte
		Code     []byte
		Driver   []byte
		Makefile []byte
	}

	sig struct {
		name string
		in   []ir.Param
		out  []ir.Param
		ret  bool // single output, returned by value
	}

	state struct {
		*ir.Graph

		opts Options

		lit map[ir.Expr]string // pool and sentinel nodes, pre-rendered
	}
)

const genNote = "Automatically generated by bvc. Do not edit!"

// Gen lowers a finished graph into the C artifact set.
//
// The graph is read only and entropy for the driver is drawn up front,
// so the artifacts are a pure function of the arguments. Individual
// artifacts render concurrently.
func Gen(ctx context.Context, g *ir.Graph, name string, opts Options) (_ *Result, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "generate c unit",
		"name", name, "in", len(g.In), "out", len(g.Out), "code", len(g.Code), "tables", len(g.Tables))
	defer tr.Finish("err", &err)

	sg := makeSig(g, name, opts.OutNames)

	bound, err := validate(g, sg)
	if err != nil {
		return nil, errors.Wrap(err, "validate")
	}

	tr.V("graph").Printw("graph checked", "nodes", len(g.Types), "bound", bound.Size(), "bound_set", bound)

	s, err := newState(g, opts)
	if err != nil {
		return nil, errors.Wrap(err, "render pool")
	}

	var vals []int64
	if !opts.NoDriver {
		vals = driverValues(g, opts)
	}

	res := &Result{Name: name}

	eg, _ := errgroup.WithContext(ctx)

	eg.Go(func() (err error) {
		res.Header, err = genHeader(s, sg)
		return errors.Wrap(err, "header")
	})

	eg.Go(func() (err error) {
		res.Code, err = genCode(s, sg)
		return errors.Wrap(err, "code")
	})

	if !opts.NoDriver {
		eg.Go(func() (err error) {
			res.Driver, err = genDriver(s, sg, vals)
			return errors.Wrap(err, "driver")
		})
	}

	if !opts.NoMakefile {
		res.Makefile = genMakefile(name)
	}

	err = eg.Wait()
	if err != nil {
		return nil, err
	}

	if tr.If("artifacts") {
		tr.Printw("generated", "header", string(res.Header), "code", string(res.Code))
	}

	return res, nil
}

// Files maps artifact file names to contents, ready to be stored.
func (r *Result) Files() map[string][]byte {
	f := map[string][]byte{
		r.Name + ".h": r.Header,
		r.Name + ".c": r.Code,
	}

	if r.Driver != nil {
		f[r.Name+"_driver.c"] = r.Driver
	}

	if r.Makefile != nil {
		f["Makefile"] = r.Makefile
	}

	return f
}

func makeSig(g *ir.Graph, name string, names []string) sig {
	if len(names) > len(g.Out) {
		panic(fmt.Sprintf("%d output names for %d outputs", len(names), len(g.Out)))
	}

	out := make([]ir.Param, len(g.Out))

	for i, x := range g.Out {
		n := ""
		if i < len(names) {
			n = names[i]
		}
		if n == "" {
			n = fmt.Sprintf("out%d", i)
		}

		out[i] = ir.Param{Name: n, Expr: x}
	}

	return sig{
		name: name,
		in:   g.In,
		out:  out,
		ret:  len(out) == 1,
	}
}

func newState(g *ir.Graph, opts Options) (*state, error) {
	s := &state{
		Graph: g,
		opts:  opts,
		lit:   make(map[ir.Expr]string, len(g.Consts)+2),
	}

	s.lit[ir.False] = "0"
	s.lit[ir.True] = "1"

	for _, c := range g.Consts {
		l, err := cLit(c.Val, g.Type(c.Expr))
		if err != nil {
			return nil, errors.Wrap(err, "node s%d", int(c.Expr))
		}

		s.lit[c.Expr] = l
	}

	return s, nil
}

// ref is the C spelling of a node: its pooled literal if it has one,
// the s<id> local otherwise.
func (s *state) ref(x ir.Expr) string {
	if l, ok := s.lit[x]; ok {
		return l
	}

	return fmt.Sprintf("s%d", int(x))
}

func driverValues(g *ir.Graph, opts Options) []int64 {
	vals := make([]int64, len(g.In))

	if opts.DriverValues == nil {
		for i := range vals {
			vals[i] = rand.Int63()
		}

		return vals
	}

	copy(vals, opts.DriverValues)

	return vals
}

// appendProto renders the procedure head without the trailing
// semicolon. A single output returns by value, any other number comes
// back through pointer parameters placed after the inputs.
func (s *state) appendProto(b []byte, sg sig) ([]byte, error) {
	ret := "void"

	if sg.ret {
		t, err := cType(s.Type(sg.out[0].Expr))
		if err != nil {
			return nil, errors.Wrap(err, "output %v", sg.out[0].Name)
		}

		ret = t
	}

	b = fmt.Appendf(b, "%s %s(", ret, sg.name)

	if len(sg.in) == 0 && (sg.ret || len(sg.out) == 0) {
		return append(b, "void)"...), nil
	}

	for i, p := range sg.in {
		t, err := cType(s.Type(p.Expr))
		if err != nil {
			return nil, errors.Wrap(err, "input %v", p.Name)
		}

		if i != 0 {
			b = append(b, ", "...)
		}

		b = fmt.Appendf(b, "const %s %s", t, p.Name)
	}

	if !sg.ret {
		for i, p := range sg.out {
			t, err := cType(s.Type(p.Expr))
			if err != nil {
				return nil, errors.Wrap(err, "output %v", p.Name)
			}

			if i != 0 || len(sg.in) != 0 {
				b = append(b, ", "...)
			}

			b = fmt.Appendf(b, "%s *%s", t, p.Name)
		}
	}

	return append(b, ')'), nil
}

// genCode renders the implementation unit: the procedure with its
// scheduled body.
func genCode(s *state, sg sig) (_ []byte, err error) {
	b := fmt.Appendf(nil, "/* Implementation of %s. %s */\n\n#include \"%s.h\"\n\n", sg.name, genNote, sg.name)

	b, err = s.appendProto(b, sg)
	if err != nil {
		return nil, err
	}

	b = append(b, "\n{\n"...)

	lines, err := s.bodyLines()
	if err != nil {
		return nil, err
	}

	items := s.schedule(lines)

	b, err = s.appendItems(b, items)
	if err != nil {
		return nil, err
	}

	b = s.appendTail(b, sg, len(items) != 0)

	b = append(b, "}\n"...)

	return b, nil
}

// bodyLines lowers the assignment stream: a copy per input not already
// named after its node, then the expression assignments in list order.
func (s *state) bodyLines() (lines []line, err error) {
	for _, p := range s.In {
		if p.Name == fmt.Sprintf("s%d", int(p.Expr)) {
			continue
		}

		ct, err := cType(s.Type(p.Expr))
		if err != nil {
			return nil, errors.Wrap(err, "input %v", p.Name)
		}

		lines = append(lines, line{id: p.Expr, ct: ct, rhs: p.Name})
	}

	for _, a := range s.Code {
		rhs, err := s.rhs(a)
		if err != nil {
			return nil, errors.Wrap(err, "node s%d", int(a.Dst))
		}

		ct, err := cType(s.Type(a.Dst))
		if err != nil {
			return nil, errors.Wrap(err, "node s%d", int(a.Dst))
		}

		lines = append(lines, line{id: a.Dst, ct: ct, rhs: rhs})
	}

	return lines, nil
}

func (s *state) appendTail(b []byte, sg sig, body bool) []byte {
	if len(sg.out) == 0 {
		return b
	}

	if body {
		b = append(b, '\n')
	}

	if sg.ret {
		return fmt.Appendf(b, "  return %s;\n", s.ref(sg.out[0].Expr))
	}

	for _, p := range sg.out {
		b = fmt.Appendf(b, "  *%s = %s;\n", p.Name, s.ref(p.Expr))
	}

	return b
}
