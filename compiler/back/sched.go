package back

import (
	"fmt"
	"strings"

	"nikand.dev/go/heap"
	"tlog.app/go/errors"

	"github.com/bvlang/bvc/compiler/ir"
)

type (
	line struct {
		id  ir.Expr
		ct  string
		rhs string
	}

	tdecl struct {
		pos ir.Expr
		tab ir.Table
	}

	item struct {
		decl bool // table declaration, not an assignment
		line line
		tab  tdecl
	}
)

// tablePos derives where a table lands in the statement stream: the
// highest non-pooled element node, or -1 when every element is pooled
// and the table can hoist to the top as static data.
func (s *state) tablePos(t ir.Table) ir.Expr {
	pos := ir.Expr(-1)

	for _, e := range t.Elems {
		if _, ok := s.lit[e]; ok {
			continue
		}

		if e > pos {
			pos = e
		}
	}

	return pos
}

// schedule merges the assignment stream with table declarations.
// Lines come ordered by node identity. Each table lands immediately
// before the first assignment past its position, leftovers land after
// the last assignment.
func (s *state) schedule(lines []line) []item {
	h := heap.Heap[tdecl]{
		Less: func(d []tdecl, i, j int) bool { return d[i].pos < d[j].pos },
	}

	for _, t := range s.Tables {
		h.Push(tdecl{pos: s.tablePos(t), tab: t})
	}

	items := make([]item, 0, len(lines)+len(s.Tables))

	for _, l := range lines {
		for h.Len() != 0 && h.Data[0].pos < l.id {
			items = append(items, item{decl: true, tab: h.Pop()})
		}

		items = append(items, item{line: l})
	}

	for h.Len() != 0 {
		items = append(items, item{decl: true, tab: h.Pop()})
	}

	return items
}

// appendItems renders the statement stream. Local types right-align to
// the widest one, and a blank line separates a run of table
// declarations from a run of assignments.
func (s *state) appendItems(b []byte, items []item) ([]byte, error) {
	w := 0

	for _, it := range items {
		if !it.decl && len(it.line.ct) > w {
			w = len(it.line.ct)
		}
	}

	for i, it := range items {
		if i != 0 && items[i-1].decl != it.decl {
			b = append(b, '\n')
		}

		if !it.decl {
			b = fmt.Appendf(b, "  const %*s s%d = %s;\n", w, it.line.ct, int(it.line.id), it.line.rhs)
			continue
		}

		var err error

		b, err = s.appendTable(b, it.tab)
		if err != nil {
			return nil, err
		}
	}

	return b, nil
}

// appendTable renders one lookup array, eight elements a row. Fully
// pooled tables are static, tables with computed elements are plain
// const locals.
func (s *state) appendTable(b []byte, td tdecl) ([]byte, error) {
	ct, err := cType(td.tab.Elem)
	if err != nil {
		return nil, errors.Wrap(err, "table%d", td.tab.Index)
	}

	static := ""
	if td.pos < 0 {
		static = "static "
	}

	b = fmt.Appendf(b, "  %sconst %s table%d[] = {\n", static, ct, td.tab.Index)

	for i := 0; i < len(td.tab.Elems); i += 8 {
		row := td.tab.Elems[i:min(i+8, len(td.tab.Elems))]

		refs := make([]string, len(row))
		for j, e := range row {
			refs[j] = s.ref(e)
		}

		b = fmt.Appendf(b, "      %s", strings.Join(refs, ", "))

		if i+8 < len(td.tab.Elems) {
			b = append(b, ',')
		}

		b = append(b, '\n')
	}

	b = append(b, "  };\n"...)

	return b, nil
}
