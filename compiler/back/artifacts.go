package back

import (
	"fmt"
	"strings"

	"tlog.app/go/errors"

	"github.com/bvlang/bvc/compiler/tp"
)

// genHeader renders the include file: fixed-width carrier typedefs and
// the procedure prototype.
func genHeader(s *state, sg sig) (_ []byte, err error) {
	b := fmt.Appendf(nil, `/* Header file for %s. %s */

#ifndef %[3]s
#define %[3]s

#include <stdint.h>
#include <inttypes.h>

/* The boolean type */
typedef uint8_t SBool;

/* Unsigned bit-vectors */
typedef uint8_t  SWord8;
typedef uint16_t SWord16;
typedef uint32_t SWord32;
typedef uint64_t SWord64;

/* Signed bit-vectors */
typedef int8_t  SInt8;
typedef int16_t SInt16;
typedef int32_t SInt32;
typedef int64_t SInt64;

/* Entry point prototype: */
`, sg.name, genNote, guard(sg.name))

	b, err = s.appendProto(b, sg)
	if err != nil {
		return nil, err
	}

	b = fmt.Appendf(b, ";\n\n#endif /* %s */\n", guard(sg.name))

	return b, nil
}

// guard is the include guard macro for a unit name.
func guard(name string) string {
	return strings.ToUpper(name) + "__HEADER_INCLUDED"
}

// genDriver renders a standalone main binding each input to a sample
// value, calling the procedure and printing every output.
func genDriver(s *state, sg sig, vals []int64) (_ []byte, err error) {
	b := fmt.Appendf(nil, `/* Example driver program for %s. */
/* Automatically generated by bvc. Edit as you see fit! */

#include <stdio.h>

#include "%[1]s.h"

int main(void)
{
`, sg.name)

	args := make([]string, 0, len(sg.in)+len(sg.out))

	for i, p := range sg.in {
		t := s.Type(p.Expr)

		ct, err := cType(t)
		if err != nil {
			return nil, errors.Wrap(err, "input %v", p.Name)
		}

		lit, err := cLit(seedValue(t, vals[i]), t)
		if err != nil {
			return nil, errors.Wrap(err, "input %v", p.Name)
		}

		b = fmt.Appendf(b, "  const %s %s = %s;\n", ct, p.Name, lit)

		args = append(args, p.Name)
	}

	switch {
	case sg.ret:
		p := sg.out[0]

		ct, err := cType(s.Type(p.Expr))
		if err != nil {
			return nil, errors.Wrap(err, "output %v", p.Name)
		}

		if len(sg.in) != 0 {
			b = append(b, '\n')
		}

		b = fmt.Appendf(b, "  const %s %s = %s(%s);\n", ct, p.Name, sg.name, strings.Join(args, ", "))
	case len(sg.out) != 0:
		for _, p := range sg.out {
			ct, err := cType(s.Type(p.Expr))
			if err != nil {
				return nil, errors.Wrap(err, "output %v", p.Name)
			}

			b = fmt.Appendf(b, "  %s %s;\n", ct, p.Name)

			args = append(args, "&"+p.Name)
		}

		b = append(b, '\n')
		b = fmt.Appendf(b, "  %s(%s);\n", sg.name, strings.Join(args, ", "))
	default:
		if len(sg.in) != 0 {
			b = append(b, '\n')
		}

		b = fmt.Appendf(b, "  %s(%s);\n", sg.name, strings.Join(args, ", "))
	}

	if len(sg.out) != 0 {
		b = append(b, '\n')

		for _, p := range sg.out {
			f, err := cFormat(s.Type(p.Expr))
			if err != nil {
				return nil, errors.Wrap(err, "output %v", p.Name)
			}

			b = fmt.Appendf(b, "  printf(\"%s = %s\\n\", %s);\n", p.Name, f, p.Name)
		}
	}

	b = append(b, "\n  return 0;\n}\n"...)

	return b, nil
}

// seedValue reduces a raw seed to a bit pattern of t: the magnitude
// truncates to the lane width, then signed lanes recenter around zero
// so small seeds reach negative values too.
func seedValue(t tp.Int, seed int64) uint64 {
	u := uint64(seed)
	if seed < 0 {
		u = -u
	}

	u = t.Trunc(u)

	if t.Signed {
		u = t.Trunc(u - uint64(1)<<(t.Bits-1))
	}

	return u
}

// genMakefile renders the build recipe for the unit, the driver and
// the link step.
func genMakefile(name string) []byte {
	return fmt.Appendf(nil, `# Makefile for %s. %s

CC?=gcc
CCFLAGS?=-Wall -O3 -DNDEBUG -fomit-frame-pointer

all: %[1]s_driver

%[1]s.o: %[1]s.c %[1]s.h
	$(CC) $(CCFLAGS) -c $< -o $@

%[1]s_driver.o: %[1]s_driver.c
	$(CC) $(CCFLAGS) -c $< -o $@

%[1]s_driver: %[1]s.o %[1]s_driver.o
	$(CC) $(CCFLAGS) $^ -o $@

clean:
	rm -f *.o

veryclean: clean
	rm -f %[1]s_driver
`, name, genNote)
}
