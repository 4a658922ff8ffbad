package back

import (
	"fmt"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/bvlang/bvc/compiler/tp"
)

// cReserved holds C keywords plus names the generated units claim for
// themselves.
var cReserved = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "register": {},
	"restrict": {}, "return": {}, "short": {}, "signed": {},
	"sizeof": {}, "static": {}, "struct": {}, "switch": {},
	"typedef": {}, "union": {}, "unsigned": {}, "void": {},
	"volatile": {}, "while": {},
	"_Bool": {}, "_Complex": {}, "_Imaginary": {},

	"SBool": {}, "SWord8": {}, "SWord16": {}, "SWord32": {}, "SWord64": {},
	"SInt8": {}, "SInt16": {}, "SInt32": {}, "SInt64": {},

	"int8_t": {}, "int16_t": {}, "int32_t": {}, "int64_t": {},
	"uint8_t": {}, "uint16_t": {}, "uint32_t": {}, "uint64_t": {},

	"main": {}, "printf": {},
}

// cType names the C carrier for a lane type.
func cType(t tp.Int) (string, error) {
	if t.Bits == 1 {
		if t.Signed {
			return "", errors.Wrap(ErrValue, "signed boolean lane")
		}

		return "SBool", nil
	}

	switch t.Bits {
	case 8, 16, 32, 64:
	default:
		return "", errors.Wrap(ErrWidth, "%d bits", t.Bits)
	}

	if t.Signed {
		return fmt.Sprintf("SInt%d", t.Bits), nil
	}

	return fmt.Sprintf("SWord%d", t.Bits), nil
}

// cLit renders the canonical bit pattern v as a C literal of type t.
// Byte-wide values print in decimal, wider ones in zero-padded hex
// with the suffix picking the right integer rank. Negative values
// print as a negated magnitude so the text reads back to the same
// number, with the most negative value spelled as an expression since
// its magnitude has no literal of its own.
func cLit(v uint64, t tp.Int) (string, error) {
	if t.Bits == 1 {
		if t.Signed {
			return "", errors.Wrap(ErrValue, "signed boolean constant")
		}

		return strconv.FormatUint(v&1, 10), nil
	}

	switch t.Bits {
	case 8, 16, 32, 64:
	default:
		return "", errors.Wrap(ErrWidth, "%d-bit constant", t.Bits)
	}

	v = t.Trunc(v)

	if t.Bits == 8 {
		if t.Signed {
			return strconv.Itoa(int(int8(v))), nil
		}

		return strconv.FormatUint(v, 10), nil
	}

	var sfx string

	switch t.Bits {
	case 16:
		if !t.Signed {
			sfx = "U"
		}
	case 32:
		sfx = "L"
		if !t.Signed {
			sfx = "UL"
		}
	case 64:
		sfx = "LL"
		if !t.Signed {
			sfx = "ULL"
		}
	}

	digits := t.Bits / 4

	if !t.Signed {
		return fmt.Sprintf("0x%0*x%s", digits, v, sfx), nil
	}

	sv := signext(v, t.Bits)

	switch {
	case sv >= 0:
		return fmt.Sprintf("0x%0*x%s", digits, uint64(sv), sfx), nil
	case sv == -int64(t.MaxMag())-1:
		return fmt.Sprintf("(-0x%0*x%s - 1)", digits, t.MaxMag(), sfx), nil
	default:
		return fmt.Sprintf("-0x%0*x%s", digits, uint64(-sv), sfx), nil
	}
}

func signext(v uint64, bits int) int64 {
	if bits == 64 {
		return int64(v)
	}

	if v&(uint64(1)<<(bits-1)) != 0 {
		return int64(v) - int64(uint64(1)<<bits)
	}

	return int64(v)
}

// cFormat is the printf directive for a lane, PRI macro spliced in.
func cFormat(t tp.Int) (string, error) {
	if t.Bits == 1 {
		if t.Signed {
			return "", errors.Wrap(ErrValue, "signed boolean lane")
		}

		return `%"PRIu8"`, nil
	}

	switch t.Bits {
	case 8, 16, 32, 64:
	default:
		return "", errors.Wrap(ErrWidth, "%d bits", t.Bits)
	}

	if t.Signed {
		return fmt.Sprintf(`%%"PRId%d"`, t.Bits), nil
	}

	return fmt.Sprintf(`%%"PRIu%d"`, t.Bits), nil
}

func cIdent(n string) bool {
	if n == "" {
		return false
	}

	if _, ok := cReserved[n]; ok {
		return false
	}

	for i, r := range n {
		ok := r == '_' ||
			r >= 'a' && r <= 'z' ||
			r >= 'A' && r <= 'Z' ||
			i > 0 && r >= '0' && r <= '9'
		if !ok {
			return false
		}
	}

	return true
}

// nodeName tells if n falls into a namespace the body generator claims:
// s<id> locals or table<index> arrays.
func nodeName(n string) bool {
	return numbered(n, "s") || numbered(n, "table")
}

func numbered(n, prefix string) bool {
	rest, ok := strings.CutPrefix(n, prefix)
	if !ok || rest == "" {
		return false
	}

	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
