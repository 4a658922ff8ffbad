package back

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvlang/bvc/compiler/tp"
)

func TestCType(t *testing.T) {
	for _, tc := range []struct {
		tp   tp.Int
		want string
	}{
		{tp.Bool(), "SBool"},
		{tp.Word(8), "SWord8"},
		{tp.Word(16), "SWord16"},
		{tp.Word(32), "SWord32"},
		{tp.Word(64), "SWord64"},
		{tp.SInt(8), "SInt8"},
		{tp.SInt(16), "SInt16"},
		{tp.SInt(32), "SInt32"},
		{tp.SInt(64), "SInt64"},
	} {
		got, err := cType(tc.tp)
		require.NoError(t, err, "%v", tc.tp)
		assert.Equal(t, tc.want, got)
	}

	_, err := cType(tp.Word(24))
	assert.ErrorIs(t, err, ErrWidth)

	_, err = cType(tp.Int{Bits: 1, Signed: true})
	assert.ErrorIs(t, err, ErrValue)
}

func TestCLit(t *testing.T) {
	for _, tc := range []struct {
		v    uint64
		tp   tp.Int
		want string
	}{
		{0, tp.Bool(), "0"},
		{1, tp.Bool(), "1"},

		{44, tp.Word(8), "44"},
		{300, tp.Word(8), "44"},
		{255, tp.Word(8), "255"},

		{127, tp.SInt(8), "127"},
		{128, tp.SInt(8), "-128"},
		{172, tp.SInt(8), "-84"},

		{5, tp.Word(16), "0x0005U"},
		{0x1234, tp.Word(16), "0x1234U"},
		{5, tp.SInt(16), "0x0005"},
		{0xfffb, tp.SInt(16), "-0x0005"},
		{0x8000, tp.SInt(16), "(-0x7fff - 1)"},

		{42, tp.Word(32), "0x0000002aUL"},
		{1, tp.SInt(32), "0x00000001L"},
		{0xffffffff, tp.SInt(32), "-0x00000001L"},
		{1 << 31, tp.SInt(32), "(-0x7fffffffL - 1)"},

		{1, tp.Word(64), "0x0000000000000001ULL"},
		{^uint64(0), tp.Word(64), "0xffffffffffffffffULL"},
		{^uint64(0), tp.SInt(64), "-0x0000000000000001LL"},
		{1 << 63, tp.SInt(64), "(-0x7fffffffffffffffLL - 1)"},
	} {
		got, err := cLit(tc.v, tc.tp)
		require.NoError(t, err, "%v of %v", tc.v, tc.tp)
		assert.Equal(t, tc.want, got, "%#x of %v", tc.v, tc.tp)
	}

	_, err := cLit(0, tp.Word(24))
	assert.ErrorIs(t, err, ErrWidth)

	_, err = cLit(0, tp.Int{Bits: 1, Signed: true})
	assert.ErrorIs(t, err, ErrValue)
}

// Every literal must read back to the bit pattern it was rendered
// from.
func TestCLitReadsBack(t *testing.T) {
	vals := []uint64{
		0, 1, 2, 5, 44, 127, 128, 172, 255, 300, 0x1234, 0x8000, 0xfffb,
		1 << 31, 1<<32 - 1, 1 << 62, 1 << 63, ^uint64(0), ^uint64(0) - 4,
	}

	for _, w := range []int{8, 16, 32, 64} {
		for _, signed := range []bool{false, true} {
			tt := tp.Int{Bits: w, Signed: signed}

			for _, v := range vals {
				lit, err := cLit(v, tt)
				require.NoError(t, err)

				assert.Equal(t, tt.Trunc(v), parseLit(t, lit, tt), "%v rendered as %v", v, lit)
			}
		}
	}
}

// parseLit evaluates a rendered literal back to a bit pattern.
func parseLit(t *testing.T, lit string, tt tp.Int) uint64 {
	t.Helper()

	trim := func(s string) string {
		for _, sfx := range []string{"ULL", "LL", "UL", "L", "U"} {
			if strings.HasSuffix(s, sfx) {
				return strings.TrimSuffix(s, sfx)
			}
		}

		return s
	}

	if strings.HasPrefix(lit, "(-") {
		inner := strings.TrimPrefix(lit, "(-")
		inner = trim(strings.TrimSuffix(inner, " - 1)"))

		mag, err := strconv.ParseUint(inner, 0, 64)
		require.NoError(t, err, "%v", lit)

		return tt.Trunc(-(mag + 1))
	}

	neg := strings.HasPrefix(lit, "-")
	lit = trim(strings.TrimPrefix(lit, "-"))

	mag, err := strconv.ParseUint(lit, 0, 64)
	require.NoError(t, err, "%v", lit)

	if neg {
		return tt.Trunc(-mag)
	}

	return tt.Trunc(mag)
}

func TestCFormat(t *testing.T) {
	for _, tc := range []struct {
		tp   tp.Int
		want string
	}{
		{tp.Bool(), `%"PRIu8"`},
		{tp.Word(8), `%"PRIu8"`},
		{tp.SInt(32), `%"PRId32"`},
		{tp.Word(64), `%"PRIu64"`},
	} {
		got, err := cFormat(tc.tp)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := cFormat(tp.Word(13))
	assert.ErrorIs(t, err, ErrWidth)
}

func TestCIdent(t *testing.T) {
	for _, n := range []string{"x", "_a1", "crc8", "someName", "out0"} {
		assert.True(t, cIdent(n), "%q", n)
	}

	for _, n := range []string{"", "9x", "x-y", "x y", "if", "while", "double", "SWord8", "uint8_t", "main", "printf", "приклад"} {
		assert.False(t, cIdent(n), "%q", n)
	}
}

func TestNodeName(t *testing.T) {
	for _, n := range []string{"s0", "s12", "table0", "table99"} {
		assert.True(t, nodeName(n), "%q", n)
	}

	for _, n := range []string{"s", "sx", "stable", "tables", "table", "s1x", "x"} {
		assert.False(t, nodeName(n), "%q", n)
	}
}
