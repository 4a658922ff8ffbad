package tp

import (
	"fmt"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Int is a fixed-width integer lane. Width 1 is a boolean lane and
	// is never signed.
	Int struct {
		Bits   int
		Signed bool
	}
)

func Word(bits int) Int { return Int{Bits: bits} }

func SInt(bits int) Int { return Int{Bits: bits, Signed: true} }

func Bool() Int { return Int{Bits: 1} }

func (t Int) Valid() bool {
	switch t.Bits {
	case 8, 16, 32, 64:
		return true
	case 1:
		return !t.Signed
	}

	return false
}

// MaxMag is the largest magnitude representable in t.
func (t Int) MaxMag() uint64 {
	if t.Signed {
		return uint64(1)<<(t.Bits-1) - 1
	}

	return uint64(1)<<t.Bits - 1
}

// Mask keeps the low t.Bits bits of a raw pattern.
func (t Int) Mask() uint64 {
	return uint64(1)<<t.Bits - 1
}

// Trunc reduces a raw pattern to the canonical t.Bits-wide form.
func (t Int) Trunc(v uint64) uint64 {
	return v & t.Mask()
}

func (t Int) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Bits)
	}

	return fmt.Sprintf("u%d", t.Bits)
}

func (t Int) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	return e.AppendString(b, t.String())
}
