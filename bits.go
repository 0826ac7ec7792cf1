package bitfield

import "fmt"

// Bits is a 128-bit unsigned storage word. All mask and shift arithmetic
// in the compiler happens in this type so that (1<<width)-1 never
// overflows, even for the widest supported storage.
//
// Bits is a value type and is comparable with ==.
type Bits struct {
	hi uint64
	lo uint64
}

// BitsFromUint64 returns a Bits holding v in its low 64 bits.
func BitsFromUint64(v uint64) Bits {
	return Bits{lo: v}
}

// BitsFromParts assembles a Bits from its high and low 64-bit halves.
func BitsFromParts(hi, lo uint64) Bits {
	return Bits{hi: hi, lo: lo}
}

// Mask returns a Bits with the low width bits set. Widths of 128 or more
// yield the all-ones word.
func Mask(width uint32) Bits {
	switch {
	case width == 0:
		return Bits{}
	case width < 64:
		return Bits{lo: 1<<width - 1}
	case width == 64:
		return Bits{lo: ^uint64(0)}
	case width < 128:
		return Bits{hi: 1<<(width-64) - 1, lo: ^uint64(0)}
	default:
		return Bits{hi: ^uint64(0), lo: ^uint64(0)}
	}
}

// Uint64 returns the low 64 bits.
func (b Bits) Uint64() uint64 { return b.lo }

// Parts returns the high and low 64-bit halves.
func (b Bits) Parts() (hi, lo uint64) { return b.hi, b.lo }

// IsZero reports whether no bit is set.
func (b Bits) IsZero() bool { return b.hi == 0 && b.lo == 0 }

// Shl returns b shifted left by n bits.
func (b Bits) Shl(n uint32) Bits {
	switch {
	case n == 0:
		return b
	case n >= 128:
		return Bits{}
	case n >= 64:
		return Bits{hi: b.lo << (n - 64)}
	default:
		// Go defines x>>s as 0 for s >= 64, so the n==0 guard above is
		// only needed to keep 64-n in range.
		return Bits{hi: b.hi<<n | b.lo>>(64-n), lo: b.lo << n}
	}
}

// Shr returns b logically shifted right by n bits.
func (b Bits) Shr(n uint32) Bits {
	switch {
	case n == 0:
		return b
	case n >= 128:
		return Bits{}
	case n >= 64:
		return Bits{lo: b.hi >> (n - 64)}
	default:
		return Bits{hi: b.hi >> n, lo: b.lo>>n | b.hi<<(64-n)}
	}
}

// And returns the bitwise AND of b and o.
func (b Bits) And(o Bits) Bits {
	return Bits{hi: b.hi & o.hi, lo: b.lo & o.lo}
}

// Or returns the bitwise OR of b and o.
func (b Bits) Or(o Bits) Bits {
	return Bits{hi: b.hi | o.hi, lo: b.lo | o.lo}
}

// AndNot returns b with every bit set in o cleared.
func (b Bits) AndNot(o Bits) Bits {
	return Bits{hi: b.hi &^ o.hi, lo: b.lo &^ o.lo}
}

// Not returns the bitwise complement of b.
func (b Bits) Not() Bits {
	return Bits{hi: ^b.hi, lo: ^b.lo}
}

// String renders the word in hexadecimal.
func (b Bits) String() string {
	if b.hi == 0 {
		return fmt.Sprintf("%#x", b.lo)
	}
	return fmt.Sprintf("%#x%016x", b.hi, b.lo)
}
