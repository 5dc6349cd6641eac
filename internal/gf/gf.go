// Package gf implements finite-field arithmetic over GF(2^m) for the
// symbol widths used by the archive2dna Reed-Solomon codecs (m in
// {8,...,14}).
//
// The table-construction algorithm is grounded in the FX.25 Reed-Solomon
// initialization in samoyed's src/fx25_init.go (init_rs_char), itself
// derived from Phil Karn's RS library: it is generalized here from a
// hardcoded 8-bit field to an arbitrary symbol width.
package gf

import "fmt"

// Field is a Galois field GF(2^M) with log/antilog tables precomputed
// from a primitive polynomial. Zero value is not usable; build one with
// New.
type Field struct {
	M       int      // symbol width in bits
	N       int      // 2^M - 1, the number of nonzero field elements
	expTo   []uint16 // antilog table, length 2*N+1 to avoid wraparound checks
	logOf   []uint16 // log table, length N+1; logOf[0] is unused (-inf)
	gfpoly  uint32
}

// Standard primitive polynomials for the symbol widths this codec uses.
// 0x11d is the CCITT/Karn polynomial for GF(2^8); 0x402b is the
// polynomial Phil Karn's fec library uses for GF(2^14) (see rs.h Pp
// tables referenced by fx25_init.go's commentary).
const (
	Poly8  = 0x11d
	Poly14 = 0x402b
)

// PrimitivePoly returns the standard primitive polynomial for symbol
// width m, when one of the two widths this codec supports is given.
func PrimitivePoly(m int) (uint32, error) {
	switch m {
	case 8:
		return Poly8, nil
	case 14:
		return Poly14, nil
	default:
		return 0, fmt.Errorf("gf: no built-in primitive polynomial for m=%d", m)
	}
}

// New builds the log/antilog tables for GF(2^m) using primitive
// polynomial gfpoly (given without its implicit x^m term, e.g. 0x11d
// for x^8+x^4+x^3+x^2+1).
func New(m int, gfpoly uint32) (*Field, error) {
	if m < 2 || m > 16 {
		return nil, fmt.Errorf("gf: unsupported symbol width m=%d", m)
	}
	n := (1 << uint(m)) - 1

	f := &Field{
		M:      m,
		N:      n,
		expTo:  make([]uint16, 2*n+1),
		logOf:  make([]uint16, n+1),
		gfpoly: gfpoly,
	}

	sr := 1
	for i := 0; i < n; i++ {
		f.expTo[i] = uint16(sr)
		f.logOf[sr] = uint16(i)
		sr <<= 1
		if sr&(1<<uint(m)) != 0 {
			sr ^= int(gfpoly)
		}
		sr &= n
	}
	if sr != 1 {
		return nil, fmt.Errorf("gf: polynomial 0x%x is not primitive for m=%d", gfpoly, m)
	}
	// Duplicate the table so that Mul/Pow can index exp[a+b] without a
	// modulo on every call.
	for i := n; i < 2*n; i++ {
		f.expTo[i] = f.expTo[i-n]
	}
	return f, nil
}

// Add is addition (and subtraction) in GF(2^m): bitwise XOR.
func (f *Field) Add(a, b uint16) uint16 { return a ^ b }

// Exp returns alpha^i, the antilog of i (for i in [0, N)).
func (f *Field) Exp(i int) uint16 {
	for i < 0 {
		i += f.N
	}
	return f.expTo[i%f.N]
}

// Log returns the discrete log of a nonzero field element.
func (f *Field) Log(a uint16) uint16 { return f.logOf[a] }

// Mul multiplies two field elements.
func (f *Field) Mul(a, b uint16) uint16 {
	if a == 0 || b == 0 {
		return 0
	}
	return f.expTo[int(f.logOf[a])+int(f.logOf[b])]
}

// Div divides a by b (b must be nonzero).
func (f *Field) Div(a, b uint16) uint16 {
	if a == 0 {
		return 0
	}
	li := int(f.logOf[a]) - int(f.logOf[b])
	if li < 0 {
		li += f.N
	}
	return f.expTo[li]
}

// Pow raises a to the n-th power.
func (f *Field) Pow(a uint16, n int) uint16 {
	if a == 0 {
		if n == 0 {
			return 1
		}
		return 0
	}
	li := (int(f.logOf[a]) * n) % f.N
	if li < 0 {
		li += f.N
	}
	return f.expTo[li]
}

// Inv returns the multiplicative inverse of a nonzero field element.
func (f *Field) Inv(a uint16) uint16 {
	if a == 0 {
		return 0
	}
	li := f.N - int(f.logOf[a])
	return f.expTo[li%f.N]
}
