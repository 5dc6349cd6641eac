// Package rs implements a systematic, narrow-sense Reed-Solomon codec
// over an arbitrary gf.Field: encode with appended parity, and combined
// error/erasure decoding via syndromes, Berlekamp-Massey, Chien search
// and Forney's algorithm.
//
// The algorithm is grounded in samoyed's src/fx25_init.go
// (init_rs_char / generator-polynomial construction) and
// src/fx25_extract.go (DECODE_RS: syndromes, Berlekamp-Massey, Chien
// search, Forney evaluation), both themselves derived from Phil Karn's
// public-domain RS codec. Unlike that code this package works entirely
// in polynomial (non-index) domain and is restricted to the narrow-sense
// convention fcr=1, prim=1 that every FX.25 table in the teacher uses —
// that restriction collapses Forney's X^(1-fcr) term to 1 and lets the
// decoder avoid tracking a second "index form" representation solely to
// special-case fcr/prim generality nothing in this codec exercises.
package rs

import (
	"errors"
	"fmt"

	"github.com/jbkrause/archive2dna/internal/gf"
)

// ErrUncorrectable is returned when the number of errors and erasures
// exceeds the codec's correction capability.
var ErrUncorrectable = errors.New("rs: uncorrectable codeword")

// Codec is a systematic Reed-Solomon encoder/decoder over Field,
// shortened to whatever message length the caller uses (message length
// plus NECS must not exceed Field.N).
type Codec struct {
	Field   *gf.Field
	NECS    int // number of parity symbols
	genPoly []uint16
}

// New builds a narrow-sense (fcr=1, prim=1) Reed-Solomon codec with
// necs parity symbols over field.
func New(field *gf.Field, necs int) (*Codec, error) {
	if necs <= 0 || necs >= field.N {
		return nil, fmt.Errorf("rs: invalid parity count necs=%d for field of size %d", necs, field.N)
	}
	return &Codec{
		Field:   field,
		NECS:    necs,
		genPoly: buildGenPoly(field, necs),
	}, nil
}

// buildGenPoly constructs g(x) = prod_{i=1}^{necs} (x - alpha^i),
// following init_rs_char's generator-polynomial loop with fcr=1, prim=1.
func buildGenPoly(f *gf.Field, necs int) []uint16 {
	gen := make([]uint16, necs+1)
	gen[0] = 1
	root := 1
	for i := 0; i < necs; i++ {
		gen[i+1] = 1
		for j := i; j > 0; j-- {
			if gen[j] != 0 {
				gen[j] = f.Add(gen[j-1], f.Mul(gen[j], f.Exp(root)))
			} else {
				gen[j] = gen[j-1]
			}
		}
		gen[0] = f.Mul(gen[0], f.Exp(root))
		root++
	}
	return gen
}

// Encode returns the NECS parity symbols for msg (systematic encoding:
// the transmitted codeword is msg followed by the returned parity).
// msg may be shorter than Field.N-NECS (a shortened code); the missing
// leading symbols behave as zeros, which a zero-initialized shift
// register already accounts for.
func (c *Codec) Encode(msg []uint16) []uint16 {
	parity := make([]uint16, c.NECS)
	for _, m := range msg {
		feedback := c.Field.Add(m, parity[0])
		if feedback != 0 {
			for j := 1; j < c.NECS; j++ {
				parity[j] = c.Field.Add(parity[j], c.Field.Mul(feedback, c.genPoly[c.NECS-j]))
			}
		}
		copy(parity, parity[1:])
		if feedback != 0 {
			parity[c.NECS-1] = c.Field.Mul(feedback, c.genPoly[0])
		} else {
			parity[c.NECS-1] = 0
		}
	}
	return parity
}

// Decode corrects errors and erasures in codeword (message symbols
// followed by NECS parity symbols, in the same shortened length used at
// encode time). erasures gives the 0-based positions within codeword
// known to be unreliable. It returns a corrected copy of codeword and
// the number of symbols changed, or ErrUncorrectable if the codeword
// cannot be repaired (2*errors+erasures exceeds NECS).
func (c *Codec) Decode(codeword []uint16, erasures []int) ([]uint16, int, error) {
	f := c.Field
	n := f.N
	nroots := c.NECS
	pad := n - len(codeword)
	if pad < 0 {
		return nil, 0, fmt.Errorf("rs: codeword of length %d longer than field size %d", len(codeword), n)
	}

	data := make([]uint16, n)
	copy(data[pad:], codeword)

	noEras := len(erasures)
	if noEras > nroots {
		return nil, 0, ErrUncorrectable
	}
	erasPos := make([]int, noEras)
	for i, e := range erasures {
		erasPos[i] = e + pad
	}

	// Syndromes: S_i = C(alpha^(i+1)) via Horner, i = 0..nroots-1.
	s := make([]uint16, nroots)
	for i := range s {
		s[i] = data[0]
	}
	for j := 1; j < n; j++ {
		for i := 0; i < nroots; i++ {
			if s[i] == 0 {
				s[i] = data[j]
			} else {
				s[i] = f.Add(data[j], f.Mul(s[i], f.Exp(i+1)))
			}
		}
	}
	synError := uint16(0)
	for _, v := range s {
		synError |= v
	}
	if synError == 0 {
		out := append([]uint16(nil), codeword...)
		return out, 0, nil
	}

	// Error+erasure locator polynomial, initialized from known erasures.
	lambda := make([]uint16, nroots+1)
	lambda[0] = 1
	if noEras > 0 {
		lambda[1] = f.Exp(n - 1 - erasPos[0])
		for i := 1; i < noEras; i++ {
			u := f.Exp(n - 1 - erasPos[i])
			for j := i + 1; j > 0; j-- {
				lambda[j] = f.Add(lambda[j], f.Mul(u, lambda[j-1]))
			}
		}
	}

	b := make([]uint16, nroots+1)
	copy(b, lambda)

	r := noEras
	el := noEras
	for {
		r++
		if r > nroots {
			break
		}
		var discrR uint16
		for i := 0; i < r; i++ {
			if lambda[i] != 0 && s[r-i-1] != 0 {
				discrR = f.Add(discrR, f.Mul(lambda[i], s[r-i-1]))
			}
		}
		if discrR == 0 {
			copy(b[1:], b[:nroots])
			b[0] = 0
			continue
		}
		t := make([]uint16, nroots+1)
		t[0] = lambda[0]
		for i := 0; i < nroots; i++ {
			if b[i] != 0 {
				t[i+1] = f.Add(lambda[i+1], f.Mul(discrR, b[i]))
			} else {
				t[i+1] = lambda[i+1]
			}
		}
		if 2*el <= r+noEras-1 {
			el = r + noEras - el
			for i := 0; i <= nroots; i++ {
				if lambda[i] == 0 {
					b[i] = 0
				} else {
					b[i] = f.Div(lambda[i], discrR)
				}
			}
		} else {
			copy(b[1:], b[:nroots])
			b[0] = 0
		}
		copy(lambda, t)
	}

	degLambda := 0
	for i := 0; i <= nroots; i++ {
		if lambda[i] != 0 {
			degLambda = i
		}
	}

	// Chien search: position j is an error location iff lambda(alpha^(j+1)) == 0.
	// A root inside the shortened code's zero padding cannot be a real
	// error, so the codeword is beyond repair.
	var locs []int
	for j := 0; j < n && len(locs) < degLambda; j++ {
		x := f.Exp(j + 1)
		var val uint16
		for i := degLambda; i >= 0; i-- {
			val = f.Add(f.Mul(val, x), lambda[i])
		}
		if val == 0 {
			if j < pad {
				return nil, 0, ErrUncorrectable
			}
			locs = append(locs, j)
		}
	}
	if len(locs) != degLambda {
		return nil, 0, ErrUncorrectable
	}

	// Error evaluator omega(x) = [S(x) * lambda(x)] mod x^nroots.
	omega := make([]uint16, nroots)
	for i := 0; i < nroots; i++ {
		var tmp uint16
		jmax := i
		if degLambda < jmax {
			jmax = degLambda
		}
		for j := jmax; j >= 0; j-- {
			if s[i-j] != 0 && lambda[j] != 0 {
				tmp = f.Add(tmp, f.Mul(s[i-j], lambda[j]))
			}
		}
		omega[i] = tmp
	}

	// Forney: error value = omega(X^-1) / lambda'(X^-1) (fcr=1 drops the
	// X^(1-fcr) factor to 1).
	for _, j := range locs {
		xInv := f.Exp(j + 1)

		var omegaVal uint16
		for i := nroots - 1; i >= 0; i-- {
			omegaVal = f.Add(f.Mul(omegaVal, xInv), omega[i])
		}

		var lambdaPrime uint16
		for i := 1; i <= degLambda; i += 2 {
			lambdaPrime = f.Add(lambdaPrime, f.Mul(lambda[i], f.Pow(xInv, i-1)))
		}
		if lambdaPrime == 0 {
			return nil, 0, ErrUncorrectable
		}

		errVal := f.Div(omegaVal, lambdaPrime)
		data[j] = f.Add(data[j], errVal)
	}

	return data[pad:], len(locs), nil
}
