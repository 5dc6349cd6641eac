// Package primer derives and applies the SHA-256-based sequencing
// primers that wrap every DNA segment, so segments from different
// archives can be told apart by a downstream sequencer. Every segment
// of one archive carries the same primer.
//
// Grounded in archive2dna's dna.py (id2primer, complement_primer,
// add_primers/remove_primers) and _dna.py (addPrimer/removePrimer,
// complement via XOR 0xFF).
package primer

import (
	"crypto/sha256"
	"errors"
	"strings"

	"github.com/jbkrause/archive2dna/internal/basepack"
)

// DefaultLength is the primer length in bytes used when the caller
// doesn't specify one — matches api.py's hardcoded primer_length=5.
const DefaultLength = 5

// ErrMismatch is returned when a wrapped segment's leading or trailing
// primer doesn't match what was expected.
var ErrMismatch = errors.New("primer: segment primer mismatch")

// Derive computes the primer for id, lengthBytes bytes long, as the
// last lengthBytes bytes of SHA-256(id), rendered as a DNA string
// (id2primer in the original).
func Derive(id []byte, lengthBytes int) string {
	sum := sha256.Sum256(id)
	tail := sum[len(sum)-lengthBytes:]
	return basepack.BytesToDNA(tail)
}

// Complement returns the Watson-Crick complement of a primer DNA
// string.
func Complement(p string) string {
	bs, err := basepack.StringToBases(p)
	if err != nil {
		panic(err) // callers only ever pass primers this package produced
	}
	return basepack.BasesToString(basepack.ComplementBases(bs))
}

// Wrap prepends p and appends its complement around segment, the shape
// every DNA segment is written out in: primer || segment || complement(primer).
func Wrap(p, segment string) string {
	return p + segment + Complement(p)
}

// Unwrap strips the leading primer and trailing complemented primer
// from a wrapped segment, verifying both match p.
func Unwrap(p, wrapped string) (string, error) {
	cp := Complement(p)
	if len(wrapped) < len(p)+len(cp) {
		return "", ErrMismatch
	}
	if wrapped[:len(p)] != p {
		return "", ErrMismatch
	}
	if !strings.HasSuffix(wrapped, cp) {
		return "", ErrMismatch
	}
	return wrapped[len(p) : len(wrapped)-len(cp)], nil
}
