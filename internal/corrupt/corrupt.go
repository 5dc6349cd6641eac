// Package corrupt implements the independent per-base error injector
// used to exercise the codec's correction capability, mirroring
// archive2dna's corrupt_dna_segment (dna.py) and cli.py's corrupt()
// subcommand driver.
package corrupt

import (
	"math/rand"

	"github.com/jbkrause/archive2dna/internal/basepack"
)

// Result reports how many segments and individual bases were flipped.
type Result struct {
	SegmentsCorrupted int
	BasesFlipped      int
}

// Segments flips each base of each segment to its Watson-Crick
// complement independently with probability errorRate, using rng for
// every trial (pass a seeded *rand.Rand for reproducible corruption
// runs, as cli.py's corrupt() allows via --seed).
func Segments(segments []string, errorRate float64, rng *rand.Rand) ([]string, Result) {
	out := make([]string, len(segments))
	var res Result

	for i, seg := range segments {
		flipped, n := Segment(seg, errorRate, rng)
		out[i] = flipped
		if n > 0 {
			res.SegmentsCorrupted++
			res.BasesFlipped += n
		}
	}
	return out, res
}

// Segment flips individual bases of one DNA segment to their
// complement with independent probability errorRate, returning the
// corrupted segment and how many bases were flipped.
func Segment(segment string, errorRate float64, rng *rand.Rand) (string, int) {
	bases, err := basepack.StringToBases(segment)
	if err != nil {
		return segment, 0
	}
	n := 0
	for i, b := range bases {
		if rng.Float64() < errorRate {
			bases[i] = basepack.ComplementBase(b)
			n++
		}
	}
	return basepack.BasesToString(bases), n
}
