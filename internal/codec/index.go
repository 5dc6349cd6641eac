package codec

import (
	"fmt"

	"github.com/jbkrause/archive2dna/internal/basepack"
	"github.com/jbkrause/archive2dna/internal/mask"
)

// segmentIndex is the self-describing header carried by every segment:
// I1 (its absolute position across the whole archive) and I2, two
// independent countdowns that let a decoder reconstruct block geometry
// from an unordered, lossy pool of segments without having to trust I1
// alone.
//
// Grounded in archive2dna's package.py (Container.add_index / sort_segments):
// I1 there is the segment's absolute index; I2 packs
// (segments-remaining-in-block, segments-remaining-until-parity) so a
// decoder recovers numblocks/dblocksize purely by watching where each
// countdown bottoms out.
type segmentIndex struct {
	SegmentNumber  int // I1: absolute position across the archive
	BlockRemaining int // I2a: segments left in this block after this one (0 = last in block)
	DataRemaining  int // I2b: segments left before the block's parity segments start (0 once in or past parity)
}

// indexPositions is the bit width of I1; the default profile reserves
// 16 bits, fitting comfortably in a uint16.
const indexPositions = 16

// indexBasesLen is the total base count of an encoded index: I1 packed
// into indexPositions/2 bases, plus one byte (4 bases) each for the two
// I2 countdowns.
const indexBasesLen = indexPositions/2 + 4 + 4

func encodeIndex(idx segmentIndex) ([]basepack.Base, error) {
	if idx.SegmentNumber < 0 || idx.SegmentNumber >= 1<<indexPositions {
		return nil, fmt.Errorf("codec: segment number %d overflows %d-bit index field", idx.SegmentNumber, indexPositions)
	}

	// Each countdown is a single byte; one that overflows it reads back
	// as 0 rather than failing the encode, matching a plain segment at
	// the end of its countdown. A decoder recovering geometry from this
	// segment alone would undercount, but any other segment closer to
	// the boundary still carries the real value.
	blockRemaining := idx.BlockRemaining
	if blockRemaining < 0 {
		blockRemaining = 0
	} else if blockRemaining > 255 {
		blockRemaining = 0
	}
	dataRemaining := idx.DataRemaining
	if dataRemaining < 0 {
		dataRemaining = 0
	} else if dataRemaining > 255 {
		dataRemaining = 0
	}

	bases := make([]basepack.Base, 0, indexBasesLen)
	bases = append(bases, basepack.UnpackSymbolToBases(uint16(idx.SegmentNumber), indexPositions/2)...)
	bases = append(bases, basepack.UnpackSymbolToBases(uint16(blockRemaining), 4)...)
	bases = append(bases, basepack.UnpackSymbolToBases(uint16(dataRemaining), 4)...)

	return maskBases(bases), nil
}

func decodeIndex(bases []basepack.Base) (segmentIndex, error) {
	if len(bases) != indexBasesLen {
		return segmentIndex{}, fmt.Errorf("codec: index must be %d bases, got %d", indexBasesLen, len(bases))
	}
	unmasked := maskBases(bases) // XOR masking is its own inverse

	i1 := basepack.PackBasesToSymbol(unmasked[0 : indexPositions/2])
	i2a := basepack.PackBasesToSymbol(unmasked[indexPositions/2 : indexPositions/2+4])
	i2b := basepack.PackBasesToSymbol(unmasked[indexPositions/2+4 : indexPositions/2+8])

	return segmentIndex{
		SegmentNumber:  int(i1),
		BlockRemaining: int(i2a),
		DataRemaining:  int(i2b),
	}, nil
}

// maskBases applies the base whitening mask to a base sequence.
func maskBases(bases []basepack.Base) []basepack.Base {
	raw := make([]byte, len(bases))
	for i, b := range bases {
		raw[i] = byte(b)
	}
	masked := mask.MaskBaseValues(raw)
	out := make([]basepack.Base, len(bases))
	for i, v := range masked {
		out[i] = basepack.Base(v)
	}
	return out
}
