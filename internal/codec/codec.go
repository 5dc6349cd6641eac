// Package codec orchestrates the full archive2dna pipeline: masking,
// optional ZIP wrapping, splitting into a two-dimensional grid of
// outer-code-protected, inner-code-protected DNA segments wrapped in
// sequencing primers, and the matching decode path that tolerates
// missing and corrupted segments.
//
// Grounded in archive2dna's package.py (Container.load_binary,
// add_outer_code, add_index, add_inner_code, create_logical_redundancy,
// to_dna / sort_segments, decode_inner_code, decode_outer_code,
// check_and_correct_logical_redundancy, write_binary).
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jbkrause/archive2dna/internal/basepack"
	"github.com/jbkrause/archive2dna/internal/config"
	"github.com/jbkrause/archive2dna/internal/gf"
	"github.com/jbkrause/archive2dna/internal/layout"
	"github.com/jbkrause/archive2dna/internal/mask"
	"github.com/jbkrause/archive2dna/internal/primer"
	"github.com/jbkrause/archive2dna/internal/rs"
	"github.com/jbkrause/archive2dna/internal/stats"
	"github.com/jbkrause/archive2dna/internal/zipwrap"
)

// ErrUnrecoverable is returned when a block's outer code cannot be
// corrected, i.e. too many of its segments are missing or corrupted.
var ErrUnrecoverable = errors.New("codec: block unrecoverable")

// ErrParameterRecovery is returned when decode cannot reconstruct the
// block geometry (outer parity count, block size, block count) from
// the segment pool's own countdown fields — fatal, since nothing
// downstream can be decoded without it.
var ErrParameterRecovery = errors.New("codec: could not recover block parameters from segment pool")

// lengthPrefixBytes is the size of the length header prepended to the
// payload before any zipping and masking, letting decode discard the zero padding the block
// grid needs without depending on redundant out-of-band bookkeeping.
const lengthPrefixBytes = 8

// Codec drives encode/decode for one parameter profile. The outer
// code's parity count and block sizing are payload-dependent (derived
// from Params.TargetRedundancy at encode time, and recovered from the
// wire at decode time), so only the inner code and the outer field are
// fixed at construction.
type Codec struct {
	Params config.Parameters

	inner      *rs.Codec
	outerField *gf.Field

	rowsPerSegment int // R: outer symbols carried by a single segment
}

// New builds a Codec from params, constructing the inner Reed-Solomon
// codec and the outer field the outer code will be built over per call.
func New(params config.Parameters) (*Codec, error) {
	innerField, err := gf.New(params.Mi, mustPoly(params.Mi))
	if err != nil {
		return nil, fmt.Errorf("codec: inner field: %w", err)
	}
	innerRS, err := rs.New(innerField, params.NECSi())
	if err != nil {
		return nil, fmt.Errorf("codec: inner codec: %w", err)
	}

	outerField, err := gf.New(params.Mo, mustPoly(params.Mo))
	if err != nil {
		return nil, fmt.Errorf("codec: outer field: %w", err)
	}

	basesPerOuterSym := params.Mo / 2
	rowsPerSegment := (params.K * 4) / basesPerOuterSym
	if rowsPerSegment <= 0 {
		return nil, fmt.Errorf("codec: inner message length %d too small for outer symbol width %d", params.K, params.Mo)
	}

	return &Codec{
		Params:         params,
		inner:          innerRS,
		outerField:     outerField,
		rowsPerSegment: rowsPerSegment,
	}, nil
}

func mustPoly(m int) uint32 {
	p, err := gf.PrimitivePoly(m)
	if err != nil {
		// Only 8 and 14 are used by any profile this codec ships; a
		// config requesting another width is a configuration error
		// caught by New's field construction, not here.
		return 0
	}
	return p
}

// necsoForRedundancy derives the outer parity-column count from the
// target redundancy ratio r and the total number of data columns the
// payload needs: necso = ceil(r/(1-r) * dk), clamped to leave at least
// one column for data and one for parity within the outer field.
func necsoForRedundancy(r float64, dk, n int) int {
	if r <= 0 {
		r = 0.01
	}
	if r >= 1 {
		r = 0.99
	}
	necso := int(math.Ceil(r / (1 - r) * float64(dk)))
	if necso < 1 {
		necso = 1
	}
	if necso > n-1 {
		necso = n - 1
	}
	return necso
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}

// blockGeometry is the payload-dependent outer-code layout for one
// encode or decode run: how many columns carry parity per block, how
// many blocks there are, and how many data columns each one carries
// (every block but the last is the same size).
type blockGeometry struct {
	necso            int
	numBlocks        int
	dataColsPerBlock int // per block, except possibly the last
}

func deriveGeometry(dk int, redundancy float64, n int) blockGeometry {
	necso := necsoForRedundancy(redundancy, dk, n)
	denom := n - necso
	if denom < 1 {
		denom = 1
	}
	numBlocks := ceilDiv(dk, denom)
	if numBlocks < 1 {
		numBlocks = 1
	}
	perBlock := ceilDiv(dk, numBlocks)
	if perBlock+necso > n {
		perBlock = n - necso
	}
	return blockGeometry{necso: necso, numBlocks: numBlocks, dataColsPerBlock: perBlock}
}

// Encode turns payload into a set of primer-wrapped DNA segments and a
// stats report. id seeds the primer derivation.
func (c *Codec) Encode(payload []byte, id string) ([]string, stats.Report, error) {
	framed := frameWithLength(payload)

	if c.Params.AutoZip {
		zipped, err := zipwrap.Wrap(framed)
		if err != nil {
			return nil, stats.Report{}, fmt.Errorf("codec: zip wrap: %w", err)
		}
		framed = zipped
	}

	masked := mask.MaskBytes(framed)
	bases := basepack.BytesToBases(masked)

	basesPerOuterSym := c.Params.Mo / 2
	if rem := len(bases) % basesPerOuterSym; rem != 0 {
		bases = append(bases, make([]basepack.Base, basesPerOuterSym-rem)...)
	}
	outerSymbols := make([]uint16, len(bases)/basesPerOuterSym)
	for i := range outerSymbols {
		outerSymbols[i] = basepack.PackBasesToSymbol(bases[i*basesPerOuterSym : (i+1)*basesPerOuterSym])
	}

	dk := ceilDiv(len(outerSymbols), c.rowsPerSegment)
	if dk < 1 {
		dk = 1
	}
	if pad := dk*c.rowsPerSegment - len(outerSymbols); pad > 0 {
		outerSymbols = append(outerSymbols, make([]uint16, pad)...)
	}

	geom := deriveGeometry(dk, c.Params.TargetRedundancy, c.outerField.N)
	outerRS, err := rs.New(c.outerField, geom.necso)
	if err != nil {
		return nil, stats.Report{}, fmt.Errorf("codec: outer codec: %w", err)
	}

	p := primer.Derive([]byte(id), c.Params.PrimerLength)

	var segments []string
	key := 0
	for block := 0; block < geom.numBlocks; block++ {
		startCol := block * geom.dataColsPerBlock
		blockDataCols := geom.dataColsPerBlock
		if startCol+blockDataCols > dk {
			blockDataCols = dk - startCol
		}
		if blockDataCols <= 0 {
			break
		}
		blockTotalCols := blockDataCols + geom.necso
		blockSymStart := startCol * c.rowsPerSegment

		dataCols := make([][]uint16, blockDataCols)
		for col := range dataCols {
			dataCols[col] = make([]uint16, c.rowsPerSegment)
		}
		parityCols := make([][]uint16, geom.necso)
		for col := range parityCols {
			parityCols[col] = make([]uint16, c.rowsPerSegment)
		}

		for row := 0; row < c.rowsPerSegment; row++ {
			rowStart := blockSymStart + row*blockDataCols
			rowSymbols := outerSymbols[rowStart : rowStart+blockDataCols]
			for col, v := range rowSymbols {
				dataCols[col][row] = v
			}
			parity := outerRS.Encode(rowSymbols)
			for col, v := range parity {
				parityCols[col][row] = v
			}
		}

		allCols := append(append([][]uint16(nil), dataCols...), parityCols...)
		for col, symCol := range allCols {
			seg, err := c.encodeSegment(symCol, segmentIndex{
				SegmentNumber:  key,
				BlockRemaining: blockTotalCols - col - 1,
				DataRemaining:  max0(blockDataCols - col - 1),
			})
			if err != nil {
				return nil, stats.Report{}, err
			}
			segments = append(segments, primer.Wrap(p, seg))
			key++
		}
	}

	segLen := c.Params.N*4 + indexBasesLen
	report := stats.Report{
		ID:                      id,
		BinaryDataBytes:         len(payload),
		DNASegments:             len(segments),
		DNALengthBases:          len(segments) * segLen,
		SegmentLengthMin:        segLen,
		SegmentLengthMedian:     segLen,
		SegmentLengthMax:        segLen,
		RedundancyInner:         float64(c.Params.NECSi()) / float64(c.Params.K),
		RedundancyOuter:         float64(geom.necso) / float64(geom.dataColsPerBlock),
		CapacityBytesPerSegment: float64(len(payload)) / float64(len(segments)),
		Parameters:              c.Params,
	}
	return segments, report, nil
}

func (c *Codec) encodeSegment(outerSymbolCol []uint16, idx segmentIndex) (string, error) {
	basesPerOuterSym := c.Params.Mo / 2
	segBases := make([]basepack.Base, 0, len(outerSymbolCol)*basesPerOuterSym)
	for _, sym := range outerSymbolCol {
		segBases = append(segBases, basepack.UnpackSymbolToBases(sym, basesPerOuterSym)...)
	}
	if rem := len(segBases) % 4; rem != 0 {
		segBases = append(segBases, make([]basepack.Base, 4-rem)...)
	}
	msgBytes, err := basepack.BasesToBytes(segBases)
	if err != nil {
		return "", fmt.Errorf("codec: segment payload to bytes: %w", err)
	}
	if len(msgBytes) > c.Params.K {
		return "", fmt.Errorf("codec: segment payload %d bytes exceeds inner message length %d", len(msgBytes), c.Params.K)
	}
	if len(msgBytes) < c.Params.K {
		msgBytes = append(msgBytes, make([]byte, c.Params.K-len(msgBytes))...)
	}

	innerMsg := bytesToSymbols(msgBytes)
	innerParity := c.inner.Encode(innerMsg)
	codeword := append(append([]uint16(nil), innerMsg...), innerParity...)
	codewordBytes := symbolsToBytes(codeword)

	indexBases, err := encodeIndex(idx)
	if err != nil {
		return "", err
	}
	payloadBases := basepack.BytesToBases(codewordBytes)

	allBases := append(append([]basepack.Base(nil), indexBases...), payloadBases...)
	return basepack.BasesToString(allBases), nil
}

// recoveredGeometry is the block layout the decoder reconstructs
// purely from the countdown fields carried by the segment pool, per
// the self-describing index design: a decoder with no prior knowledge
// of how the payload was chunked can still find block boundaries.
type recoveredGeometry struct {
	necso            int
	dataColsPerBlock int
	blockSize        int // dataColsPerBlock + necso
	lastIndex        int // highest column key any countdown places in range
}

// recoverGeometry scans decoded segments (order doesn't matter) for the
// first one exposing a nonzero BlockRemaining and the first exposing a
// nonzero DataRemaining, and derives block size / data columns per
// block from them, per the countdown design in index.go. When no segment
// has a nonzero DataRemaining but one sits in the first column of its
// block, that column is the block's last data column, so each block
// carries a single data column. Otherwise, without both countdowns,
// geometry cannot be recovered.
func recoverGeometry(observed []segmentIndex) (recoveredGeometry, error) {
	sorted := append([]segmentIndex(nil), observed...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SegmentNumber < sorted[j].SegmentNumber })

	var blockSize, dataCols, lastIndex int
	haveBlockSize, haveDataCols := false, false
	for _, idx := range sorted {
		if !haveBlockSize && idx.BlockRemaining != 0 {
			blockSize = idx.SegmentNumber + idx.BlockRemaining + 1
			haveBlockSize = true
		}
		if !haveDataCols && idx.DataRemaining != 0 {
			dataCols = idx.SegmentNumber + idx.DataRemaining + 1
			haveDataCols = true
		}
		if end := idx.SegmentNumber + idx.BlockRemaining; end > lastIndex {
			lastIndex = end
		}
		if end := idx.SegmentNumber + idx.DataRemaining; end > lastIndex {
			lastIndex = end
		}
	}
	if haveBlockSize && !haveDataCols {
		for _, idx := range sorted {
			if idx.SegmentNumber%blockSize == 0 {
				dataCols, haveDataCols = 1, true
				break
			}
		}
	}
	if !haveBlockSize || !haveDataCols {
		return recoveredGeometry{}, ErrParameterRecovery
	}
	necso := blockSize - dataCols
	if necso <= 0 || dataCols <= 0 {
		return recoveredGeometry{}, ErrParameterRecovery
	}
	return recoveredGeometry{necso: necso, dataColsPerBlock: dataCols, blockSize: blockSize, lastIndex: lastIndex}, nil
}

// Decode recovers the original payload from a pool of primer-wrapped
// DNA segments, which may be missing entries, out of order, or contain
// base errors within the correction capability of the inner and outer
// codes. Block geometry (outer parity count, block size, block count)
// is not given to Decode — it is recovered from the segments' own
// countdown fields, the same self-describing design Encode relies on.
func (c *Codec) Decode(segments []string, id string) ([]byte, stats.Report, error) {
	p := primer.Derive([]byte(id), c.Params.PrimerLength)

	type decoded struct {
		idx         segmentIndex
		outerSymCol []uint16
	}

	var decodedSegs []decoded
	totalInnerCorrections := 0
	segmentsBeyondRepair := 0
	var segmentLens []int

	for _, raw := range segments {
		line := basepack.StripDNAText(raw)
		if line == "" {
			continue
		}
		segmentLens = append(segmentLens, len(line))

		body, err := primer.Unwrap(p, line)
		if err != nil {
			segmentsBeyondRepair++
			continue
		}
		bases, err := basepack.StringToBases(body)
		if err != nil || len(bases) < indexBasesLen {
			segmentsBeyondRepair++
			continue
		}
		idx, err := decodeIndex(bases[:indexBasesLen])
		if err != nil {
			segmentsBeyondRepair++
			continue
		}
		payloadBases := bases[indexBasesLen:]
		codewordBytes, err := basepack.BasesToBytes(payloadBases)
		if err != nil {
			segmentsBeyondRepair++
			continue
		}
		codeword := bytesToSymbols(codewordBytes)
		corrected, n, err := c.inner.Decode(codeword, nil)
		if err != nil {
			segmentsBeyondRepair++
			continue
		}
		totalInnerCorrections += n

		msgBytes := symbolsToBytes(corrected[:c.Params.K])
		msgBases := basepack.BytesToBases(msgBytes)
		basesPerOuterSym := c.Params.Mo / 2
		need := c.rowsPerSegment * basesPerOuterSym
		if need > len(msgBases) {
			segmentsBeyondRepair++
			continue
		}
		msgBases = msgBases[:need]
		outerSymCol := make([]uint16, c.rowsPerSegment)
		for i := range outerSymCol {
			outerSymCol[i] = basepack.PackBasesToSymbol(msgBases[i*basesPerOuterSym : (i+1)*basesPerOuterSym])
		}

		decodedSegs = append(decodedSegs, decoded{idx: idx, outerSymCol: outerSymCol})
	}

	if len(decodedSegs) == 0 {
		return nil, stats.Report{}, ErrUnrecoverable
	}

	indices := make([]segmentIndex, len(decodedSegs))
	for i, d := range decodedSegs {
		indices[i] = d.idx
	}
	geom, err := recoverGeometry(indices)
	if err != nil {
		return nil, stats.Report{}, err
	}

	outerRS, err := rs.New(c.outerField, geom.necso)
	if err != nil {
		return nil, stats.Report{}, fmt.Errorf("codec: rebuilding outer codec from recovered parameters: %w", err)
	}

	numBlocks := ceilDiv(geom.lastIndex+1, geom.blockSize)
	if numBlocks < 1 {
		numBlocks = 1
	}

	blocks := make(map[int]*layout.Layout)
	for _, d := range decodedSegs {
		blockIdx := d.idx.SegmentNumber / geom.blockSize
		colIdx := d.idx.SegmentNumber % geom.blockSize
		l, ok := blocks[blockIdx]
		if !ok {
			l = layout.New(c.rowsPerSegment)
			blocks[blockIdx] = l
		}
		l.AddColumn(colIdx, d.outerSymCol)
	}

	totalOuterCorrections := 0
	segmentsLost := 0
	var outerSymbols []uint16

	for b := 0; b < numBlocks; b++ {
		l, ok := blocks[b]
		if !ok {
			l = layout.New(c.rowsPerSegment)
			blocks[b] = l
		}

		blockTotalCols := geom.blockSize
		blockDataCols := geom.dataColsPerBlock
		if b == numBlocks-1 {
			blockTotalCols = geom.lastIndex + 1 - b*geom.blockSize
			blockDataCols = blockTotalCols - geom.necso
		}
		if blockDataCols <= 0 {
			return nil, stats.Report{}, fmt.Errorf("%w: block %d has no data columns after parameter recovery", ErrParameterRecovery, b)
		}

		var erasures []int
		for col := 0; col < blockTotalCols; col++ {
			if _, ok := l.GetColumn(col); !ok {
				erasures = append(erasures, col)
			}
		}
		l.InsertColumns(erasures)
		segmentsLost += len(erasures)
		if len(erasures) > geom.necso {
			return nil, stats.Report{}, fmt.Errorf("%w: block %d lost %d of %d segments", ErrUnrecoverable, b, len(erasures), blockTotalCols)
		}

		for row := 0; row < c.rowsPerSegment; row++ {
			corrected, n, err := outerRS.Decode(l.GetLine(row)[:blockTotalCols], erasures)
			if err != nil {
				return nil, stats.Report{}, fmt.Errorf("%w: block %d row %d: %v", ErrUnrecoverable, b, row, err)
			}
			totalOuterCorrections += n
			outerSymbols = append(outerSymbols, corrected[:blockDataCols]...)
		}
	}

	basesPerOuterSym := c.Params.Mo / 2
	allBases := make([]basepack.Base, 0, len(outerSymbols)*basesPerOuterSym)
	for _, sym := range outerSymbols {
		allBases = append(allBases, basepack.UnpackSymbolToBases(sym, basesPerOuterSym)...)
	}
	if rem := len(allBases) % 4; rem != 0 {
		allBases = allBases[:len(allBases)-rem]
	}
	maskedBytes, err := basepack.BasesToBytes(allBases)
	if err != nil {
		return nil, stats.Report{}, fmt.Errorf("codec: reassembled bases to bytes: %w", err)
	}
	framed := mask.MaskBytes(maskedBytes)

	if c.Params.AutoZip {
		unzipped, err := zipwrap.Unwrap(framed)
		if err != nil {
			return nil, stats.Report{}, fmt.Errorf("codec: zip unwrap: %w", err)
		}
		framed = unzipped
	}

	payload, err := unframeWithLength(framed)
	if err != nil {
		return nil, stats.Report{}, err
	}

	min, median, max := stats.SegmentLengthStats(segmentLens)
	effective := c.Params
	effective.TargetRedundancy = float64(geom.necso) / float64(geom.blockSize)

	report := stats.Report{
		ID:                   id,
		BinaryDataBytes:      len(payload),
		DNASegments:          len(segments),
		DNALengthBases:       sumInts(segmentLens),
		SegmentLengthMin:     min,
		SegmentLengthMedian:  median,
		SegmentLengthMax:     max,
		RedundancyInner:      float64(c.Params.NECSi()) / float64(c.Params.K),
		RedundancyOuter:      float64(geom.necso) / float64(geom.dataColsPerBlock),
		InnerCorrections:     totalInnerCorrections,
		OuterCorrections:     totalOuterCorrections,
		SegmentsBeyondRepair: segmentsBeyondRepair,
		SegmentsLost:         segmentsLost,
		Parameters:           effective,
	}
	return payload, report, nil
}

func sumInts(vs []int) int {
	total := 0
	for _, v := range vs {
		total += v
	}
	return total
}

func frameWithLength(payload []byte) []byte {
	out := make([]byte, lengthPrefixBytes+len(payload))
	binary.BigEndian.PutUint64(out[:lengthPrefixBytes], uint64(len(payload)))
	copy(out[lengthPrefixBytes:], payload)
	return out
}

func unframeWithLength(framed []byte) ([]byte, error) {
	if len(framed) < lengthPrefixBytes {
		return nil, fmt.Errorf("codec: framed payload shorter than length prefix")
	}
	n := binary.BigEndian.Uint64(framed[:lengthPrefixBytes])
	rest := framed[lengthPrefixBytes:]
	if uint64(len(rest)) < n {
		return nil, fmt.Errorf("codec: framed payload shorter than its declared length")
	}
	return rest[:n], nil
}

func bytesToSymbols(b []byte) []uint16 {
	out := make([]uint16, len(b))
	for i, v := range b {
		out[i] = uint16(v)
	}
	return out
}

func symbolsToBytes(s []uint16) []byte {
	out := make([]byte, len(s))
	for i, v := range s {
		out[i] = byte(v)
	}
	return out
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
