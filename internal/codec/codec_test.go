package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbkrause/archive2dna/internal/config"
	"github.com/jbkrause/archive2dna/internal/corrupt"
)

func smallParams() config.Parameters {
	// A deliberately small profile so single-block tests run over a
	// handful of segments instead of archive2dna's full-size default.
	return config.Parameters{
		Name:             "TEST",
		N:                34,
		K:                30,
		Mi:               8,
		Mo:               8,
		TargetRedundancy: 0.4,
		IndexPositions:   16,
		PrimerLength:     5,
		AutoZip:          false,
	}
}

func defaultWidthParams() config.Parameters {
	p := smallParams()
	p.Mo = 14
	return p
}

func TestEncodeDecodeRoundTripNoCorruption(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte("a small archival payload, well under one block")
	segments, encStats, err := c.Encode(payload, "doc-1")
	require.NoError(t, err)
	require.NotEmpty(t, segments)
	assert.Equal(t, len(payload), encStats.BinaryDataBytes)

	got, decStats, err := c.Decode(segments, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 0, decStats.SegmentsBeyondRepair)
	assert.Equal(t, 0, decStats.SegmentsLost)
}

func TestEncodeDecodeRoundTripWithAutoZip(t *testing.T) {
	p := smallParams()
	p.AutoZip = true
	c, err := New(p)
	require.NoError(t, err)

	payload := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	segments, _, err := c.Encode(payload, "doc-zip")
	require.NoError(t, err)

	got, _, err := c.Decode(segments, "doc-zip")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEncodeDecodeRoundTripAtDefaultSymbolWidth(t *testing.T) {
	c, err := New(defaultWidthParams())
	require.NoError(t, err)

	payload := []byte("exercising the mo=14 default outer symbol width end to end")
	segments, _, err := c.Encode(payload, "doc-mo14")
	require.NoError(t, err)
	require.NotEmpty(t, segments)

	got, _, err := c.Decode(segments, "doc-mo14")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecodeToleratesOneMissingSegment(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte("payload that will survive losing a single segment from its block")
	segments, _, err := c.Encode(payload, "doc-2")
	require.NoError(t, err)
	require.Greater(t, len(segments), 2)

	lossy := append([]string(nil), segments[:len(segments)-1]...)

	got, decStats, err := c.Decode(lossy, "doc-2")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 1, decStats.SegmentsLost)
}

func TestDecodeFailsWhenTooManySegmentsMissing(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte("payload that cannot survive losing almost every one of its segments")
	segments, _, err := c.Encode(payload, "doc-3")
	require.NoError(t, err)
	require.Greater(t, len(segments), 2)

	lossy := segments[:1]

	_, _, err = c.Decode(lossy, "doc-3")
	require.Error(t, err)
	ok := errors.Is(err, ErrUnrecoverable) || errors.Is(err, ErrParameterRecovery)
	assert.True(t, ok, "expected ErrUnrecoverable or ErrParameterRecovery, got %v", err)
}

// Deleting a handful of named segments from one block must still
// decode cleanly, and the report must count exactly how many were
// lost. A generous redundancy target keeps the tolerance comfortably
// above the five deletions regardless of how the payload happens to
// chunk.
func TestDecodeToleratesNamedSegmentDeletionAndCountsSegmentsLost(t *testing.T) {
	p := smallParams()
	p.TargetRedundancy = 0.6
	c, err := New(p)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("a payload long enough to span several segments once encoded. "), 6)
	segments, _, err := c.Encode(payload, "doc-deletion")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(segments), 10)

	drop := namedIndices(len(segments), 5)
	lossy := without(segments, drop)

	got, decStats, err := c.Decode(lossy, "doc-deletion")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, 5, decStats.SegmentsLost)
}

// Segment order in the pool must not matter: the decoder keys every
// segment by the index carried in its own content, not by its position
// in the input slice.
func TestDecodeToleratesSegmentPermutation(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte("a payload whose segments will arrive out of their original order")
	segments, _, err := c.Encode(payload, "doc-permute")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(segments), 4)

	shuffled := append([]string(nil), segments...)
	swap := func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] }
	swap(0, len(shuffled)-1)
	swap(1, len(shuffled)-2)
	if len(shuffled) > 5 {
		swap(2, 4)
	}

	got, _, err := c.Decode(shuffled, "doc-permute")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecodeCorrectsSingleBaseReplacementWithinInnerCodeCapacity(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte("payload whose segments will be lightly corrupted before decode")
	segments, _, err := c.Encode(payload, "doc-4")
	require.NoError(t, err)

	corrupted := append([]string(nil), segments...)
	target := []byte(corrupted[2%len(corrupted)])
	flipAt := c.Params.PrimerLength*4 + indexBasesLen + 5
	target[flipAt] = flipBase(target[flipAt])
	corrupted[2%len(corrupted)] = string(target)

	got, decStats, err := c.Decode(corrupted, "doc-4")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.GreaterOrEqual(t, decStats.InnerCorrections, 1)
}

// A 4-base burst that straddles an inner-symbol boundary corrupts two
// inner symbols, still within NECSi=4's 2-symbol correction capacity.
func TestDecodeCorrectsContiguousBaseBurstAcrossSymbolBoundary(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte("a payload big enough to carry a four-base burst of corruption")
	segments, _, err := c.Encode(payload, "doc-burst")
	require.NoError(t, err)

	corrupted := append([]string(nil), segments...)
	target := []byte(corrupted[0])
	// basesPerInnerSym=4 at Mi=8: start two bases into a symbol so the
	// burst spans exactly two symbols instead of one.
	start := c.Params.PrimerLength*4 + indexBasesLen + 2
	for i := 0; i < 4; i++ {
		target[start+i] = flipBase(target[start+i])
	}
	corrupted[0] = string(target)

	got, decStats, err := c.Decode(corrupted, "doc-burst")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.GreaterOrEqual(t, decStats.InnerCorrections, 1)
}

// Same burst-corruption shape as above, with the mo=8 outer symbol
// width set explicitly on the profile.
func TestDecodeCorrectsBurstAtEightBitOuterWidth(t *testing.T) {
	p := smallParams()
	p.Mo = 8
	c, err := New(p)
	require.NoError(t, err)

	payload := []byte("checking the eight-bit outer symbol width tolerates the same burst")
	segments, _, err := c.Encode(payload, "doc-mo8")
	require.NoError(t, err)

	corrupted := append([]string(nil), segments...)
	target := []byte(corrupted[0])
	start := c.Params.PrimerLength*4 + indexBasesLen + 2
	for i := 0; i < 4; i++ {
		target[start+i] = flipBase(target[start+i])
	}
	corrupted[0] = string(target)

	got, _, err := c.Decode(corrupted, "doc-mo8")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// A modest random per-base corruption budget (scaled down from a
// larger archival-sized payload to keep the suite fast) must still
// decode back to the original with the default profile's redundancy.
func TestDecodeSurvivesRandomPerBaseCorruptionBudget(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("budget-corruption-test-payload-"), 64) // 1984 bytes
	segments, _, err := c.Encode(payload, "doc-budget")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	corrupted, _ := corrupt.Segments(segments, 0.005, rng)

	got, _, err := c.Decode(corrupted, "doc-budget")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEncodeDecodeRoundTripEmptyPayload(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	segments, encStats, err := c.Encode(nil, "doc-empty")
	require.NoError(t, err)
	require.NotEmpty(t, segments)
	assert.Equal(t, 0, encStats.BinaryDataBytes)

	got, _, err := c.Decode(segments, "doc-empty")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeDecodeRoundTripSingleByte(t *testing.T) {
	c, err := New(smallParams())
	require.NoError(t, err)

	payload := []byte{0x7f}
	segments, _, err := c.Encode(payload, "doc-one-byte")
	require.NoError(t, err)

	got, _, err := c.Decode(segments, "doc-one-byte")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDeriveGeometrySplitsIntoMoreBlocksAsPayloadGrows(t *testing.T) {
	const n = 255
	const redundancy = 0.4

	small := deriveGeometry(10, redundancy, n)
	assert.Equal(t, 1, small.numBlocks)

	large := deriveGeometry(2000, redundancy, n)
	assert.Greater(t, large.numBlocks, 1)
}

func TestNecsoForRedundancyClampsToValidRange(t *testing.T) {
	assert.Equal(t, 1, necsoForRedundancy(0, 1, 255))
	assert.Less(t, necsoForRedundancy(0.999, 1000, 255), 255)
	assert.GreaterOrEqual(t, necsoForRedundancy(0.5, 1, 255), 1)
}

func TestRecoverGeometryFromCountdowns(t *testing.T) {
	observed := []segmentIndex{
		{SegmentNumber: 0, BlockRemaining: 9, DataRemaining: 6},
		{SegmentNumber: 3, BlockRemaining: 6, DataRemaining: 3},
		{SegmentNumber: 7, BlockRemaining: 2, DataRemaining: 0},
	}
	geom, err := recoverGeometry(observed)
	require.NoError(t, err)
	assert.Equal(t, 7, geom.dataColsPerBlock)
	assert.Equal(t, 10, geom.blockSize)
	assert.Equal(t, 3, geom.necso)
}

func TestRecoverGeometryFailsWithNoNonzeroCountdown(t *testing.T) {
	observed := []segmentIndex{
		{SegmentNumber: 5, BlockRemaining: 0, DataRemaining: 0},
		{SegmentNumber: 6, BlockRemaining: 0, DataRemaining: 0},
	}
	_, err := recoverGeometry(observed)
	assert.ErrorIs(t, err, ErrParameterRecovery)
}

func flipBase(c byte) byte {
	switch c {
	case 'A':
		return 'G'
	case 'G':
		return 'A'
	case 'C':
		return 'T'
	case 'T':
		return 'C'
	default:
		return 'A'
	}
}

// namedIndices picks count evenly-spaced, distinct indices in [0,total).
func namedIndices(total, count int) []int {
	if count >= total {
		count = total - 1
	}
	step := total / (count + 1)
	if step < 1 {
		step = 1
	}
	out := make([]int, 0, count)
	seen := make(map[int]bool)
	for i := 1; i <= count; i++ {
		idx := (i * step) % total
		for seen[idx] {
			idx = (idx + 1) % total
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

func without(segments []string, drop []int) []string {
	dropSet := make(map[int]bool, len(drop))
	for _, d := range drop {
		dropSet[d] = true
	}
	out := make([]string, 0, len(segments)-len(drop))
	for i, s := range segments {
		if !dropSet[i] {
			out = append(out, s)
		}
	}
	return out
}
