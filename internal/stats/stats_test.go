package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIncludesCoreFields(t *testing.T) {
	r := Report{ID: "abc", BinaryDataBytes: 100, DNASegments: 3, DNALengthBases: 600, RedundancyOuter: 6.0}
	s := r.String()
	assert.Contains(t, s, "id=abc")
	assert.Contains(t, s, "binary_data=100B")
	assert.Contains(t, s, "dna_segments=3")
}

func TestJSONRoundTripsFields(t *testing.T) {
	r := Report{ID: "abc", InnerCorrections: 2, SegmentsBeyondRepair: 1}
	data, err := r.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "abc"`)
	assert.Contains(t, string(data), `"inner_corrections": 2`)
}

func TestSegmentLengthStatsComputesMinMedianMax(t *testing.T) {
	min, median, max := SegmentLengthStats([]int{5, 1, 3, 9, 7})
	assert.Equal(t, 1, min)
	assert.Equal(t, 5, median)
	assert.Equal(t, 9, max)
}

func TestSegmentLengthStatsEmpty(t *testing.T) {
	min, median, max := SegmentLengthStats(nil)
	assert.Equal(t, 0, min)
	assert.Equal(t, 0, median)
	assert.Equal(t, 0, max)
}
