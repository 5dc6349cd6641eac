// Package stats reports the summary record produced by an encode or
// decode run: sizes, redundancy, segment-length spread, and correction
// counts broken down by where they were applied.
//
// Grounded in archive2dna's package.py (Container.compute_stats, which
// builds a nested dict of the same fields) and cli.py's use of
// pprint.PrettyPrinter(depth=6, stream=sys.stderr) to report it.
package stats

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jbkrause/archive2dna/internal/config"
)

// Report mirrors compute_stats()'s fields as a typed struct instead of
// a nested dict.
type Report struct {
	ID string `json:"id,omitempty"`

	BinaryDataBytes int `json:"binary_data_bytes"`
	DNASegments     int `json:"dna_segments"`
	DNALengthBases  int `json:"dna_length_bases"`

	SegmentLengthMin    int `json:"segment_length_min"`
	SegmentLengthMedian int `json:"segment_length_median"`
	SegmentLengthMax    int `json:"segment_length_max"`

	// RedundancyInner/RedundancyOuter are each code's parity-to-message
	// ratio: how many parity symbols are carried per message symbol.
	RedundancyInner float64 `json:"redundancy_inner"`
	RedundancyOuter float64 `json:"redundancy_outer"`

	// CapacityBytesPerSegment is the estimated net bytes of payload
	// recoverable per DNA segment once primers, index and parity
	// overhead are removed.
	CapacityBytesPerSegment float64 `json:"capacity_bytes_per_segment"`

	// InnerCorrections/OuterCorrections count symbols repaired by each
	// code. SegmentsBeyondRepair counts segments dropped before the
	// outer code ever saw them (primer mismatch, invalid bases, or an
	// inner codeword beyond its own correction capability).
	// SegmentsLost counts segments the outer code had to treat as
	// erasures because no column ever showed up for that key.
	InnerCorrections     int `json:"inner_corrections"`
	OuterCorrections     int `json:"outer_corrections"`
	SegmentsBeyondRepair int `json:"segments_beyond_repair"`
	SegmentsLost         int `json:"segments_lost"`

	// Parameters is the effective parameter record the run used —
	// as configured for an encode, or as recovered from the segment
	// pool itself for a decode.
	Parameters config.Parameters `json:"parameters"`
}

// String renders the report for human consumption, in the same spirit
// as the original's pretty-printed dict.
func (r Report) String() string {
	return fmt.Sprintf(
		"id=%s binary_data=%dB dna_segments=%d dna_length=%dbases segment_len=[%d/%d/%d] "+
			"redundancy_inner=%.3f redundancy_outer=%.3f capacity=%.2fB/segment "+
			"inner_corrections=%d outer_corrections=%d segments_beyond_repair=%d segments_lost=%d parameters=%s",
		r.ID, r.BinaryDataBytes, r.DNASegments, r.DNALengthBases,
		r.SegmentLengthMin, r.SegmentLengthMedian, r.SegmentLengthMax,
		r.RedundancyInner, r.RedundancyOuter, r.CapacityBytesPerSegment,
		r.InnerCorrections, r.OuterCorrections, r.SegmentsBeyondRepair, r.SegmentsLost,
		r.Parameters.Name,
	)
}

// JSON renders the report as an indented JSON document, the shape the
// HTTP façade embeds under its "statistics" field.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// SegmentLengthStats computes the (min, median, max) of a set of
// segment lengths, used by Decode (lengths are read from the wire and
// may vary). Encode fills the length fields directly, since all of its
// segments share one length.
func SegmentLengthStats(lens []int) (min, median, max int) {
	if len(lens) == 0 {
		return 0, 0, 0
	}
	sorted := append([]int(nil), lens...)
	sort.Ints(sorted)
	min = sorted[0]
	max = sorted[len(sorted)-1]
	median = sorted[len(sorted)/2]
	return min, median, max
}
