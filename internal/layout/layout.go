// Package layout implements a column-keyed sparse 2D symbol grid.
// Decoding receives segments in arbitrary order and with arbitrary
// gaps where a segment never arrived; a Layout lets the codec drop
// each decoded segment into its column by its recovered index and
// later materialize zero-filled placeholder columns for whatever
// indices never showed up, so the outer code can treat them as known
// erasures instead of rejecting the whole block.
//
// Grounded in archive2dna's representation.py (the Representation
// class: insertlines/insertcolumns/addcolumn/popcolumn/getpos/setpos/
// getline/getcolumn/reindex_columns).
package layout

import "sort"

// Layout is a sparse grid of RS symbols, addressed by an arbitrary
// integer column key (the segment index) and a row index (the
// symbol's position within the segment). All columns share the same
// row count.
type Layout struct {
	cols  map[int][]uint16
	nrows int
}

// New returns an empty layout with nrows rows per column.
func New(nrows int) *Layout {
	return &Layout{cols: make(map[int][]uint16), nrows: nrows}
}

// NRows returns the row count shared by every column.
func (l *Layout) NRows() int { return l.nrows }

// NCols returns the number of columns currently present (not counting
// gaps in the key space).
func (l *Layout) NCols() int { return len(l.cols) }

// ColumnKeys returns the sorted column keys currently present.
func (l *Layout) ColumnKeys() []int {
	keys := make([]int, 0, len(l.cols))
	for k := range l.cols {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// AddColumn inserts col under key, overwriting anything already there.
// len(col) must equal NRows.
func (l *Layout) AddColumn(key int, col []uint16) {
	cp := make([]uint16, l.nrows)
	copy(cp, col)
	l.cols[key] = cp
}

// PopColumn removes and returns the column at key, if present.
func (l *Layout) PopColumn(key int) ([]uint16, bool) {
	col, ok := l.cols[key]
	if ok {
		delete(l.cols, key)
	}
	return col, ok
}

// GetColumn returns the column at key without removing it.
func (l *Layout) GetColumn(key int) ([]uint16, bool) {
	col, ok := l.cols[key]
	return col, ok
}

// GetCell returns the symbol at (key, row).
func (l *Layout) GetCell(key, row int) (uint16, bool) {
	col, ok := l.cols[key]
	if !ok || row < 0 || row >= len(col) {
		return 0, false
	}
	return col[row], true
}

// SetCell sets the symbol at (key, row), creating the column
// zero-filled first if it doesn't yet exist.
func (l *Layout) SetCell(key, row int, v uint16) {
	col, ok := l.cols[key]
	if !ok {
		col = make([]uint16, l.nrows)
		l.cols[key] = col
	}
	col[row] = v
}

// GetLine returns row `row` across every present column, in ascending
// column-key order, substituting 0 for any gap in [0, maxKey].
func (l *Layout) GetLine(row int) []uint16 {
	keys := l.ColumnKeys()
	if len(keys) == 0 {
		return nil
	}
	maxKey := keys[len(keys)-1]
	out := make([]uint16, maxKey+1)
	for _, k := range keys {
		if row < len(l.cols[k]) {
			out[k] = l.cols[k][row]
		}
	}
	return out
}

// InsertLines grows every existing column by n zero-filled rows and
// increases NRows to match.
func (l *Layout) InsertLines(n int) {
	l.nrows += n
	for k, col := range l.cols {
		l.cols[k] = append(col, make([]uint16, n)...)
	}
}

// InsertColumns ensures a zero-filled column exists for every key in
// keys that isn't already present.
func (l *Layout) InsertColumns(keys []int) {
	for _, k := range keys {
		if _, ok := l.cols[k]; !ok {
			l.cols[k] = make([]uint16, l.nrows)
		}
	}
}

// Reindex fills every gap in [0, maxKey] with a zero-filled column and
// returns the sorted list of keys it had to fill in — the erasure
// positions the outer RS decode must be told about.
func (l *Layout) Reindex() []int {
	maxKey := -1
	for k := range l.cols {
		if k > maxKey {
			maxKey = k
		}
	}
	var filled []int
	for k := 0; k <= maxKey; k++ {
		if _, ok := l.cols[k]; !ok {
			l.cols[k] = make([]uint16, l.nrows)
			filled = append(filled, k)
		}
	}
	return filled
}
