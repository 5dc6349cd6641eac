package primer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveIsDeterministicAndSized(t *testing.T) {
	p1 := Derive([]byte("archive-42"), DefaultLength)
	p2 := Derive([]byte("archive-42"), DefaultLength)
	assert.Equal(t, p1, p2)
	assert.Len(t, p1, DefaultLength*4)
}

func TestDeriveVariesWithID(t *testing.T) {
	p1 := Derive([]byte("archive-42"), DefaultLength)
	p2 := Derive([]byte("archive-43"), DefaultLength)
	assert.NotEqual(t, p1, p2)
}

func TestWrapUnwrapRoundTrip(t *testing.T) {
	p := Derive([]byte("sample"), DefaultLength)
	segment := "AGCTAGCTGGCCTTAA"

	wrapped := Wrap(p, segment)
	assert.Equal(t, p+segment+Complement(p), wrapped)

	got, err := Unwrap(p, wrapped)
	require.NoError(t, err)
	assert.Equal(t, segment, got)
}

func TestUnwrapRejectsWrongPrimer(t *testing.T) {
	p := Derive([]byte("sample"), DefaultLength)
	other := Derive([]byte("other"), DefaultLength)
	wrapped := Wrap(p, "AGCTAGCTGGCCTTAA")

	_, err := Unwrap(other, wrapped)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestComplementIsInvolution(t *testing.T) {
	p := Derive([]byte("sample"), DefaultLength)
	assert.Equal(t, p, Complement(Complement(p)))
}
