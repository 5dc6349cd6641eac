package gf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewRejectsNonPrimitivePoly(t *testing.T) {
	_, err := New(8, 0x101) // x^8+1, not primitive
	require.Error(t, err)
}

func TestFieldGF256MulDivRoundTrip(t *testing.T) {
	f, err := New(8, Poly8)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		a := uint16(rapid.IntRange(1, f.N).Draw(t, "a"))
		b := uint16(rapid.IntRange(1, f.N).Draw(t, "b"))

		product := f.Mul(a, b)
		assert.Equal(t, a, f.Div(product, b))
		assert.Equal(t, b, f.Div(product, a))
	})
}

func TestFieldGF256Inverse(t *testing.T) {
	f, err := New(8, Poly8)
	require.NoError(t, err)

	for a := uint16(1); a <= uint16(f.N); a++ {
		assert.Equal(t, uint16(1), f.Mul(a, f.Inv(a)), "a=%d", a)
	}
}

func TestFieldGF256Pow(t *testing.T) {
	f, err := New(8, Poly8)
	require.NoError(t, err)

	assert.Equal(t, uint16(1), f.Pow(f.Exp(1), 0))
	for i := 0; i < f.N; i++ {
		assert.Equal(t, f.Exp(i), f.Pow(f.Exp(1), i))
	}
}

func TestFieldGF16384(t *testing.T) {
	f, err := New(14, Poly14)
	require.NoError(t, err)
	assert.Equal(t, 16383, f.N)

	for _, a := range []uint16{1, 2, 3, 16383, 8192} {
		assert.Equal(t, uint16(1), f.Mul(a, f.Inv(a)))
	}
}

func TestAddIsInvolution(t *testing.T) {
	f, err := New(8, Poly8)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		a := uint16(rapid.IntRange(0, f.N).Draw(t, "a"))
		b := uint16(rapid.IntRange(0, f.N).Draw(t, "b"))
		assert.Equal(t, a, f.Add(f.Add(a, b), b))
	})
}
