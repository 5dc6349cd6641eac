package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestMaskBytesIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 600).Draw(t, "n")
		data := rapid.SliceOfN(rapid.IntRange(0, 255), n, n).Draw(t, "data")
		raw := make([]byte, n)
		for i, v := range data {
			raw[i] = byte(v)
		}
		masked := MaskBytes(raw)
		assert.Equal(t, raw, MaskBytes(masked))
	})
}

func TestMaskBytesShortPayloadIsNotZeroed(t *testing.T) {
	// Regression guard: the original chunked implementation had an
	// off-by-one that degenerated to a no-op XOR for payloads under 256
	// bytes; the cyclic form must not reproduce that bug.
	data := []byte("hello, world")
	masked := MaskBytes(data)
	assert.NotEqual(t, data, masked)
}

func TestMaskBaseValuesIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 600).Draw(t, "n")
		values := make([]byte, n)
		for i := range values {
			values[i] = byte(rapid.IntRange(0, 3).Draw(t, "v"))
		}
		masked := MaskBaseValues(values)
		assert.Equal(t, values, MaskBaseValues(masked))
	})
}

func TestMaskBaseStaysInRange(t *testing.T) {
	for i := 0; i < 1024; i++ {
		v := MaskBase(byte(i%4), i)
		assert.Less(t, v, byte(4))
	}
}
