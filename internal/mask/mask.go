// Package mask implements the fixed whitening transforms applied to
// payload bytes and index bases before they are written out as DNA, so
// that neither carries long homopolymer runs or low-complexity
// patterns. Both transforms are involutions (apply twice to undo).
//
// The two mask tables are the literal constants baked into
// archive2dna's package.py (Container.rand_mask, Container.rand_ints);
// this package reproduces them exactly rather than generating new ones,
// since any DNA produced by one archive2dna implementation must mask
// identically to interoperate with another.
package mask

// byteMask is XORed cyclically across payload bytes (Container.rand_mask).
var byteMask = [256]byte{
	0xaf, 0x92, 0x69, 0xa9, 0xf1, 0x0c, 0x22, 0xc2, 0xf4, 0xe4, 0xc6, 0xa8,
	0x30, 0x27, 0x6a, 0xc6, 0x77, 0x08, 0x68, 0xc8, 0x29, 0x48, 0xb9, 0xfa,
	0xb5, 0x93, 0x26, 0x04, 0x21, 0xcd, 0xc7, 0xcb, 0x77, 0x98, 0x05, 0x5a,
	0xda, 0x01, 0xac, 0x50, 0x05, 0x49, 0xbe, 0x5c, 0x79, 0x8e, 0xff, 0xb2,
	0x13, 0x5c, 0x70, 0xab, 0xd8, 0x6d, 0x19, 0x97, 0xae, 0xfe, 0xba, 0x04,
	0x94, 0xc5, 0x90, 0xb1, 0x63, 0x0a, 0xa9, 0x5b, 0x5c, 0x69, 0xfd, 0xc9,
	0x5e, 0xf8, 0x64, 0x6f, 0xc5, 0xa8, 0xce, 0x51, 0x12, 0x01, 0xb9, 0x26,
	0x6e, 0xaa, 0xfa, 0xc9, 0xf8, 0x49, 0xe1, 0xc4, 0xc7, 0x67, 0x04, 0x35,
	0x23, 0x17, 0x9a, 0x60, 0x08, 0x73, 0x9f, 0x47, 0xd9, 0x59, 0xbd, 0xb9,
	0x52, 0x7d, 0x3d, 0x47, 0x7c, 0x41, 0x68, 0xd5, 0x93, 0xbd, 0xb3, 0x0a,
	0x72, 0x4a, 0xf3, 0x7e, 0xc6, 0xa6, 0xd0, 0xae, 0x4d, 0x1a, 0x3a, 0x62,
	0xf3, 0x2a, 0x58, 0x52, 0x3c, 0x0d, 0xe0, 0x2d, 0xeb, 0xf5, 0xd8, 0x1c,
	0xd7, 0xb6, 0x1f, 0x2e, 0xe4, 0x04, 0x01, 0x72, 0x4e, 0x6f, 0x57, 0x6b,
	0x74, 0xad, 0x29, 0x9f, 0xd0, 0x8b, 0xf5, 0xe7, 0x02, 0x31, 0x23, 0xc7,
	0x85, 0xb3, 0xac, 0x28, 0x7c, 0x44, 0xa1, 0x1c, 0x8f, 0x17, 0xc0, 0x3c,
	0xf4, 0xa3, 0x8d, 0xf0, 0x2a, 0x92, 0x63, 0x00, 0x0b, 0xbf, 0x5e, 0x88,
	0x1a, 0x34, 0xdd, 0x0a, 0x97, 0x64, 0x3e, 0x65, 0x5b, 0x0a, 0xff, 0xe1,
	0x01, 0xab, 0x98, 0x43, 0x07, 0x65, 0x72, 0x47, 0xce, 0xdb, 0xa1, 0x6d,
	0x17, 0xab, 0x31, 0x44, 0x00, 0xda, 0xb3, 0x9c, 0xa0, 0x8b, 0x19, 0x50,
	0x38, 0x16, 0x43, 0x75, 0x6e, 0xd9, 0x37, 0x60, 0xdf, 0xcd, 0x95, 0x9e,
	0x0f, 0x39, 0x16, 0x90, 0xff, 0xfa, 0x4a, 0xe6, 0xb7, 0xba, 0x49, 0x97,
	0xda, 0xc2, 0xcd, 0x82,
}

// baseMask is XORed (mod 4) cyclically against 2-bit index values
// (Container.rand_ints).
var baseMask = [256]byte{
	3, 2, 0, 3, 0, 0, 2, 3, 3, 3, 2, 3, 3, 3, 0, 3, 1, 1, 2, 1,
	1, 1, 3, 2, 0, 1, 2, 1, 1, 1, 2, 0, 0, 0, 0, 2, 2, 0, 3, 0,
	0, 2, 3, 3, 1, 2, 1, 0, 0, 2, 2, 0, 2, 2, 1, 0, 3, 1, 1, 3,
	0, 3, 0, 3, 1, 1, 1, 2, 1, 0, 1, 2, 0, 3, 0, 1, 0, 0, 2, 1,
	0, 0, 2, 0, 1, 0, 1, 0, 0, 0, 0, 2, 3, 1, 1, 0, 0, 2, 2, 3,
	1, 1, 3, 2, 1, 1, 1, 2, 0, 3, 1, 0, 2, 0, 1, 0, 0, 3, 2, 1,
	1, 0, 3, 0, 2, 1, 0, 3, 2, 1, 1, 0, 3, 2, 0, 3, 3, 2, 0, 0,
	0, 0, 3, 1, 2, 2, 3, 2, 3, 0, 0, 2, 2, 1, 3, 2, 2, 3, 3, 3,
	1, 3, 2, 0, 3, 1, 2, 2, 2, 0, 3, 3, 3, 3, 0, 3, 3, 1, 0, 2,
	0, 1, 2, 0, 0, 3, 2, 3, 1, 0, 0, 1, 2, 3, 1, 0, 3, 0, 1, 1,
	0, 0, 2, 2, 3, 2, 1, 3, 2, 3, 1, 1, 3, 3, 1, 1, 3, 2, 2, 3,
	0, 0, 0, 2, 0, 3, 2, 3, 1, 1, 3, 2, 2, 0, 0, 1, 1, 1, 3, 3,
	3, 0, 2, 2, 2, 2, 3, 1, 1, 2, 0, 3, 0, 0, 3, 2,
}

// MaskBytes XORs data cyclically against byteMask. Calling it twice on
// the same data is the identity.
func MaskBytes(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ byteMask[i%len(byteMask)]
	}
	return out
}

// MaskBase XORs (mod 4) a single 2-bit index value at position i
// against baseMask.
func MaskBase(value byte, i int) byte {
	return (value ^ baseMask[i%len(baseMask)]) % 4
}

// MaskBaseValues XORs a sequence of 2-bit index values against
// baseMask, cyclically. It is its own inverse.
func MaskBaseValues(values []byte) []byte {
	out := make([]byte, len(values))
	for i, v := range values {
		out[i] = MaskBase(v, i)
	}
	return out
}
