// Package basepack converts between raw bytes and DNA base sequences,
// and between runs of bases and the fixed-width symbols the Reed-Solomon
// codecs operate on.
//
// Grounded in archive2dna's bytesutils.py (split_bytes_in_four /
// merge_four_bytes_in_one) and _dna.py (the Dna class, whose _bases =
// "AGCT" ordering and complement-by-XOR-0xFF this package reproduces
// exactly as the authoritative base encoding).
package basepack

import (
	"errors"
	"strings"
)

// Base is one of the four DNA bases, encoded as its 2-bit value: A=0,
// G=1, C=2, T=3 (matching _dna.py's _bases = "AGCT").
type Base byte

const bases = "AGCT"

// ErrInvalidLength is returned when a byte slice or base slice length
// isn't a multiple of the conversion's required granularity.
var ErrInvalidLength = errors.New("basepack: invalid length")

// ErrInvalidBase is returned when a character outside {A,G,C,T} is
// found while parsing a DNA string.
var ErrInvalidBase = errors.New("basepack: invalid base character")

// ByteToBases splits one byte into its four 2-bit bases, most
// significant pair first.
func ByteToBases(b byte) [4]Base {
	return [4]Base{
		Base(b >> 6 & 3),
		Base(b >> 4 & 3),
		Base(b >> 2 & 3),
		Base(b & 3),
	}
}

// BasesToByte merges four bases back into one byte.
func BasesToByte(bs [4]Base) byte {
	return byte(bs[0])<<6 | byte(bs[1])<<4 | byte(bs[2])<<2 | byte(bs[3])
}

// BytesToBases expands a byte slice into its flattened base sequence,
// four bases per byte.
func BytesToBases(data []byte) []Base {
	out := make([]Base, 0, len(data)*4)
	for _, b := range data {
		grp := ByteToBases(b)
		out = append(out, grp[0], grp[1], grp[2], grp[3])
	}
	return out
}

// BasesToBytes regroups a base sequence into bytes, four bases each.
// len(bs) must be a multiple of 4.
func BasesToBytes(bs []Base) ([]byte, error) {
	if len(bs)%4 != 0 {
		return nil, ErrInvalidLength
	}
	out := make([]byte, len(bs)/4)
	for i := 0; i < len(out); i++ {
		var grp [4]Base
		copy(grp[:], bs[i*4:i*4+4])
		out[i] = BasesToByte(grp)
	}
	return out, nil
}

// BaseToChar renders a base as its ASCII letter.
func BaseToChar(b Base) (byte, error) {
	if b > 3 {
		return 0, ErrInvalidBase
	}
	return bases[b], nil
}

// CharToBase parses one ASCII DNA letter into a Base.
func CharToBase(c byte) (Base, error) {
	switch c {
	case 'A':
		return 0, nil
	case 'G':
		return 1, nil
	case 'C':
		return 2, nil
	case 'T':
		return 3, nil
	default:
		return 0, ErrInvalidBase
	}
}

// BasesToString renders a base sequence as an uppercase DNA string.
func BasesToString(bs []Base) string {
	out := make([]byte, len(bs))
	for i, b := range bs {
		c, err := BaseToChar(b)
		if err != nil {
			panic(err) // Base values are only ever produced internally in [0,3].
		}
		out[i] = c
	}
	return string(out)
}

// stripChars are the stray characters a line of DNA text may carry
// (punctuation, quoting, trailing whitespace) that aren't part of the
// sequence itself, grounded in archive2dna's dna.py stripDna helper.
const stripChars = ".,-\t ;\"'\r"

// StripDNAText removes stripChars from s, leaving only the characters
// that should be valid bases. Called before StringToBases/primer.Unwrap
// so a line with trailing punctuation or a carriage return isn't
// rejected outright as an invalid segment.
func StripDNAText(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(stripChars, r) {
			return -1
		}
		return r
	}, s)
}

// StringToBases parses a DNA string into its base sequence, rejecting
// any character outside A/G/C/T.
func StringToBases(s string) ([]Base, error) {
	out := make([]Base, len(s))
	for i := 0; i < len(s); i++ {
		b, err := CharToBase(s[i])
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// BytesToDNA converts raw bytes directly to a DNA string.
func BytesToDNA(data []byte) string {
	return BasesToString(BytesToBases(data))
}

// DNAToBytes converts a DNA string directly to raw bytes. The string's
// length must be a multiple of 4.
func DNAToBytes(s string) ([]byte, error) {
	bs, err := StringToBases(s)
	if err != nil {
		return nil, err
	}
	return BasesToBytes(bs)
}

// Complement returns the Watson-Crick complement of a byte already
// packed as bases: A<->T and G<->C both correspond to inverting each
// 2-bit group, which for a full byte is a bitwise NOT.
func Complement(b byte) byte { return ^b }

// ComplementBase returns the complement of a single base.
func ComplementBase(b Base) Base { return 3 - b }

// ComplementBases returns the complement of a base sequence.
func ComplementBases(bs []Base) []Base {
	out := make([]Base, len(bs))
	for i, b := range bs {
		out[i] = ComplementBase(b)
	}
	return out
}

// PackBasesToSymbol combines basesPerSymbol bases (most significant
// first) into one RS symbol of width 2*basesPerSymbol bits. Used to
// form inner/outer codec symbols (width mi or mo) directly out of the
// base stream, per archive2dna's dmi=mi/2, dmo=mo/2 bases-per-symbol
// convention.
func PackBasesToSymbol(bs []Base) uint16 {
	var sym uint16
	for _, b := range bs {
		sym = sym<<2 | uint16(b)
	}
	return sym
}

// UnpackSymbolToBases splits an RS symbol of width 2*basesPerSymbol bits
// back into its constituent bases, most significant first.
func UnpackSymbolToBases(sym uint16, basesPerSymbol int) []Base {
	out := make([]Base, basesPerSymbol)
	for i := basesPerSymbol - 1; i >= 0; i-- {
		out[i] = Base(sym & 3)
		sym >>= 2
	}
	return out
}
