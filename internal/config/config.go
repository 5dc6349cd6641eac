// Package config loads the codec's parameter record from an INI file,
// mirroring archive2dna's cli.py (createContainer, which reads a named
// profile section plus a TECHNICAL section for auto_zip) through
// Go's gopkg.in/ini.v1 rather than Python's configparser.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Parameters is the codec parameter record: the inner/outer
// Reed-Solomon geometry, primer length, and the auto_zip toggle.
// Field names mirror package.py's Container constructor arguments.
type Parameters struct {
	Name string // profile/section name, e.g. "DEFAULT" or "BIG"

	N  int // inner codeword length, in RS symbols
	K  int // inner message length, in RS symbols
	Mi int // inner symbol width, in bits

	Mo int // outer symbol width, in bits

	// TargetRedundancy is the target fraction of columns reserved for
	// outer parity, in (0,1). The codec derives the outer parity count
	// and block geometry from this and the payload size at encode time;
	// it is not a fixed column count. The parity count is computed from
	// the payload's total data-column count, and every block carries
	// that same count, so a payload that fits one block gets about this
	// fraction while each block of a multi-block payload gets more.
	TargetRedundancy float64

	// IndexPositions records the I1 segment-number width in bits. The
	// codec does not read it: its index layout always uses a fixed
	// 16-bit I1 field.
	IndexPositions int
	PrimerLength   int // primer length, in bytes

	AutoZip bool
}

// Default returns the built-in profile archive2dna ships when no
// config file is given: RS(34,30) inner code over GF(2^8), RS outer
// code over GF(2^14) targeting 40% redundancy, a 16-bit I1 field, and
// the api.py-style 5-byte primer. mo=8 remains a supported, tested
// alternate profile for smaller deployments.
func Default() Parameters {
	return Parameters{
		Name:             "DEFAULT",
		N:                34,
		K:                30,
		Mi:               8,
		Mo:               14,
		TargetRedundancy: 0.4,
		IndexPositions:   16,
		PrimerLength:     5,
		AutoZip:          true,
	}
}

// Load reads profile section `section` from an INI file at path,
// starting from Default() and overriding only the keys present in the
// file. An empty path returns Default(), with Name set to section when
// section is non-empty.
func Load(path, section string) (Parameters, error) {
	p := Default()
	if path == "" {
		if section != "" {
			p.Name = section
		}
		return p, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return Parameters{}, fmt.Errorf("config: loading %s: %w", path, err)
	}

	if section == "" {
		section = ini.DefaultSection
	}
	if !f.HasSection(section) {
		return Parameters{}, fmt.Errorf("config: section %q not found in %s", section, path)
	}
	sec := f.Section(section)
	p.Name = section

	if err := applyInt(sec, "N", &p.N); err != nil {
		return Parameters{}, err
	}
	if err := applyInt(sec, "K", &p.K); err != nil {
		return Parameters{}, err
	}
	if err := applyInt(sec, "mi", &p.Mi); err != nil {
		return Parameters{}, err
	}
	if err := applyInt(sec, "mo", &p.Mo); err != nil {
		return Parameters{}, err
	}
	if err := applyFloat(sec, "target_redundancy", &p.TargetRedundancy); err != nil {
		return Parameters{}, err
	}
	if err := applyInt(sec, "index_positions", &p.IndexPositions); err != nil {
		return Parameters{}, err
	}
	if err := applyInt(sec, "primer_length", &p.PrimerLength); err != nil {
		return Parameters{}, err
	}

	if tech, err := loadTechnical(f); err == nil {
		p.AutoZip = tech
	}

	return p, nil
}

// loadTechnical reads auto_zip from the TECHNICAL section, if present.
func loadTechnical(f *ini.File) (bool, error) {
	if !f.HasSection("TECHNICAL") {
		return false, fmt.Errorf("config: no TECHNICAL section")
	}
	return f.Section("TECHNICAL").Key("auto_zip").Bool()
}

func applyInt(sec *ini.Section, key string, dst *int) error {
	if !sec.HasKey(key) {
		return nil
	}
	v, err := sec.Key(key).Int()
	if err != nil {
		return fmt.Errorf("config: key %q: %w", key, err)
	}
	*dst = v
	return nil
}

func applyFloat(sec *ini.Section, key string, dst *float64) error {
	if !sec.HasKey(key) {
		return nil
	}
	v, err := sec.Key(key).Float64()
	if err != nil {
		return fmt.Errorf("config: key %q: %w", key, err)
	}
	*dst = v
	return nil
}

// NECSi is the inner code's parity symbol count, derived from N and K.
func (p Parameters) NECSi() int { return p.N - p.K }
