package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParameters(t *testing.T) {
	p := Default()
	assert.Equal(t, 34, p.N)
	assert.Equal(t, 30, p.K)
	assert.Equal(t, 4, p.NECSi())
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	p, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, Default().N, p.N)
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	contents := "[BIG]\nN = 64\nK = 56\nmo = 14\ntarget_redundancy = 0.3\n\n[TECHNICAL]\nauto_zip = false\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	p, err := Load(path, "BIG")
	require.NoError(t, err)
	assert.Equal(t, 64, p.N)
	assert.Equal(t, 56, p.K)
	assert.Equal(t, 14, p.Mo)
	assert.InDelta(t, 0.3, p.TargetRedundancy, 1e-9)
	assert.False(t, p.AutoZip)
	// mi wasn't set in the file, default must survive.
	assert.Equal(t, 8, p.Mi)
}

func TestLoadMissingSectionErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("[OTHER]\nN=1\n"), 0o644))

	_, err := Load(path, "BIG")
	assert.Error(t, err)
}
