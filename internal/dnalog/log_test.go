package dnalog

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewAppliesLevel(t *testing.T) {
	l := New("warn")
	assert.Equal(t, log.WarnLevel, l.GetLevel())
}

func TestNewFallsBackOnInvalidLevel(t *testing.T) {
	l := New("not-a-level")
	assert.NotNil(t, l)
}
