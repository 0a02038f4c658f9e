package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := readVersion()
	assert.NotEmpty(t, v.Revision)
	assert.Contains(t, v.String(), "("+v.Revision+")")
	assert.Equal(t, Version, v)
}
