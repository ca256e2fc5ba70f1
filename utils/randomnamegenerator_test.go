package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomNameGeneratorDistinct(t *testing.T) {
	var rng RandomNameGenerator
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		name := rng.RandomName()
		assert.False(t, seen[name], "duplicate %q", name)
		seen[name] = true
	}
}

func TestRandomNameGeneratorSkipsTaken(t *testing.T) {
	var probe RandomNameGenerator
	first := probe.RandomName()

	var rng RandomNameGenerator
	name := rng.RandomNameExcept(func(s string) bool { return s == first })
	assert.NotEqual(t, first, name)
}
