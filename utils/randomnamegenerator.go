package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out distinct throwaway names. The sequence is
// seeded with zero so runs are reproducible.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) RandomName() string {
	return rng.RandomNameExcept(nil)
}

// RandomNameExcept also skips every name for which taken reports true.
func (rng *RandomNameGenerator) RandomNameExcept(taken func(string) bool) string {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := "~" + randomdata.SillyName()
		if _, exists := (*rng)[name]; exists {
			continue
		}
		(*rng)[name] = struct{}{}
		if taken != nil && taken(name) {
			continue
		}
		return name
	}
}
