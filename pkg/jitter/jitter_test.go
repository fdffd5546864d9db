package jitter

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration_WithinBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 1000; i++ {
		d := Duration(base, DefaultJitter)
		assert.GreaterOrEqual(t, d, base)
		assert.LessOrEqual(t, d, base+base/2)
	}
}

func TestDurationWithSeed_Deterministic(t *testing.T) {
	base := 200 * time.Millisecond

	first := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))
	second := DurationWithSeed(base, DefaultJitter, rand.New(rand.NewSource(42)))

	assert.Equal(t, first, second)
}

func TestExponentialBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	max := 1 * time.Second

	tests := []struct {
		name    string
		attempt int
		floor   time.Duration
	}{
		{name: "first attempt uses base", attempt: 0, floor: base},
		{name: "doubles per attempt", attempt: 2, floor: 400 * time.Millisecond},
		{name: "capped at max", attempt: 10, floor: max},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ExponentialBackoff(base, max, tt.attempt, 0)
			assert.Equal(t, tt.floor, d)
		})
	}
}
