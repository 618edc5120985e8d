package windowopt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
)

func TestOptimizeNeverWorsens(t *testing.T) {
	n := 5
	s := bitword.Set{0b00001, 0b00110, 0b01010, 0b11000, 0b10101}
	before := sumWindow(s, n)
	res := Optimize(s, n, false, 7)
	after := sumWindow(res.Outputs, n)
	require.LessOrEqual(t, after, before)
}

func TestOptimizePermutationIsValid(t *testing.T) {
	n := 5
	s := bitword.Set{0b00001, 0b00110, 0b01010, 0b11000, 0b10101}
	res := Optimize(s, n, false, 3)
	seen := make([]bool, n)
	for _, p := range res.Perm {
		require.False(t, seen[p])
		seen[p] = true
	}
	require.Equal(t, bitword.PermuteChannels(s, res.Perm), res.Outputs)
}
