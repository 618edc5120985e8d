package cleanup

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/isomorphism"
	"github.com/wcgbg/sortnetsearch/internal/network"
)

func withOutputs(n int, outputs bitword.Set) *network.Network {
	net := network.New(n)
	net.SetOutputs(outputs)
	return net
}

func TestRunDropsRedundantWhenUnderBudget(t *testing.T) {
	n := 3
	small := withOutputs(n, bitword.Set{0b000, 0b111})
	superset := withOutputs(n, bitword.Set{0b000, 0b001, 0b111})
	distinct := withOutputs(n, bitword.Set{0b000, 0b010, 0b101, 0b111})

	opts := Options{N: n, KeepBest: 3, Seed: 1, Workers: 2}
	result := Run([]*network.Network{small, superset, distinct}, opts)

	for _, r := range result {
		require.False(t, r == superset, "superset should have been pruned by small")
	}
	require.LessOrEqual(t, len(result), 3)
}

func TestRunRespectsKeepBestAndOrdering(t *testing.T) {
	n := 4
	nets := []*network.Network{
		withOutputs(n, bitword.Set{0b0000, 0b1111}),
		withOutputs(n, bitword.Set{0b0000, 0b0001, 0b1111}),
		withOutputs(n, bitword.Set{0b0000, 0b0011, 0b1100, 0b1111}),
		withOutputs(n, bitword.Set{0b0000, 0b0110, 0b1001, 0b1111, 0b0101}),
	}
	opts := Options{N: n, KeepBest: 2, Seed: 2, Workers: 2}
	result := Run(nets, opts)

	require.LessOrEqual(t, len(result), 2)
	for i := 1; i < len(result); i++ {
		require.LessOrEqual(t, len(result[i-1].Outputs()), len(result[i].Outputs()))
	}
}

func TestRunSurvivorsAreMutuallyNonRedundant(t *testing.T) {
	n := 4
	nets := []*network.Network{
		withOutputs(n, bitword.Set{0b0000, 0b1111}),
		withOutputs(n, bitword.Set{0b0000, 0b0011, 0b1100, 0b1111}),
		withOutputs(n, bitword.Set{0b0000, 0b0110, 0b1001, 0b1111, 0b0101}),
		withOutputs(n, bitword.Set{0b0000, 0b0010, 0b1101, 0b1111}),
	}
	opts := Options{N: n, KeepBest: 10, Seed: 3, Workers: 2}
	result := Run(nets, opts)

	for i := range result {
		for j := range result {
			if i == j {
				continue
			}
			if len(result[i].Outputs()) > len(result[j].Outputs()) {
				continue
			}
			require.False(t, isomorphism.Embeds(result[i].Outputs(), result[j].Outputs(), n, false),
				"survivor %d should not embed into survivor %d", i, j)
		}
	}
}

func TestRunNoOpWhenAlreadyUnderBudget(t *testing.T) {
	n := 3
	nets := []*network.Network{
		withOutputs(n, bitword.Set{0b000, 0b111}),
	}
	opts := Options{N: n, KeepBest: 5, Seed: 0, Workers: 1}
	result := Run(nets, opts)
	require.Len(t, result, 1)
}
