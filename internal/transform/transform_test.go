package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/network"
)

func buildLayered(n int, layers [][][2]int) *network.Network {
	net := network.New(n)
	for _, l := range layers {
		net.AddEmptyLayer()
		for _, c := range l {
			net.AddComparator(c[0], c[1])
		}
	}
	net.Recompute()
	return net
}

func TestSimplifyDropsRedundantComparator(t *testing.T) {
	net := buildLayered(4, [][][2]int{
		{{0, 2}, {1, 3}},
		{{0, 1}, {2, 3}},
		{{0, 3}, {1, 2}},
	})
	got := Simplify(net)
	want := buildLayered(4, [][][2]int{
		{{0, 2}, {1, 3}},
		{{0, 1}, {2, 3}},
		{{1, 2}},
	})
	require.Equal(t, want.String(), got.String())
	require.Equal(t, want.Outputs(), got.Outputs())
}

func TestSimplifyNeverChangesOutputs(t *testing.T) {
	net := buildLayered(4, [][][2]int{
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{1, 2}},
	})
	got := Simplify(net)
	require.Equal(t, net.Outputs(), got.Outputs())
}

func TestStackNonSymmetricWidthAndLayers(t *testing.T) {
	a := buildLayered(2, [][][2]int{{{0, 1}}})
	b := buildLayered(2, [][][2]int{{{0, 1}}})
	got := Stack(a, b, false)
	require.Equal(t, 4, got.N)
	require.Equal(t, []network.Comparator{{I: 0, J: 1}, {I: 2, J: 3}}, got.Layers[0].Comparators())
}

func TestStackSymmetricScenario(t *testing.T) {
	a := buildLayered(4, [][][2]int{{{0, 3}, {1, 2}}})
	b := buildLayered(2, [][][2]int{{{0, 1}}})
	got := Stack(a, b, true)

	require.Equal(t, 6, got.N)
	require.Equal(t, []network.Comparator{{I: 0, J: 5}, {I: 1, J: 4}, {I: 2, J: 3}}, got.Layers[0].Comparators())

	var want bitword.Set
	permA := []int{0, 1, 4, 5}
	permB := []int{2, 3}
	remap := func(x bitword.Word, perm []int) bitword.Word {
		var out bitword.Word
		for i, p := range perm {
			if bitword.Bit(x, i) == 1 {
				out |= bitword.Word(1) << uint(p)
			}
		}
		return out
	}
	for _, x := range a.Outputs() {
		for _, y := range b.Outputs() {
			want = append(want, remap(x, permA)|remap(y, permB))
		}
	}
	want = bitword.Dedup(want)
	require.Equal(t, want, got.Outputs())
}

func TestPermuteMatchesNetworkPermuteChannels(t *testing.T) {
	net := buildLayered(4, [][][2]int{{{0, 2}, {1, 3}}, {{0, 1}, {2, 3}}})
	perm := []int{2, 0, 3, 1}
	require.Equal(t, net.PermuteChannels(perm).Outputs(), Permute(net, perm).Outputs())
}
