package network

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
)

func buildN4() *Network {
	net := New(4)
	net.AddEmptyLayer()
	net.AddComparator(0, 2)
	net.AddComparator(1, 3)
	net.AddEmptyLayer()
	net.AddComparator(0, 1)
	net.AddComparator(2, 3)
	net.AddEmptyLayer()
	net.AddComparator(1, 2)
	return net
}

func TestN4SortingNetworkScenario(t *testing.T) {
	net := buildN4()
	net.Recompute()
	want := bitword.Set{0b0000, 0b1000, 0b1100, 0b1110, 0b1111}
	require.Equal(t, want, net.Outputs())
	require.True(t, net.IsSortingNetwork())
}

func TestCachedOutputsMatchRecompute(t *testing.T) {
	net := New(4)
	net.SetOutputs(bitword.Set{})
	net.outputsValid = true
	net.outputs = allVectors(4)

	net.AddEmptyLayer()
	net.AddComparator(0, 2)
	net.AddComparator(1, 3)
	net.AddEmptyLayer()
	net.AddComparator(0, 1)
	net.AddComparator(2, 3)

	cached := net.Outputs()

	fresh := New(4)
	fresh.Layers = net.Layers
	fresh.Recompute()

	require.Equal(t, fresh.Outputs(), cached)
}

func allVectors(n int) bitword.Set {
	s := make(bitword.Set, 1<<uint(n))
	for x := range s {
		s[x] = bitword.Word(x)
	}
	return bitword.Dedup(s)
}

func TestIsSymmetric(t *testing.T) {
	net := New(4)
	net.AddEmptyLayer()
	net.AddComparator(0, 3)
	net.AddComparator(1, 2)
	require.True(t, net.IsSymmetric())

	net2 := New(4)
	net2.AddEmptyLayer()
	net2.AddComparator(0, 1)
	require.False(t, net2.IsSymmetric())
}

func TestStringRoundTrip(t *testing.T) {
	net := buildN4()
	s := net.String()
	require.Equal(t, "[(0,2),(1,3)],[(0,1),(2,3)],[(1,2)]", s)

	parsed, err := ParseBracket(4, s)
	require.NoError(t, err)
	require.Equal(t, net.Layers, parsed.Layers)
}

func TestParseBracketCollision(t *testing.T) {
	_, err := ParseBracket(4, "[(0,1),(1,2)]")
	require.Error(t, err)
}

func TestPermuteChannelsInverse(t *testing.T) {
	net := buildN4()
	net.Recompute()
	perm := []int{2, 0, 3, 1}
	inv := bitword.InversePermutation(perm)

	permuted := net.PermuteChannels(perm)
	back := permuted.PermuteChannels(inv)
	back.Recompute()
	net.Recompute()
	require.Equal(t, net.Outputs(), back.Outputs())
}
