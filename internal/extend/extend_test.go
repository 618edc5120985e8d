package extend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/cleanup"
	"github.com/wcgbg/sortnetsearch/internal/network"
)

// canonicalFirstLayers returns the canonical starting point(s) for a
// two-layer search on n wires: the single all-adjacent-pairs layer when
// non-symmetric, or, when symmetric, one network per count k of
// adjacent pairs at each outer end (0 <= k <= n/4), the remaining wires
// of the half paired with their mirror wire.
func canonicalFirstLayers(n int, symmetric bool) []*network.Network {
	if !symmetric {
		net := network.New(n)
		net.AddEmptyLayer()
		for i := 0; i+1 < n; i += 2 {
			net.AddComparator(i, i+1)
		}
		net.Recompute()
		return []*network.Network{net}
	}

	var out []*network.Network
	for k := 0; k <= n/2/2; k++ {
		net := network.New(n)
		net.AddEmptyLayer()
		for i := 0; i < k; i++ {
			net.AddComparator(i*2, i*2+1)
			net.AddComparator(n-1-(i*2+1), n-1-i*2)
		}
		for i := k * 2; i < n/2; i++ {
			net.AddComparator(i, n-1-i)
		}
		net.Recompute()
		out = append(out, net)
	}
	return out
}

// TestTwoLayerExtensionCounts reproduces the canonical-first-layer,
// full-extend-then-fully-prune counts: the number of pairwise
// non-redundant two-layer networks reachable from the canonical first
// layer(s) on n wires.
func TestTwoLayerExtensionCounts(t *testing.T) {
	cases := []struct {
		n         int
		symmetric bool
		want      int
	}{
		{3, false, 1},
		{4, false, 2},
		{4, true, 2},
		{5, false, 4},
		{6, false, 5},
		{6, true, 4},
		{7, false, 8},
		{8, false, 12},
		{8, true, 12},
		{9, false, 22},
	}
	for _, c := range cases {
		firsts := canonicalFirstLayers(c.n, c.symmetric)
		for _, net := range firsts {
			net.AddEmptyLayer()
		}
		extended := All(firsts, Options{Symmetric: c.symmetric, Workers: 2})
		pruned := cleanup.Run(extended, cleanup.Options{
			N:         c.n,
			Symmetric: c.symmetric,
			KeepBest:  math.MaxInt,
			Seed:      1,
			Workers:   2,
		})
		require.Len(t, pruned, c.want, "n=%d symmetric=%v", c.n, c.symmetric)
	}
}

func firstLayerNetwork(n int) *network.Network {
	net := network.New(n)
	net.AddEmptyLayer()
	for i := 0; i+1 < n; i += 2 {
		net.AddComparator(i, i+1)
	}
	net.Recompute()
	net.AddEmptyLayer()
	return net
}

func TestAllIncludesEmptyExtension(t *testing.T) {
	n := 4
	net := firstLayerNetwork(n)
	exts := All([]*network.Network{net}, Options{Workers: 2})
	foundEmpty := false
	for _, e := range exts {
		if len(e.Layers[len(e.Layers)-1].Comparators()) == 0 {
			foundEmpty = true
		}
	}
	require.True(t, foundEmpty)
}

func TestAllProducesValidUsefulMatchings(t *testing.T) {
	n := 4
	net := firstLayerNetwork(n)
	exts := All([]*network.Network{net}, Options{Workers: 2})
	for _, e := range exts {
		last := e.Layers[len(e.Layers)-1]
		seen := make([]bool, n)
		for _, c := range last.Comparators() {
			require.Less(t, c.I, c.J)
			require.False(t, seen[c.I])
			require.False(t, seen[c.J])
			seen[c.I], seen[c.J] = true, true
			require.True(t, bitword.HasInverse(net.Outputs(), c.I, c.J))
		}
	}
}

func TestOneComparatorModeBoundsSize(t *testing.T) {
	n := 4
	net := firstLayerNetwork(n)
	exts := All([]*network.Network{net}, Options{Workers: 2, OneComparator: true})
	for _, e := range exts {
		require.LessOrEqual(t, len(e.Layers[len(e.Layers)-1].Comparators()), 1)
	}
}

func TestSymmetricModeProducesSymmetricMatchings(t *testing.T) {
	n := 4
	net := firstLayerNetwork(n)
	exts := All([]*network.Network{net}, Options{Workers: 2, Symmetric: true})
	for _, e := range exts {
		last := e.Layers[len(e.Layers)-1]
		for i := 0; i < n; i++ {
			mi, mr := last.Matching[i], last.Matching[n-1-i]
			if mi == -1 {
				require.Equal(t, -1, mr)
			} else {
				require.Equal(t, n-1-mi, mr)
			}
		}
	}
}
