// Package decode implements Decode (spec.md §4.10): turning a SAT
// solver's solution for a suffix CNF back into a comparator network, and
// splicing it onto the prefix it extends.
package decode

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/cnf"
	"github.com/wcgbg/sortnetsearch/internal/network"
	"github.com/wcgbg/sortnetsearch/internal/transform"
)

type gTriple struct{ k, i, j int }

func parseGName(name string) (gTriple, bool) {
	var t gTriple
	if _, err := fmt.Sscanf(name, "g_%d_%d_%d", &t.k, &t.i, &t.j); err != nil {
		return gTriple{}, false
	}
	return t, true
}

func addPair(net *network.Network, i, j, n int, symmetric bool) {
	addIfFree(net, i, j)
	if !symmetric {
		return
	}
	mi, mj := n-1-j, n-1-i
	if mi == i && mj == j {
		return
	}
	addIfFree(net, mi, mj)
}

func addIfFree(net *network.Network, i, j int) {
	if i > j {
		i, j = j, i
	}
	layer := net.Layers[len(net.Layers)-1]
	if layer.Matching[i] == -1 && layer.Matching[j] == -1 {
		net.AddComparator(i, j)
	}
}

// Options configures Decode.
type Options struct {
	Symmetric bool
	// Simplify, if true, runs transform.Simplify on the reconstructed
	// network before returning it.
	Simplify bool
}

// Decode implements spec.md §4.10: given a prefix network, the wire
// permutation recorded for it during window optimization, the variable
// dictionary of the CNF that was solved, and the solver's result, it
// reconstructs the suffix network, un-permutes it, concatenates it after
// the prefix, and verifies the result sorts.
//
// If the solver reported UNSAT, Decode returns (nil, false, nil): this is
// a normal outcome (spec.md §7), not an error, and callers should
// silently skip the prefix.
func Decode(prefix *network.Network, perm []int, varComments []cnf.VarComment, result cnf.SolverResult, opts Options) (*network.Network, bool, error) {
	if !result.SAT {
		return nil, false, nil
	}

	nameByIndex := make(map[int]string, len(varComments))
	for _, vc := range varComments {
		nameByIndex[vc.Index] = vc.Name
	}

	n := prefix.N
	byLayer := map[int][]gTriple{}
	maxLayer := -1
	for idx := range result.TrueVars {
		name, ok := nameByIndex[idx]
		if !ok {
			continue
		}
		t, ok := parseGName(name)
		if !ok {
			continue
		}
		byLayer[t.k] = append(byLayer[t.k], t)
		if t.k > maxLayer {
			maxLayer = t.k
		}
	}

	suffix := network.New(n)
	for k := 0; k <= maxLayer; k++ {
		suffix.AddEmptyLayer()
		for _, t := range byLayer[k] {
			addPair(suffix, t.i, t.j, n, opts.Symmetric)
		}
	}
	suffix.Recompute()

	var unpermuted *network.Network
	if perm == nil {
		unpermuted = suffix
	} else {
		unpermuted = suffix.PermuteChannels(bitword.InversePermutation(perm))
	}

	combined := network.New(n)
	for _, l := range prefix.Layers {
		combined.AddEmptyLayer()
		for _, c := range l.Comparators() {
			combined.AddComparator(c.I, c.J)
		}
	}
	for _, l := range unpermuted.Layers {
		combined.AddEmptyLayer()
		for _, c := range l.Comparators() {
			combined.AddComparator(c.I, c.J)
		}
	}
	combined.Recompute()

	if !combined.IsSortingNetwork() {
		return nil, true, errors.Errorf("decode: reconstructed network on n=%d is not a sorting network:\n%s", n, combined.String())
	}
	if opts.Symmetric && !combined.IsSymmetric() {
		return nil, true, errors.Errorf("decode: reconstructed network on n=%d failed symmetry check:\n%s", n, combined.String())
	}

	if opts.Simplify {
		combined = transform.Simplify(combined)
	}
	return combined, true, nil
}
