// Package transform implements Simplify, Stack and Permute (spec.md §4.9):
// structural rewrites of networks that preserve (or combine) their
// sorting behavior.
package transform

import (
	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/network"
)

// Simplify rebuilds net layer by layer, dropping any comparator that has
// no effect on the outputs reachable so far: layer 0 is copied verbatim,
// and each later comparator is kept only if it has-inverse in the
// reconstruction's current output set. The result sorts iff net did.
func Simplify(net *network.Network) *network.Network {
	out := network.New(net.N)
	if net.Depth() == 0 {
		out.SetOutputs(net.Outputs())
		return out
	}

	out.AddEmptyLayer()
	for _, c := range net.Layers[0].Comparators() {
		out.AddComparator(c.I, c.J)
	}
	out.Recompute()

	for l := 1; l < net.Depth(); l++ {
		out.AddEmptyLayer()
		for _, c := range net.Layers[l].Comparators() {
			if bitword.HasInverse(out.Outputs(), c.I, c.J) {
				out.AddComparator(c.I, c.J)
			}
		}
	}
	return out
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func remapWord(x bitword.Word, perm []int) bitword.Word {
	var out bitword.Word
	for i, p := range perm {
		if bitword.Bit(x, i) == 1 {
			out |= bitword.Word(1) << uint(p)
		}
	}
	return out
}

// Stack combines a (n_a wires) and b (n_b wires) into one network on
// n_a+n_b wires (spec.md §4.9). In non-symmetric mode a occupies the low
// wires and b the high wires; in symmetric mode a's low half stays put,
// a's high half shifts past b, and b is inserted in the middle, which
// preserves reflection symmetry when both inputs are already symmetric.
func Stack(a, b *network.Network, symmetric bool) *network.Network {
	na, nb := a.N, b.N
	n := na + nb

	var permA, permB []int
	if symmetric {
		permA = make([]int, na)
		for w := 0; w < na; w++ {
			if w < na/2 {
				permA[w] = w
			} else {
				permA[w] = w + nb
			}
		}
		permB = make([]int, nb)
		for w := 0; w < nb; w++ {
			permB[w] = na/2 + w
		}
	} else {
		permA = identity(na)
		permB = make([]int, nb)
		for w := 0; w < nb; w++ {
			permB[w] = na + w
		}
	}

	depth := a.Depth()
	if b.Depth() > depth {
		depth = b.Depth()
	}

	out := network.New(n)
	for l := 0; l < depth; l++ {
		out.AddEmptyLayer()
		if l < a.Depth() {
			for _, c := range a.Layers[l].Comparators() {
				pi, pj := permA[c.I], permA[c.J]
				if pi > pj {
					pi, pj = pj, pi
				}
				out.AddComparator(pi, pj)
			}
		}
		if l < b.Depth() {
			for _, c := range b.Layers[l].Comparators() {
				pi, pj := permB[c.I], permB[c.J]
				if pi > pj {
					pi, pj = pj, pi
				}
				out.AddComparator(pi, pj)
			}
		}
	}

	var combined bitword.Set
	for _, x := range a.Outputs() {
		rx := remapWord(x, permA)
		for _, y := range b.Outputs() {
			combined = append(combined, rx|remapWord(y, permB))
		}
	}
	out.SetOutputs(bitword.Dedup(combined))
	return out
}

// Permute applies a wire permutation to net, exposed here as its own
// transform entry point (internally it is network.PermuteChannels).
func Permute(net *network.Network, perm []int) *network.Network {
	return net.PermuteChannels(perm)
}
