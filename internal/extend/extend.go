// Package extend implements ExtendNetwork (spec.md §4.5): given a
// collection of networks sharing n and depth, each already carrying an
// empty last layer, enumerate every way to fill that layer with a valid,
// useful, (optionally) reflection-symmetric matching, modulo the
// commutative order of comparators within a layer.
package extend

import (
	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/network"
	"github.com/wcgbg/sortnetsearch/internal/workerpool"
)

// Options configures a call to All.
type Options struct {
	Symmetric bool
	// OneComparator restricts the last layer to at most one comparator
	// (plus its mirror in symmetric mode), the "add one comparator" mode
	// of spec.md §4.5.
	OneComparator bool
	Workers       int
}

// All enumerates every extension of every network in nets, returning the
// concatenation of all workers' results (spec.md §4.5: "Outputs from all
// workers are concatenated under a single mutex"). Each input network must
// already have an empty last layer and a valid cached output set.
func All(nets []*network.Network, opts Options) []*network.Network {
	collector := &workerpool.Collector[*network.Network]{}
	workerpool.Run(opts.Workers, len(nets), func(idx int) {
		results := extendOne(nets[idx], opts)
		collector.Push(results...)
	})
	return collector.All()
}

func extendOne(net *network.Network, opts Options) []*network.Network {
	n := net.N
	if net.Depth() == 0 {
		panic("extend: network has no layers to extend")
	}
	prefixDepth := net.Depth() - 1 // index of the (empty) last layer

	baseOutputs := net.Outputs()
	hasInverse := buildHasInverse(baseOutputs, n)

	var out []*network.Network
	matched := make([]bool, n)

	var emit func(added []network.Comparator, outputs bitword.Set)
	emit = func(added []network.Comparator, outputs bitword.Set) {
		ext := network.New(n)
		ext.Layers = append(ext.Layers, cloneLayers(net.Layers[:prefixDepth])...)
		layer := network.NewLayer(n)
		for _, c := range added {
			layer.Matching[c.I] = c.J
			layer.Matching[c.J] = c.I
		}
		ext.Layers = append(ext.Layers, layer)
		ext.SetOutputs(outputs)
		out = append(out, ext)
	}

	budget := -1
	if opts.OneComparator {
		budget = 1
	}

	var dfs func(i0 int, added []network.Comparator, outputs bitword.Set, hinv [][]bool, placements int)
	dfs = func(i0 int, added []network.Comparator, outputs bitword.Set, hinv [][]bool, placements int) {
		emit(added, outputs)
		if budget >= 0 && placements >= budget {
			return
		}
		for i := i0; i < n; i++ {
			if matched[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if matched[j] || !hinv[i][j] {
					continue
				}
				matched[i], matched[j] = true, true
				newAdded := append(append([]network.Comparator(nil), added...), network.Comparator{I: i, J: j})
				newOutputs := bitword.ApplyComparator(outputs, i, j)

				mirrorUsed := false
				mi, mj := n-1-j, n-1-i
				if opts.Symmetric && !(mi == i && mj == j) {
					if !matched[mi] && !matched[mj] {
						matched[mi], matched[mj] = true, true
						newAdded = append(newAdded, network.Comparator{I: mi, J: mj})
						newOutputs = bitword.ApplyComparator(newOutputs, mi, mj)
						mirrorUsed = true
					} else {
						// Mirror wire already used; this placement cannot
						// be made symmetric, so skip it entirely.
						matched[i], matched[j] = false, false
						continue
					}
				}

				newHinv := recomputeTouched(hinv, newOutputs, n, i, j, mi, mj, mirrorUsed)
				dfs(i+1, newAdded, newOutputs, newHinv, placements+1)

				if mirrorUsed {
					matched[mi], matched[mj] = false, false
				}
				matched[i], matched[j] = false, false
			}
		}
	}

	dfs(0, nil, baseOutputs, hasInverse, 0)
	return out
}

func cloneLayers(ls []network.Layer) []network.Layer {
	out := make([]network.Layer, len(ls))
	for i, l := range ls {
		m := make([]int, len(l.Matching))
		copy(m, l.Matching)
		out[i] = network.Layer{Matching: m}
	}
	return out
}

func buildHasInverse(s bitword.Set, n int) [][]bool {
	h := make([][]bool, n)
	for i := range h {
		h[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := bitword.HasInverse(s, i, j)
			h[i][j] = v
			h[j][i] = v
		}
	}
	return h
}

// recomputeTouched returns a new has_inverse table equal to hinv except
// for the rows/columns touched by i, j (and, if mirrorUsed, mi, mj),
// recomputed against the updated output set — the only entries that can
// have changed, since comparators only affect bits at their own two wire
// indices (spec.md §4.5).
func recomputeTouched(hinv [][]bool, s bitword.Set, n int, i, j, mi, mj int, mirrorUsed bool) [][]bool {
	out := make([][]bool, n)
	for k := range hinv {
		out[k] = append([]bool(nil), hinv[k]...)
	}
	touched := []int{i, j}
	if mirrorUsed {
		touched = append(touched, mi, mj)
	}
	for _, t := range touched {
		for k := 0; k < n; k++ {
			if k == t {
				continue
			}
			lo, hi := t, k
			if lo > hi {
				lo, hi = hi, lo
			}
			v := bitword.HasInverse(s, lo, hi)
			out[lo][hi] = v
			out[hi][lo] = v
		}
	}
	return out
}
