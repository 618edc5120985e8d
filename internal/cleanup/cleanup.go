// Package cleanup implements CleanUp (spec.md §4.6): given a collection of
// extended networks and a keep-best-count K, produce a sorted-by-|outputs|
// collection of the K smallest networks, plus any whose output-set size ties
// the K-th one's, all mutually non-redundant under the full pruner.
package cleanup

import (
	"math"
	"sort"

	"github.com/wcgbg/sortnetsearch/internal/isomorphism"
	"github.com/wcgbg/sortnetsearch/internal/network"
)

// Options configures Run.
type Options struct {
	N         int
	Symmetric bool
	KeepBest  int
	Seed      int64
	Workers   int
}

// Run implements the CleanUp algorithm of spec.md §4.6. The growth policy
// for the prefilter-retry loop (step 4) is, per spec.md §9, an open
// implementation choice: this one scales the prefilter by 1.5x times the
// observed shortfall ratio (requested K over survivors actually found) so
// that a prefilter producing far too few survivors grows faster than one
// that is only slightly short, while always preserving the postcondition
// that a survivor of the full pruner over any superset of the final
// prefilter also survives over the prefilter itself.
func Run(nets []*network.Network, opts Options) []*network.Network {
	k := opts.KeepBest
	if len(nets) <= k {
		return pruneFull(nets, opts)
	}

	fastSurvivors := pruneFast(nets, opts)
	sortBySize(fastSurvivors)

	prefilterSize := int(math.Ceil(2 * float64(k)))
	if prefilterSize < 1 {
		prefilterSize = 1
	}

	var survivors []*network.Network
	for {
		if prefilterSize > len(fastSurvivors) {
			prefilterSize = len(fastSurvivors)
		}
		prefilter := fastSurvivors[:prefilterSize]
		survivors = pruneFull(prefilter, opts)
		sortBySize(survivors)

		if len(survivors) >= k || prefilterSize >= len(fastSurvivors) {
			break
		}
		shortfall := float64(k) / float64(max(1, len(survivors)))
		next := int(math.Ceil(float64(prefilterSize) * 1.5 * shortfall))
		if next <= prefilterSize {
			next = prefilterSize + 1
		}
		prefilterSize = next
	}

	if len(survivors) > k {
		cutoff := survivors[k-1].Outputs()
		trimmed := survivors[:0:0]
		for _, s := range survivors {
			if len(s.Outputs()) <= len(cutoff) {
				trimmed = append(trimmed, s)
			}
		}
		survivors = trimmed
	}
	return survivors
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func sortBySize(nets []*network.Network) {
	sort.SliceStable(nets, func(i, j int) bool {
		return len(nets[i].Outputs()) < len(nets[j].Outputs())
	})
}

func prune(nets []*network.Network, opts Options, fast bool) []*network.Network {
	sorted := append([]*network.Network(nil), nets...)
	sortBySize(sorted)

	candidates := make([]isomorphism.Candidate, len(sorted))
	for i, net := range sorted {
		candidates[i] = isomorphism.Candidate{Outputs: net.Outputs(), Index: i}
	}
	redundant := isomorphism.FindRedundant(candidates, opts.N, opts.Symmetric, fast, opts.Seed, opts.Workers)

	var out []*network.Network
	for i, net := range sorted {
		if !redundant[i] {
			out = append(out, net)
		}
	}
	return out
}

func pruneFast(nets []*network.Network, opts Options) []*network.Network {
	return prune(nets, opts, true)
}

func pruneFull(nets []*network.Network, opts Options) []*network.Network {
	return prune(nets, opts, false)
}
