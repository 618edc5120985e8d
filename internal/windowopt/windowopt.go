// Package windowopt implements the WindowOptimizer of spec.md §4.7: greedy
// 2-opt local search over wire permutations minimizing the sum of window
// sizes of an output set.
package windowopt

import (
	"math/rand"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/isomorphism"
)

// Result is the outcome of Optimize: the permuted output set and the
// composite permutation applied to reach it.
type Result struct {
	Outputs bitword.Set
	Perm    []int
}

func sumWindow(s bitword.Set, n int) int {
	sum, _, _ := bitword.WindowStats(s, n)
	return sum
}

// Optimize runs the greedy 2-opt search of spec.md §4.7. seed drives both
// the initial column-weight tie-break and the per-scan pair shuffle order.
func Optimize(s bitword.Set, n int, symmetric bool, seed int64) Result {
	rng := rand.New(rand.NewSource(seed))

	canon, perm := isomorphism.CanonicalByColumnWeight(s, n, rng)
	cur := canon
	bestScore := sumWindow(cur, n)

	for {
		improved := false
		order := rng.Perm(n * n)
		for _, idx := range order {
			i, j := idx/n, idx%n
			if i >= j {
				continue
			}
			candidate := swapWires(cur, perm, n, i, j, symmetric)
			score := sumWindow(candidate.Outputs, n)
			if score < bestScore {
				cur = candidate.Outputs
				perm = candidate.Perm
				bestScore = score
				improved = true
				break
			}
		}
		if !improved {
			break
		}
	}

	return Result{Outputs: cur, Perm: perm}
}

// swapWires returns the set/permutation obtained by swapping wires i and j
// (and, in symmetric mode, their reflections n-1-i, n-1-j) on top of the
// current permutation.
func swapWires(cur bitword.Set, perm []int, n int, i, j int, symmetric bool) Result {
	// Build the position-swap as a permutation of the *current* output
	// positions, then compose with perm for bookkeeping.
	swapPerm := identity(n)
	swapPerm[i], swapPerm[j] = swapPerm[j], swapPerm[i]
	if symmetric {
		mi, mj := n-1-i, n-1-j
		if mi != j && mi != i {
			swapPerm[mi], swapPerm[mj] = swapPerm[mj], swapPerm[mi]
		}
	}
	newOutputs := bitword.PermuteChannels(cur, swapPerm)

	// Compose: new perm maps original wire -> new position. Since perm
	// already maps original wire -> current position, and swapPerm maps
	// current position -> new position, composite[w] = swapPerm[perm[w]].
	composite := make([]int, n)
	for w, p := range perm {
		composite[w] = swapPerm[p]
	}
	return Result{Outputs: newOutputs, Perm: composite}
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
