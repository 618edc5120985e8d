// Package isomorphism implements the subset-isomorphism pruner of spec.md
// §4.3: deciding, for output sets A and B on n wires, whether some
// permutation σ of wires makes σ(A) ⊆ B, plus the batch redundancy pass
// that drives ExtendNetwork/CleanUp pruning.
package isomorphism

import (
	"math/rand"
	"sort"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/workerpool"
)

// RowWeights returns the sorted-ascending multiset of popcount(x) for x in
// s, and its complement (n-popcount(x)).
func RowWeights(s bitword.Set, n int) (weights, complement []int) {
	weights = make([]int, len(s))
	complement = make([]int, len(s))
	for i, x := range s {
		p := bitword.PopCount(x, n)
		weights[i] = p
		complement[i] = n - p
	}
	sort.Ints(weights)
	sort.Ints(complement)
	return weights, complement
}

// ColWeights returns col_weights(s)[i] = #{x in s : bit_i(x)=1}, and its
// complement len(s)-col_weights[i], both sorted ascending (buckets, not
// physical elements, so sorting is meaningful for the necessary-condition
// comparison of spec.md §4.3.1).
func ColWeights(s bitword.Set, n int) (weights, complement []int) {
	weights = make([]int, n)
	for _, x := range s {
		for i := 0; i < n; i++ {
			if bitword.Bit(x, i) == 1 {
				weights[i]++
			}
		}
	}
	complement = make([]int, n)
	for i := range weights {
		complement[i] = len(s) - weights[i]
	}
	sort.Ints(weights)
	sort.Ints(complement)
	return weights, complement
}

func pointwiseLE(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] > b[i] {
			return false
		}
	}
	return true
}

func pointwiseGE(a, b []int) bool {
	return pointwiseLE(b, a)
}

// NecessaryFilter implements the cheap monotone necessary test of spec.md
// §4.3.1. A false return is conclusive: no σ can make σ(A) ⊆ B. A true
// return means the backtracker must still be run.
func NecessaryFilter(a, b bitword.Set, n int) bool {
	if len(a) > len(b) {
		return false
	}
	aRow, aRowC := RowWeights(a, n)
	bRow, bRowC := RowWeights(b, n)
	if !subMultiset(aRow, bRow) || !subMultiset(aRowC, bRowC) {
		return false
	}
	aCol, aColC := ColWeights(a, n)
	bCol, bColC := ColWeights(b, n)
	if !pointwiseLE(aCol, bCol) || !pointwiseLE(aColC, bColC) {
		return false
	}
	return true
}

// CanonicalByColumnWeight sorts wires of s by column weight (stable, ties
// broken by rng to diversify across repeated calls) and returns the
// permuted set along with the permutation used (perm[i] is wire i's new
// position, the convention of bitword.PermuteChannels).
func CanonicalByColumnWeight(s bitword.Set, n int, rng *rand.Rand) (bitword.Set, []int) {
	weights, _ := ColWeightsRaw(s, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	tie := make([]float64, n)
	if rng != nil {
		for i := range tie {
			tie[i] = rng.Float64()
		}
	}
	sort.SliceStable(order, func(x, y int) bool {
		wi, wj := weights[order[x]], weights[order[y]]
		if wi != wj {
			return wi < wj
		}
		return tie[order[x]] < tie[order[y]]
	})
	// order[k] = old wire index now at canonical position k; perm maps old
	// wire -> new position, i.e. perm[order[k]] = k.
	perm := make([]int, n)
	for k, oldWire := range order {
		perm[oldWire] = k
	}
	return bitword.PermuteChannels(s, perm), perm
}

// ColWeightsRaw returns col_weights(s)[i] without sorting, for use by
// CanonicalByColumnWeight which needs weights indexed by wire.
func ColWeightsRaw(s bitword.Set, n int) (weights []int, total int) {
	weights = make([]int, n)
	for _, x := range s {
		for i := 0; i < n; i++ {
			if bitword.Bit(x, i) == 1 {
				weights[i]++
			}
		}
	}
	return weights, len(s)
}

// subMultiset reports whether sorted (ascending, with duplicates) multiset
// small is a sub-multiset of sorted multiset large.
func subMultiset(small, large []int) bool {
	j := 0
	for _, v := range small {
		for j < len(large) && large[j] < v {
			j++
		}
		if j >= len(large) || large[j] != v {
			return false
		}
		j++
	}
	return true
}

// FindEmbedding runs the backtracking search of spec.md §4.3.3, returning
// a permutation σ (σ[i] = image of domain wire i) with σ(A) ⊆ B, or false
// if none exists. In symmetric mode, σ is additionally constrained so that
// σ(n-1-i) = n-1-σ(i) for all i.
func FindEmbedding(a, b bitword.Set, n int, symmetric bool) ([]int, bool) {
	sigma := make([]int, n)
	for i := range sigma {
		sigma[i] = -1
	}
	used := make([]bool, n)

	target := n
	if symmetric {
		target = (n + 1) / 2
	}

	var pastMask bitword.Word

	var recurse func(p int) bool
	recurse = func(p int) bool {
		// Feasibility: every a-projection onto decided images must be
		// explainable by some b.
		bp := make([]int, 0, len(b))
		for _, x := range b {
			bp = append(bp, int(x&pastMask))
		}
		sort.Ints(bp)
		ap := make([]int, 0, len(a))
		for _, x := range a {
			var v bitword.Word
			for k := 0; k < p; k++ {
				if bitword.Bit(x, k) == 1 {
					v |= bitword.Word(1) << uint(sigma[k])
				}
			}
			if symmetric {
				mirror := n - 1 - p
				for k := n - 1; k > mirror; k-- {
					if bitword.Bit(x, k) == 1 {
						v |= bitword.Word(1) << uint(sigma[k])
					}
				}
			}
			ap = append(ap, int(v))
		}
		sort.Ints(ap)
		if !subMultiset(ap, bp) {
			return false
		}
		if p >= target {
			return true
		}

		for i := 0; i < n; i++ {
			if used[i] {
				continue
			}
			mirrorI := n - 1 - i
			if symmetric && p == n-1-p {
				// middle wire in odd n, symmetric mode: must map to itself
				// mirror-consistently; only i == mirrorI can work cleanly,
				// but any i is tried and the constraint below enforces it.
			}
			sigma[p] = i
			used[i] = true
			pastMask |= bitword.Word(1) << uint(i)

			ok := true
			if symmetric {
				mp := n - 1 - p
				if mp != p {
					if used[mirrorI] {
						ok = false
					} else {
						sigma[mp] = mirrorI
						used[mirrorI] = true
						pastMask |= bitword.Word(1) << uint(mirrorI)
					}
				} else if mirrorI != i {
					ok = false
				}
			}

			if ok && recurse(p+1) {
				return true
			}

			if symmetric {
				mp := n - 1 - p
				if mp != p && used[mirrorI] {
					used[mirrorI] = false
					sigma[mp] = -1
					pastMask &^= bitword.Word(1) << uint(mirrorI)
				}
			}
			used[i] = false
			sigma[p] = -1
			pastMask &^= bitword.Word(1) << uint(i)
		}
		return false
	}

	if recurse(0) {
		out := append([]int(nil), sigma...)
		return out, true
	}
	return nil, false
}

// Embeds reports whether some σ makes σ(a) ⊆ b, running the cheap filter
// first and the backtracker only if the filter does not already rule it
// out.
func Embeds(a, b bitword.Set, n int, symmetric bool) bool {
	if !NecessaryFilter(a, b, n) {
		return false
	}
	_, ok := FindEmbedding(a, b, n, symmetric)
	return ok
}

// BruteForceEmbeds is the reference implementation used by tests to check
// the backtracker's correctness: it tries every permutation of n wires
// (or, in symmetric mode, every permutation satisfying σ(n-1-i)=n-1-σ(i))
// directly. Exponential; intended for small n only.
func BruteForceEmbeds(a, b bitword.Set, n int, symmetric bool) bool {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	bset := make(map[bitword.Word]struct{}, len(b))
	for _, x := range b {
		bset[x] = struct{}{}
	}
	var found bool
	var permute func(i int)
	permute = func(i int) {
		if found {
			return
		}
		if i == n {
			if symmetric {
				for k := 0; k < n; k++ {
					if perm[n-1-k] != n-1-perm[k] {
						return
					}
				}
			}
			ok := true
			for _, x := range a {
				y := applyPermWord(x, perm, n)
				if _, in := bset[y]; !in {
					ok = false
					break
				}
			}
			if ok {
				found = true
			}
			return
		}
		for j := i; j < n; j++ {
			perm[i], perm[j] = perm[j], perm[i]
			permute(i + 1)
			perm[i], perm[j] = perm[j], perm[i]
			if found {
				return
			}
		}
	}
	permute(0)
	return found
}

func applyPermWord(x bitword.Word, perm []int, n int) bitword.Word {
	var out bitword.Word
	for i := 0; i < n; i++ {
		if bitword.Bit(x, i) == 1 {
			out |= bitword.Word(1) << uint(perm[i])
		}
	}
	return out
}

// Candidate is one element of the collection passed to FindRedundant: an
// output set plus its original index, in ascending order of |Outputs|.
type Candidate struct {
	Outputs bitword.Set
	Index   int
}

// FastPasses is the number of sequential passes run in fast mode; FullPasses
// is the number run otherwise (spec.md §4.3.4: "up to 6 sequential passes
// ... 2 in fast mode").
const (
	FastPasses = 2
	FullPasses = 6
)

// FindRedundant runs the batch redundancy pass of spec.md §4.3.4 over a
// collection pre-sorted ascending by |Outputs|, marking index i redundant
// when some earlier-or-smaller j's set (or its reflect-invert twin) embeds
// into σ(candidates[i].Outputs) for some σ. Returns the set of redundant
// indices (original Index values, not positions).
func FindRedundant(candidates []Candidate, n int, symmetric bool, fast bool, seed int64, workers int) map[int]bool {
	passes := FullPasses
	if fast {
		passes = FastPasses
	}
	flags := workerpool.NewAtomicFlags(len(candidates))
	rng := rand.New(rand.NewSource(seed))

	canon := make([]bitword.Set, len(candidates))
	for i, c := range candidates {
		canon[i] = c.Outputs
	}
	twin := make([]bitword.Set, len(candidates))

	for pass := 0; pass < passes; pass++ {
		// original_source/isomorphism.cc only builds the reflect-invert twin
		// when !fast, so fast mode never runs this branch there. Here
		// useTwin is "last two passes" unconditionally, which in fast mode
		// (FastPasses=2) means both passes use the twin; spec.md §4.3.4
		// describes the twin check as part of the pass itself rather than
		// gated on fast/full, so this reading stays spec-compliant while
		// doing strictly more checking per fast pass than the original did.
		useTwin := pass >= passes-2
		for i := range candidates {
			s, _ := CanonicalByColumnWeight(candidates[i].Outputs, n, rng)
			canon[i] = s
			if useTwin {
				ri := bitword.ReflectInvertSet(candidates[i].Outputs, n)
				t, _ := CanonicalByColumnWeight(ri, n, rng)
				twin[i] = t
			}
		}
		isLast := pass == passes-1

		workerpool.Run(workers, len(candidates), func(i int) {
			if flags.IsSet(i) {
				return
			}
			for j := 0; j < i; j++ {
				if flags.IsSet(j) {
					continue
				}
				if len(candidates[j].Outputs) > len(candidates[i].Outputs) {
					continue
				}
				if checkRedundantPair(canon, twin, candidates, i, j, n, symmetric, useTwin, isLast) {
					flags.Mark(i)
					return
				}
			}
		})
	}

	out := map[int]bool{}
	for i, c := range candidates {
		if flags.IsSet(i) {
			out[c.Index] = true
		}
	}
	return out
}

func checkRedundantPair(canon, twin []bitword.Set, candidates []Candidate, i, j, n int, symmetric, useTwin, full bool) bool {
	if coveredBy(canon[j], canon[i], candidates[j].Outputs, candidates[i].Outputs, n, symmetric, full) {
		return true
	}
	if useTwin && coveredBy(twin[j], canon[i], bitword.ReflectInvertSet(candidates[j].Outputs, n), candidates[i].Outputs, n, symmetric, full) {
		return true
	}
	return false
}

// coveredBy reports whether candidate j's set (canonJ, or its reflect
// twin) is covered by σ(candidate i's set), first via the cheap
// column-weight-precheck + sorted-includes on canonical forms, and, when
// full is true, via the full backtracker on the raw sets. In symmetric mode
// the sorted-includes shortcut is skipped, since the canonical forms come
// from permutations that need not commute with reflection.
func coveredBy(canonJ, canonI, rawJ, rawI bitword.Set, n int, symmetric, full bool) bool {
	if !NecessaryFilter(canonJ, canonI, n) {
		return false
	}
	if !symmetric && includesSorted(canonI, canonJ) {
		return true
	}
	if !full {
		return false
	}
	j := rawJ
	if j == nil {
		j = canonJ
	}
	i := rawI
	if i == nil {
		i = canonI
	}
	return Embeds(j, i, n, symmetric)
}

// includesSorted reports whether sorted set small (as a plain set, not
// multiset) is a subset of sorted set large.
func includesSorted(large, small bitword.Set) bool {
	li := 0
	for _, v := range small {
		for li < len(large) && large[li] < v {
			li++
		}
		if li >= len(large) || large[li] != v {
			return false
		}
	}
	return true
}
