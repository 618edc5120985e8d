package isomorphism

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
)

func randomSet(rng *rand.Rand, n, count int) bitword.Set {
	seen := map[bitword.Word]struct{}{}
	var s bitword.Set
	for len(s) < count {
		x := bitword.Word(rng.Intn(1 << uint(n)))
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		s = append(s, x)
	}
	return bitword.Dedup(s)
}

func TestNecessaryFilterNeverRejectsAccepted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 4
	for trial := 0; trial < 200; trial++ {
		a := randomSet(rng, n, 1+rng.Intn(4))
		b := randomSet(rng, n, 1+rng.Intn(6))
		if BruteForceEmbeds(a, b, n, false) {
			require.True(t, NecessaryFilter(a, b, n), "filter rejected an accepted pair a=%v b=%v", a, b)
		}
	}
}

func TestBacktrackerAgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	n := 4
	for trial := 0; trial < 200; trial++ {
		a := randomSet(rng, n, 1+rng.Intn(4))
		b := randomSet(rng, n, 1+rng.Intn(6))
		want := BruteForceEmbeds(a, b, n, false)
		got := Embeds(a, b, n, false)
		require.Equal(t, want, got, "a=%v b=%v", a, b)
	}
}

func TestBacktrackerAgreesWithBruteForceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 4
	for trial := 0; trial < 200; trial++ {
		a := randomSet(rng, n, 1+rng.Intn(4))
		b := randomSet(rng, n, 1+rng.Intn(6))
		want := BruteForceEmbeds(a, b, n, true)
		got := Embeds(a, b, n, true)
		require.Equal(t, want, got, "a=%v b=%v", a, b)
	}
}

func TestSortByWeightScenario(t *testing.T) {
	n := 4
	s := bitword.Set{0b0100, 0b0101, 0b1101}
	got, perm := CanonicalByColumnWeight(s, n, nil)
	want := bitword.Set{0b1000, 0b1100, 0b1110}
	require.Equal(t, want, got)
	require.Equal(t, []int{2, 0, 3, 1}, perm)
}

func TestFindRedundantClosure(t *testing.T) {
	n := 4
	sets := []bitword.Set{
		{0, 0b1111},
		{0, 0b1000, 0b1111},
		{0, 0b0001, 0b1111},
	}
	cands := make([]Candidate, len(sets))
	for i, s := range sets {
		cands[i] = Candidate{Outputs: s, Index: i}
	}
	redundant := FindRedundant(cands, n, false, false, 42, 2)
	// Every survivor must not be coverable by an earlier/smaller survivor.
	var survivors []Candidate
	for _, c := range cands {
		if !redundant[c.Index] {
			survivors = append(survivors, c)
		}
	}
	for i := range survivors {
		for j := range survivors {
			if i == j {
				continue
			}
			small, large := survivors[i], survivors[j]
			if len(small.Outputs) > len(large.Outputs) || (len(small.Outputs) == len(large.Outputs) && small.Index >= large.Index) {
				continue
			}
			require.False(t, Embeds(small.Outputs, large.Outputs, n, false),
				"survivors %v and %v should not embed into each other", small.Index, large.Index)
		}
	}
}
