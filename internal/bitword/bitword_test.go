package bitword

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyComparatorSortedDedup(t *testing.T) {
	s := Set{0b0100, 0b0110, 0b0001}
	out := ApplyComparator(s, 1, 2)
	require.True(t, out.Sorted())
	for _, x := range out {
		found := false
		for _, orig := range s {
			if x == orig || (Bit(orig, 1) == 1 && Bit(orig, 2) == 0 && x == swap(orig, 1, 2)) {
				found = true
			}
		}
		require.True(t, found, "unexpected element %b", x)
	}
}

func TestReflectInvertInvolution(t *testing.T) {
	n := 3
	for x := Word(0); x < Word(1)<<uint(n); x++ {
		require.Equal(t, x, ReflectInvert(ReflectInvert(x, n), n))
	}
}

func TestReflectInvertScenario(t *testing.T) {
	n := 3
	x := Word(0b011)
	got := ReflectInvert(x, n)
	require.Equal(t, Word(0b001), got)
	require.Equal(t, x, ReflectInvert(got, n))
}

func TestPermuteChannelsInverse(t *testing.T) {
	perm := []int{2, 0, 3, 1}
	inv := InversePermutation(perm)
	s := Set{0b0001, 0b1010, 0b0111}
	for i := range s {
		s[i] = s[i] & 0b1111
	}
	s = Dedup(s)
	got := PermuteChannels(PermuteChannels(s, perm), inv)
	require.Equal(t, Dedup(append(Set{}, s...)), got)
}

func TestWindowStatsScenario(t *testing.T) {
	n := 3
	s := Set{0b010, 0b001}
	sum, sumSq, max := WindowStats(s, n)
	require.Equal(t, 5, sum)
	require.Equal(t, 13, sumSq)
	require.Equal(t, 3, max)
}

func TestHasInverse(t *testing.T) {
	s := Set{0b10, 0b01}
	require.True(t, HasInverse(s, 0, 1))
	require.False(t, HasInverse(Set{0b00, 0b11}, 0, 1))
}

func TestActiveWindowStripsLeadingZerosAndTrailingOnes(t *testing.T) {
	n := 5
	// bits low-to-high: 0,1,0,1,1 -> wire0=0,wire1=1,wire2=0,wire3=1,wire4=1
	x := Word(0b11010)
	begin, end := ActiveWindow(x, n)
	require.Equal(t, 1, begin)
	require.Equal(t, 3, end)
}

func TestActiveWindowAllZerosOrOnes(t *testing.T) {
	n := 4
	begin, end := ActiveWindow(Word(0b0000), n)
	require.Equal(t, n, begin)
	require.Equal(t, n, end)
	begin, end = ActiveWindow(Word(0b1111), n)
	require.Equal(t, 0, begin)
	require.Equal(t, 0, end)
}

func TestSortedWord(t *testing.T) {
	n := 4
	for k := 0; k <= n; k++ {
		w := SortedWord(n, k)
		require.Equal(t, k, PopCount(w, n))
	}
}
