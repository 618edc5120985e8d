// Package denseoutputs implements DenseOutputs (spec.md §4.2): a bitset of
// length 2^n representing a subset of {0,1}^n, seeded to "all vectors",
// with an efficient in-place comparator step. This representation trades
// O(2^n) space for branch-free steps and is the one used to compute
// outputs starting from the universe.
package denseoutputs

import (
	"math/bits"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/maskcache"
)

// Dense is a bitset of length 2^n over words of 64 bits.
type Dense struct {
	n    int
	bits []uint64
}

// New returns a Dense seeded with every index in [0, 2^n) set (the
// universe {0,1}^n).
func New(n int) *Dense {
	size := 1 << uint(n)
	words := (size + 63) / 64
	b := make([]uint64, words)
	for i := range b {
		b[i] = ^uint64(0)
	}
	// Clear any bits beyond 2^n-1 in the final word.
	if rem := size % 64; rem != 0 {
		b[words-1] &= (uint64(1) << uint(rem)) - 1
	}
	return &Dense{n: n, bits: b}
}

// N returns the wire count this Dense was built for.
func (d *Dense) N() int { return d.n }

// AddComparator applies comparator (i,j), i<j, in place: every bad index x
// (bit_i(x)=1, bit_j(x)=0) moves to x - 2^i + 2^j.
func (d *Dense) AddComparator(i, j int) {
	if i >= j {
		panic("denseoutputs: AddComparator requires i < j")
	}
	cache := maskcache.Get(d.n)
	oneZero := cache.OneZero[i][j]

	delta := (1 << uint(j)) - (1 << uint(i))

	bad := make([]uint64, len(d.bits))
	for w := range d.bits {
		bad[w] = d.bits[w] & oneZero[w]
	}

	// bits &= ^bad
	for w := range d.bits {
		d.bits[w] &^= bad[w]
	}

	// OR in bad shifted left by delta bits, across word boundaries.
	shiftOrInto(d.bits, bad, delta)
}

// shiftOrInto ORs (src << delta) into dst, treating both as one long bit
// string of len(dst)*64 bits.
func shiftOrInto(dst, src []uint64, delta int) {
	wordShift := delta / 64
	bitShift := uint(delta % 64)
	for w := len(src) - 1; w >= 0; w-- {
		if src[w] == 0 {
			continue
		}
		dstIdx := w + wordShift
		if dstIdx < 0 || dstIdx >= len(dst) {
			continue
		}
		if bitShift == 0 {
			dst[dstIdx] |= src[w]
			continue
		}
		dst[dstIdx] |= src[w] << bitShift
		if dstIdx+1 < len(dst) {
			dst[dstIdx+1] |= src[w] >> (64 - bitShift)
		}
	}
}

// ToSparse enumerates set bits into a sorted bitword.Set.
func (d *Dense) ToSparse() bitword.Set {
	var out bitword.Set
	for w, word := range d.bits {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			x := w*64 + b
			out = append(out, bitword.Word(x))
			word &^= uint64(1) << uint(b)
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Dense) Clone() *Dense {
	b := make([]uint64, len(d.bits))
	copy(b, d.bits)
	return &Dense{n: d.n, bits: b}
}
