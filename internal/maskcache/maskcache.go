// Package maskcache implements the process-wide, read-only MaskCache of
// spec.md §4.3 data-model row: precomputed bitmasks of size 2^n indexed by
// n, built once per n and shared thereafter.
package maskcache

import "sync"

// Bitset is a bitset of length 2^n, stored as consecutive 64-bit words.
type Bitset []uint64

// Test reports whether bit x is set.
func (b Bitset) Test(x int) bool {
	return b[x/64]&(uint64(1)<<uint(x%64)) != 0
}

func newBitset(size int) Bitset {
	return make(Bitset, (size+63)/64)
}

func (b Bitset) set(x int) {
	b[x/64] |= uint64(1) << uint(x%64)
}

func and(a, b Bitset) Bitset {
	out := make(Bitset, len(a))
	for i := range a {
		out[i] = a[i] & b[i]
	}
	return out
}

// Cache holds the masks for one value of n. All fields are read-only once
// returned by Get; a Cache is shared across every caller for that n.
type Cache struct {
	N int
	// Zero[i] is the set of indices x in [0, 2^n) with bit i of x equal to 0.
	Zero []Bitset
	// One[i] is the complement of Zero[i] (bit i of x equal to 1).
	One []Bitset
	// OneZero[i][j], for i<j, is the set {x : bit_i(x)=1, bit_j(x)=0}.
	OneZero [][]Bitset
	// ByPop[w] is the set of indices with exactly w bits set, 0<=w<=n.
	ByPop []Bitset
}

var (
	mu  sync.Mutex
	byN = map[int]*Cache{}
)

// Get returns the Cache for n, building and storing it on first demand.
// The single mutex is held across build() too, so a concurrent call for
// a different, not-yet-cached n blocks until the build in progress
// finishes; only already-cached n values return without waiting.
func Get(n int) *Cache {
	mu.Lock()
	defer mu.Unlock()
	if c, ok := byN[n]; ok {
		return c
	}
	c := build(n)
	byN[n] = c
	return c
}

func build(n int) *Cache {
	size := 1 << uint(n)

	zero := make([]Bitset, n)
	one := make([]Bitset, n)
	for i := 0; i < n; i++ {
		zero[i] = newBitset(size)
		one[i] = newBitset(size)
	}
	byPop := make([]Bitset, n+1)
	for w := 0; w <= n; w++ {
		byPop[w] = newBitset(size)
	}

	for x := 0; x < size; x++ {
		pop := 0
		for i := 0; i < n; i++ {
			if x&(1<<uint(i)) != 0 {
				one[i].set(x)
				pop++
			} else {
				zero[i].set(x)
			}
		}
		byPop[pop].set(x)
	}

	oneZero := make([][]Bitset, n)
	for i := 0; i < n; i++ {
		oneZero[i] = make([]Bitset, n)
		for j := i + 1; j < n; j++ {
			oneZero[i][j] = and(one[i], zero[j])
		}
	}

	return &Cache{
		N:       n,
		Zero:    zero,
		One:     one,
		OneZero: oneZero,
		ByPop:   byPop,
	}
}
