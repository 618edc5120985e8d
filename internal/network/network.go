// Package network implements the Network, Layer and Comparator types of
// spec.md §3/§4.4: a typed layered sorting-network structure with an
// optionally cached reachable-output set.
package network

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
	"github.com/wcgbg/sortnetsearch/internal/denseoutputs"
)

// Comparator is a comparator (i,j) with i<j.
type Comparator struct {
	I, J int
}

// Layer is a matching on {0,...,n-1}: Matching[i]=j iff (i,j), i<j, is a
// comparator in this layer, or -1 if wire i is unmatched.
type Layer struct {
	Matching []int
}

// NewLayer returns an empty layer (every wire unmatched) for n wires.
func NewLayer(n int) Layer {
	m := make([]int, n)
	for i := range m {
		m[i] = -1
	}
	return Layer{Matching: m}
}

// Comparators returns the (i,j), i<j, comparators present in the layer, in
// ascending order of i.
func (l Layer) Comparators() []Comparator {
	var out []Comparator
	for i, j := range l.Matching {
		if j > i {
			out = append(out, Comparator{i, j})
		}
	}
	return out
}

// add sets the match between i and j; both must currently be unmatched and
// i != j, per spec.md §4.4 precondition.
func (l Layer) add(i, j int) {
	if i == j {
		panic("network: self-comparator not allowed")
	}
	if l.Matching[i] != -1 || l.Matching[j] != -1 {
		panic("network: matching collision in AddComparator")
	}
	l.Matching[i] = j
	l.Matching[j] = i
}

// Network is a layered sequence of comparators on n wires, with an
// optional cached reachable-output set.
type Network struct {
	N      int
	Layers []Layer

	outputs      bitword.Set
	outputsValid bool
}

// New returns an empty network (no layers) on n wires.
func New(n int) *Network {
	return &Network{N: n}
}

// AddEmptyLayer appends an empty layer. Outputs, if cached, are unchanged.
func (net *Network) AddEmptyLayer() {
	net.Layers = append(net.Layers, NewLayer(net.N))
}

// AddComparator adds comparator (i,j), i<j, to the last layer and updates
// the cached output set (if any) via ApplyComparator.
func (net *Network) AddComparator(i, j int) {
	if len(net.Layers) == 0 {
		panic("network: AddComparator with no layers")
	}
	if i >= j {
		panic("network: AddComparator requires i < j")
	}
	net.Layers[len(net.Layers)-1].add(i, j)
	if net.outputsValid {
		net.outputs = bitword.ApplyComparator(net.outputs, i, j)
	}
}

// SetOutputs installs a precomputed output set, marking it valid. Callers
// recomputing from the universe typically build via denseoutputs and call
// this once.
func (net *Network) SetOutputs(s bitword.Set) {
	net.outputs = s
	net.outputsValid = true
}

// ClearOutputs invalidates the cached output set.
func (net *Network) ClearOutputs() {
	net.outputs = nil
	net.outputsValid = false
}

// OutputsValid reports whether a cached output set is present.
func (net *Network) OutputsValid() bool { return net.outputsValid }

// Outputs returns the cached output set. Panics if none is cached; callers
// needing a guaranteed-fresh set should call Recompute first.
func (net *Network) Outputs() bitword.Set {
	if !net.outputsValid {
		panic("network: Outputs called with no cached output set")
	}
	return net.outputs
}

// Recompute rebuilds the output set from scratch via denseoutputs, applying
// every comparator of every layer to the universe, and caches the result.
func (net *Network) Recompute() {
	d := denseoutputs.New(net.N)
	for _, l := range net.Layers {
		for _, c := range l.Comparators() {
			d.AddComparator(c.I, c.J)
		}
	}
	net.SetOutputs(d.ToSparse())
}

// Size returns the total number of comparators across all layers.
func (net *Network) Size() int {
	n := 0
	for _, l := range net.Layers {
		n += len(l.Comparators())
	}
	return n
}

// Depth returns the number of layers.
func (net *Network) Depth() int { return len(net.Layers) }

// IsSymmetric reports whether every layer is invariant under i -> n-1-i,
// i.e. Matching[n-1-i] == n-1-Matching[i] (with -1 fixed).
func (net *Network) IsSymmetric() bool {
	n := net.N
	for _, l := range net.Layers {
		for i := 0; i < n; i++ {
			mi := l.Matching[i]
			mr := l.Matching[n-1-i]
			if mi == -1 {
				if mr != -1 {
					return false
				}
				continue
			}
			if mr != n-1-mi {
				return false
			}
		}
	}
	return true
}

// IsSortingNetwork reports whether the cached outputs are exactly the n+1
// sorted binary vectors. Recomputes if no cache is present.
func (net *Network) IsSortingNetwork() bool {
	if !net.outputsValid {
		net.Recompute()
	}
	if len(net.outputs) != net.N+1 {
		return false
	}
	for k := 0; k <= net.N; k++ {
		if net.outputs[k] != bitword.SortedWord(net.N, k) {
			return false
		}
	}
	return true
}

// PermuteChannels rewrites every layer's comparators under permutation π,
// canonicalizing so the smaller index comes first in Matching, and swaps
// π's image for the two wires touched by each comparator (the comparator
// reorders the wires it touches, so the identity of "wire π(i)" and "wire
// π(j)" is swapped for subsequent layers, per spec.md §4.4).
func (net *Network) PermuteChannels(perm []int) *Network {
	if len(perm) != net.N {
		panic("network: PermuteChannels perm length mismatch")
	}
	out := New(net.N)
	cur := append([]int(nil), perm...)
	for _, l := range net.Layers {
		nl := NewLayer(net.N)
		for _, c := range l.Comparators() {
			pi, pj := cur[c.I], cur[c.J]
			if pi > pj {
				pi, pj = pj, pi
			}
			nl.add(pi, pj)
			cur[c.I], cur[c.J] = cur[c.J], cur[c.I]
		}
		out.Layers = append(out.Layers, nl)
	}
	out.Recompute()
	return out
}

// String renders the network using bracket-per-layer notation, e.g.
// "[(0,2),(1,3)],[(0,1),(2,3)],[(1,2)]".
func (net *Network) String() string {
	parts := make([]string, len(net.Layers))
	for i, l := range net.Layers {
		parts[i] = layerString(l)
	}
	return strings.Join(parts, ",")
}

func layerString(l Layer) string {
	cs := l.Comparators()
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("(%d,%d)", c.I, c.J)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// ParseBracket parses one bracket-text line (no leading "#", already
// trimmed) into layers on n wires, validating each pair against n and
// against collisions within its own layer (spec.md §6).
func ParseBracket(n int, line string) (*Network, error) {
	net := New(n)
	line = strings.TrimSpace(line)
	if line == "" {
		return net, nil
	}
	layers := splitLayers(line)
	for _, layerSrc := range layers {
		net.AddEmptyLayer()
		pairs, err := parsePairs(layerSrc)
		if err != nil {
			return nil, errors.Wrap(err, "network: parsing bracket layer")
		}
		for _, p := range pairs {
			i, j := p[0], p[1]
			if i < 0 || j >= n || i >= j {
				return nil, errors.Errorf("network: comparator (%d,%d) invalid for n=%d", i, j, n)
			}
			last := &net.Layers[len(net.Layers)-1]
			if last.Matching[i] != -1 || last.Matching[j] != -1 {
				return nil, errors.Errorf("network: wire collision adding (%d,%d)", i, j)
			}
			last.add(i, j)
		}
	}
	return net, nil
}

// splitLayers splits "[...],[...],[...]" into its bracketed segments.
func splitLayers(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '[':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ']':
			depth--
			if depth == 0 {
				out = append(out, s[start:i])
			}
		}
	}
	return out
}

// parsePairs parses "(i,j),(k,l)" into [][2]int.
func parsePairs(s string) ([][2]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out [][2]int
	for _, tok := range strings.Split(s, ")") {
		tok = strings.TrimSpace(tok)
		tok = strings.TrimPrefix(tok, ",")
		tok = strings.TrimSpace(tok)
		tok = strings.TrimPrefix(tok, "(")
		if tok == "" {
			continue
		}
		var i, j int
		if _, err := fmt.Sscanf(tok, "%d,%d", &i, &j); err != nil {
			return nil, errors.Wrapf(err, "network: parsing pair %q", tok)
		}
		out = append(out, [2]int{i, j})
	}
	return out, nil
}
