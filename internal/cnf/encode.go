package cnf

import (
	"fmt"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
)

// Options configures Encode: the number of new suffix layers to search
// for (D), whether the suffix must be reflection-symmetric, and an
// optional per-output subnet-channel limit (CSub < 0 means unlimited).
type Options struct {
	D         int
	Symmetric bool
	CSub      int
}

// Encoder builds the suffix-layer CNF of spec.md §4.8 incrementally.
type Encoder struct {
	n, d       int
	symmetric  bool
	cSub       int
	dict       *Dict
	clauses    []Clause
	trueVar    Lit
	falseVar   Lit
	invalidVar Lit
}

func newEncoder(n int, opts Options) *Encoder {
	e := &Encoder{n: n, d: opts.D, symmetric: opts.Symmetric, cSub: opts.CSub, dict: NewDict()}
	e.invalidVar = e.dict.Var("invalid")
	e.trueVar = e.dict.Var("true_")
	e.falseVar = e.dict.Var("false_")
	e.emit(Clause{e.trueVar}, Clause{e.falseVar.Neg()}, Clause{e.invalidVar.Neg()})
	return e
}

func (e *Encoder) emit(cs ...Clause) { e.clauses = append(e.clauses, cs...) }

func canonPair(i, j int) (int, int) {
	if i > j {
		return j, i
	}
	return i, j
}

func (e *Encoder) gVar(k, i, j int) Lit {
	i, j = canonPair(i, j)
	if e.symmetric {
		mi, mj := e.n-1-j, e.n-1-i
		if mi < i || (mi == i && mj < j) {
			i, j = mi, mj
		}
	}
	return e.dict.Var(fmt.Sprintf("g_%d_%d_%d", k, i, j))
}

func (e *Encoder) usedVar(k, i int) Lit {
	if e.symmetric {
		if mi := e.n - 1 - i; mi < i {
			i = mi
		}
	}
	return e.dict.Var(fmt.Sprintf("used_%d_%d", k, i))
}

func (e *Encoder) oneDownVar(k, i, j int) Lit {
	return e.dict.Var(fmt.Sprintf("one_down_%d_%d_%d", k, i, j))
}

func (e *Encoder) oneUpVar(k, i, j int) Lit {
	if e.symmetric {
		return e.oneDownVar(k, e.n-1-j, e.n-1-i)
	}
	return e.dict.Var(fmt.Sprintf("one_up_%d_%d_%d", k, i, j))
}

func (e *Encoder) vVar(m, k, i int) Lit {
	return e.dict.Var(fmt.Sprintf("v_%d_%d_%d", m, k, i))
}

// vLit returns the literal standing for wire i's value at layer k of
// output m's propagation, substituting the true_/false_ sentinel when i
// falls outside [begin, end) (spec.md §4.8: values outside the active
// window are pinned, not tracked by a fresh variable).
func (e *Encoder) vLit(m, k, i, begin, end int) Lit {
	if i < begin {
		return e.falseVar
	}
	if i >= end {
		return e.trueVar
	}
	return e.vVar(m, k, i)
}

// Encode builds the CNF whose models correspond to depth-opts.D sorting
// suffixes extending a prefix network with reachable-output set
// prefixOutputs on n wires (spec.md §4.8). It returns the variable
// dictionary (for round-tripping solver output back to comparators) and
// the clause list.
func Encode(n int, prefixOutputs bitword.Set, opts Options) (*Dict, []Clause) {
	e := newEncoder(n, opts)
	e.buildStructural()
	e.buildFunctional(prefixOutputs)
	return e.dict, e.clauses
}

func (e *Encoder) buildStructural() {
	e.structuralMatching()
	e.structuralUsedDef()
	e.structuralOneDownUpDef()
	e.structuralLastLayerShape()
	e.structuralSecondToLastShape()
	e.structuralLastTwoCoupling()
	e.structuralNoUnusedAdjacentPair()
	e.structuralSmallImprovementPruning()
}

// structuralMatching forbids wire i from being the endpoint of two
// comparators in the same layer (clause family 1).
func (e *Encoder) structuralMatching() {
	for k := 0; k < e.d; k++ {
		for i := 0; i < e.n; i++ {
			var partners []int
			for j := 0; j < e.n; j++ {
				if j != i {
					partners = append(partners, j)
				}
			}
			for a := 0; a < len(partners); a++ {
				for b := a + 1; b < len(partners); b++ {
					g0 := e.gVar(k, i, partners[a])
					g1 := e.gVar(k, i, partners[b])
					e.emit(Clause{g0.Neg(), g1.Neg()})
				}
			}
		}
	}
}

// structuralUsedDef defines used[k][i] as the disjunction of every
// comparator in layer k touching wire i (clause family 2).
func (e *Encoder) structuralUsedDef() {
	for k := 0; k < e.d; k++ {
		for i := 0; i < e.n; i++ {
			var disj []Lit
			for j := 0; j < e.n; j++ {
				if j != i {
					disj = append(disj, e.gVar(k, i, j))
				}
			}
			e.emit(Iff(e.usedVar(k, i), disj)...)
		}
	}
}

// structuralOneDownUpDef defines one_down[k][i][j] and, outside symmetric
// mode, one_up[k][i][j] (clause family 3). In symmetric mode one_up is a
// named alias of one_down, so no separate defining clauses are needed.
func (e *Encoder) structuralOneDownUpDef() {
	for k := 0; k < e.d; k++ {
		for i := 0; i < e.n; i++ {
			for j := i; j < e.n; j++ {
				var down []Lit
				for l := i + 1; l <= j; l++ {
					down = append(down, e.gVar(k, i, l))
				}
				e.emit(Iff(e.oneDownVar(k, i, j), down)...)

				if !e.symmetric {
					var up []Lit
					for l := i; l < j; l++ {
						up = append(up, e.gVar(k, l, j))
					}
					e.emit(Iff(e.oneUpVar(k, i, j), up)...)
				}
			}
		}
	}
}

// structuralLastLayerShape restricts the final suffix layer to adjacent
// comparators only (clause family 4).
func (e *Encoder) structuralLastLayerShape() {
	if e.d == 0 {
		return
	}
	k := e.d - 1
	for i := 0; i < e.n; i++ {
		for j := i + 2; j < e.n; j++ {
			e.emit(Clause{e.gVar(k, i, j).Neg()})
		}
	}
}

// structuralSecondToLastShape restricts the second-to-last suffix layer
// to comparators (i, j) with j-i <= 3, i.e. spanning at most 4 wires
// (clause family 5).
func (e *Encoder) structuralSecondToLastShape() {
	if e.d < 2 {
		return
	}
	k := e.d - 2
	for i := 0; i < e.n; i++ {
		for j := i + 4; j < e.n; j++ {
			e.emit(Clause{e.gVar(k, i, j).Neg()})
		}
	}
}

// structuralLastTwoCoupling forbids a wide second-to-last comparator
// unless the last layer finishes the job locally (clause family 6).
func (e *Encoder) structuralLastTwoCoupling() {
	if e.d < 2 {
		return
	}
	k2, k1 := e.d-2, e.d-1
	for i := 0; i+3 < e.n; i++ {
		wide := e.gVar(k2, i, i+3)
		e.emit(Implies(wide, e.gVar(k1, i, i+1)))
		e.emit(Implies(wide, e.gVar(k1, i+2, i+3)))

		mid := e.gVar(k2, i, i+2)
		e.emit(Clause{mid.Neg(), e.gVar(k1, i, i+1), e.gVar(k1, i+1, i+2)})
	}
}

// structuralNoUnusedAdjacentPair forbids two adjacent wires from both
// going untouched in the last layer (clause family 7).
func (e *Encoder) structuralNoUnusedAdjacentPair() {
	if e.d == 0 {
		return
	}
	k := e.d - 1
	for i := 0; i+1 < e.n; i++ {
		e.emit(Clause{e.usedVar(k, i), e.usedVar(k, i+1)})
	}
}

// structuralSmallImprovementPruning implements clause family 8: a
// last-layer comparator is only allowed if its neighborhood shows the
// extra layer was actually necessary. Per i, this emits two clauses —
// one anchored at comparator (i,i+1) checking the wire above it
// (used[k1][i+2]), and its mirror anchored at comparator (i+1,i+2)
// checking the wire below it (used[k1][i]) — matching the spec's "and
// the mirror for g[d-1][i+1][i+2]" literally, not merely the next
// iteration of this same loop (the i+1 iteration of the first clause
// alone would check used[k1][i+3], not used[k1][i]).
func (e *Encoder) structuralSmallImprovementPruning() {
	if e.d < 2 {
		return
	}
	k1, k2 := e.d-1, e.d-2
	for i := 0; i+2 < e.n; i++ {
		g1 := e.gVar(k1, i, i+1)
		e.emit(Clause{g1.Neg(), e.usedVar(k1, i+2), e.usedVar(k2, i), e.usedVar(k2, i+1)})

		g2 := e.gVar(k1, i+1, i+2)
		e.emit(Clause{g2.Neg(), e.usedVar(k1, i), e.usedVar(k2, i+1), e.usedVar(k2, i+2)})
	}
}

func (e *Encoder) buildFunctional(prefixOutputs bitword.Set) {
	for m, b := range prefixOutputs {
		begin, end := bitword.ActiveWindow(b, e.n)
		if e.cSub >= 0 && end-begin > e.cSub {
			continue
		}
		e.encodeOneOutput(m, b, begin, end)
	}
}

func (e *Encoder) encodeOneOutput(m int, b bitword.Word, begin, end int) {
	for i := begin; i < end; i++ {
		if bitword.Bit(b, i) == 1 {
			e.emit(Clause{e.vVar(m, 0, i)})
		} else {
			e.emit(Clause{e.vVar(m, 0, i).Neg()})
		}
	}

	for k := 0; k < e.d; k++ {
		for i := begin; i < end; i++ {
			e.emit(Clause{
				e.vLit(m, k, i, begin, end),
				e.oneUpVar(k, begin, i),
				e.vLit(m, k+1, i, begin, end).Neg(),
			})
			for j := begin; j < i; j++ {
				e.emit(GatedIffOr(e.gVar(k, j, i), e.vLit(m, k+1, i, begin, end),
					[]Lit{e.vLit(m, k, j, begin, end), e.vLit(m, k, i, begin, end)})...)
			}

			e.emit(Clause{
				e.vLit(m, k, i, begin, end).Neg(),
				e.oneDownVar(k, i, end-1),
				e.vLit(m, k+1, i, begin, end),
			})
			for j := i + 1; j < end; j++ {
				e.emit(GatedIffAnd(e.gVar(k, i, j), e.vLit(m, k+1, i, begin, end),
					[]Lit{e.vLit(m, k, i, begin, end), e.vLit(m, k, j, begin, end)})...)
			}
		}
	}

	// Sorted output is zeros-then-ones (SortedWord, IsSortingNetwork): wire i
	// must be 1 iff i is at or past the number of zeros, n-popcount(b).
	numZeros := e.n - bitword.PopCount(b, e.n)
	for i := begin; i < end; i++ {
		if i >= numZeros {
			e.emit(Clause{e.vVar(m, e.d, i)})
		} else {
			e.emit(Clause{e.vVar(m, e.d, i).Neg()})
		}
	}
}
