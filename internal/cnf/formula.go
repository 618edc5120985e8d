// Package cnf implements the CNF/DIMACS encoder of spec.md §4.8: a small
// Lit/Clause/Formula algebra, a named-variable dictionary for round-tripping
// solver output, and the suffix-layer sorting-constraint encoder itself.
package cnf

import "fmt"

// Lit is a DIMACS literal: a positive integer names a variable, its
// negation the variable's complement. Variable numbering starts at 1.
type Lit int

// Neg returns the complementary literal.
func (l Lit) Neg() Lit { return -l }

// Var returns the variable number (always positive) this literal names.
func (l Lit) Var() int {
	if l < 0 {
		return int(-l)
	}
	return int(l)
}

// Clause is a disjunction of literals.
type Clause []Lit

// Formula is a conjunction of clauses. The empty Formula is true; a
// Formula containing a single empty Clause is false (spec.md §4.8: "Empty
// list = true; singleton empty clause = false").
type Formula []Clause

// FTrue returns the formula "true".
func FTrue() Formula { return Formula{} }

// FFalse returns the formula "false".
func FFalse() Formula { return Formula{{}} }

// Unit returns the formula containing the single clause {l}.
func Unit(l Lit) Formula { return Formula{{l}} }

// IsTrue reports whether f is the empty conjunction.
func (f Formula) IsTrue() bool { return len(f) == 0 }

// IsFalse reports whether f is a single empty clause.
func (f Formula) IsFalse() bool { return len(f) == 1 && len(f[0]) == 0 }

// And concatenates the two formulas' clause lists.
func (f Formula) And(g Formula) Formula {
	out := make(Formula, 0, len(f)+len(g))
	out = append(out, f...)
	out = append(out, g...)
	return out
}

// Or implements spec.md §4.8's disjunction: if either side has exactly one
// clause, merge its literals into every clause of the other side;
// otherwise take the Cartesian product, (A ∨ B) = ∧_{C∈A} ∧_{D∈B} (C ∨ D).
// This is only used on small formulas (biconditional expansions), per the
// spec's stated caveat.
func (f Formula) Or(g Formula) Formula {
	if f.IsTrue() || g.IsTrue() {
		return FTrue()
	}
	if len(f) == 1 {
		return mergeOneInto(f[0], g)
	}
	if len(g) == 1 {
		return mergeOneInto(g[0], f)
	}
	out := make(Formula, 0, len(f)*len(g))
	for _, c1 := range f {
		for _, c2 := range g {
			out = append(out, concatClauses(c1, c2))
		}
	}
	return out
}

func mergeOneInto(single Clause, rest Formula) Formula {
	if rest.IsTrue() {
		return Formula{single}
	}
	out := make(Formula, 0, len(rest))
	for _, c := range rest {
		out = append(out, concatClauses(single, c))
	}
	return out
}

func concatClauses(a, b Clause) Clause {
	out := make(Clause, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Not negates f. A single-clause formula distributes into a conjunction of
// negated literals; a multi-clause formula recurses via De Morgan. Per
// spec.md §4.8 this recursion is only used on small formulas.
func (f Formula) Not() Formula {
	if f.IsTrue() {
		return FFalse()
	}
	if len(f) == 1 {
		out := make(Formula, 0, len(f[0]))
		for _, l := range f[0] {
			out = append(out, Clause{l.Neg()})
		}
		if len(out) == 0 {
			return FTrue()
		}
		return out
	}
	result := Formula{f[0]}.Not()
	for _, c := range f[1:] {
		result = result.Or(Formula{c}.Not())
	}
	return result
}

// Dict assigns each distinct name a Lit, in first-seen order, so variables
// can be declared once and referred to idempotently from many call sites
// (spec.md §4.8: aliasing in symmetric mode relies on this — two call sites
// that compute the same canonical name get the same variable).
type Dict struct {
	names []string
	index map[string]Lit
}

// NewDict returns an empty dictionary.
func NewDict() *Dict {
	return &Dict{index: make(map[string]Lit)}
}

// Var returns the Lit for name, creating it (with the next variable number)
// on first use.
func (d *Dict) Var(name string) Lit {
	if l, ok := d.index[name]; ok {
		return l
	}
	d.names = append(d.names, name)
	l := Lit(len(d.names))
	d.index[name] = l
	return l
}

// Name returns the declared name of variable v (1-based), or "" if v was
// never declared through this dictionary.
func (d *Dict) Name(v int) string {
	if v < 1 || v > len(d.names) {
		return ""
	}
	return d.names[v-1]
}

// Len returns the number of distinct variables declared so far.
func (d *Dict) Len() int { return len(d.names) }

// Names returns every declared name, in declaration order.
func (d *Dict) Names() []string {
	return append([]string(nil), d.names...)
}

// Implies returns the clause (¬a ∨ b), i.e. a ⇒ b.
func Implies(a, b Lit) Clause { return Clause{a.Neg(), b} }

// Iff returns the clauses encoding b ↔ (d₁ ∨ … ∨ dₖ): one clause for the
// forward direction and one per dᵢ for the backward direction.
func Iff(b Lit, disj []Lit) []Clause {
	fwd := make(Clause, 0, len(disj)+1)
	fwd = append(fwd, b.Neg())
	for _, d := range disj {
		fwd = append(fwd, d)
	}
	out := []Clause{fwd}
	for _, d := range disj {
		out = append(out, Clause{d.Neg(), b})
	}
	return out
}

// GatedIffOr returns the clauses encoding a ⇒ (b ↔ (d₁ ∨ … ∨ dₖ)), the
// biconditional-expansion pattern of spec.md §4.8 ("a ⇒ (b ↔ (c ∨ d))
// expands into {¬a∨b∨¬c, ¬a∨b∨¬d, ¬a∨¬b∨c∨d}").
func GatedIffOr(a, b Lit, disj []Lit) []Clause {
	out := make([]Clause, 0, len(disj)+1)
	for _, d := range disj {
		out = append(out, Clause{a.Neg(), b, d.Neg()})
	}
	last := make(Clause, 0, len(disj)+2)
	last = append(last, a.Neg(), b.Neg())
	last = append(last, disj...)
	out = append(out, last)
	return out
}

// GatedIffAnd returns the clauses encoding a ⇒ (b ↔ (c₁ ∧ … ∧ cₖ)), the
// conjunctive variant of GatedIffOr.
func GatedIffAnd(a, b Lit, conj []Lit) []Clause {
	out := make([]Clause, 0, len(conj)+1)
	for _, c := range conj {
		out = append(out, Clause{a.Neg(), b.Neg(), c})
	}
	last := make(Clause, 0, len(conj)+2)
	last = append(last, a.Neg(), b)
	for _, c := range conj {
		last = append(last, c.Neg())
	}
	out = append(out, last)
	return out
}

func litString(l Lit) string {
	return fmt.Sprintf("%d", int(l))
}
