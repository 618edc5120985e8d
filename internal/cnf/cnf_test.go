package cnf

import (
	"bytes"
	"testing"

	"github.com/FabianWe/dimacscnf"
	"github.com/stretchr/testify/require"

	"github.com/wcgbg/sortnetsearch/internal/bitword"
)

func TestFormulaNotDistributesOverSingleClause(t *testing.T) {
	f := Formula{{1, 2}}
	got := f.Not()
	require.Equal(t, Formula{{-1}, {-2}}, got)
}

func TestFormulaNotInvolution(t *testing.T) {
	f := Formula{{1, 2}, {-3}}
	got := f.Not().Not()
	// Not is only guaranteed well-behaved on small formulas; check it at
	// least agrees on satisfying assignments rather than literal clause
	// shape, since Not/Not may reorder/duplicate clauses.
	for _, assign := range [][3]bool{{true, false, true}, {false, false, false}, {true, true, true}} {
		require.Equal(t, evalFormula(f, assign), evalFormula(got, assign))
	}
}

func evalFormula(f Formula, assign [3]bool) bool {
	val := func(l Lit) bool {
		v := assign[l.Var()-1]
		if l < 0 {
			return !v
		}
		return v
	}
	for _, c := range f {
		ok := false
		for _, l := range c {
			if val(l) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestFormulaOrSingletonMerge(t *testing.T) {
	f := Formula{{1}}
	g := Formula{{2}, {3}}
	got := f.Or(g)
	require.Equal(t, Formula{{1, 2}, {1, 3}}, got)
}

func TestFormulaAndConcatenates(t *testing.T) {
	f := Formula{{1, 2}}
	g := Formula{{3}}
	got := f.And(g)
	require.Equal(t, Formula{{1, 2}, {3}}, got)
}

func TestDictIdempotent(t *testing.T) {
	d := NewDict()
	a := d.Var("g_0_1_2")
	b := d.Var("g_0_1_2")
	require.Equal(t, a, b)
	require.Equal(t, 1, d.Len())
	require.Equal(t, "g_0_1_2", d.Name(int(a)))
}

func TestGatedIffOrExpandsToThreeClauses(t *testing.T) {
	a, b, c, dd := Lit(1), Lit(2), Lit(3), Lit(4)
	got := GatedIffOr(a, b, []Lit{c, dd})
	require.Equal(t, []Clause{
		{-a, b, -c},
		{-a, b, -dd},
		{-a, -b, c, dd},
	}, got)
}

func TestWriteDimacsRoundTrip(t *testing.T) {
	dict := NewDict()
	x := dict.Var("x")
	y := dict.Var("y")
	clauses := []Clause{{x, y}, {x.Neg()}}

	var buf bytes.Buffer
	require.NoError(t, WriteDimacs(&buf, dict, clauses))

	parsed, _, nbvar, err := dimacscnf.ParseDimacs(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 2, nbvar)
	require.Len(t, parsed, 2)
}

func TestParseSolverOutputSAT(t *testing.T) {
	r := bytes.NewReader([]byte("SAT\n1 -2 3 0\n"))
	res, err := ParseSolverOutput(r)
	require.NoError(t, err)
	require.True(t, res.SAT)
	require.True(t, res.TrueVars[1])
	require.True(t, res.TrueVars[3])
	require.False(t, res.TrueVars[2])
}

func TestParseSolverOutputUNSAT(t *testing.T) {
	r := bytes.NewReader([]byte("UNSAT\n"))
	res, err := ParseSolverOutput(r)
	require.NoError(t, err)
	require.False(t, res.SAT)
}

func TestEncodeEmitsSentinelClauses(t *testing.T) {
	n := 4
	outputs := bitword.Set{0b0000, 0b1111}
	dict, clauses := Encode(n, outputs, Options{D: 1, CSub: -1})
	require.Equal(t, Clause{dict.Var("true_")}, clauses[0])
	require.Equal(t, Clause{dict.Var("false_").Neg()}, clauses[1])
	require.Equal(t, Clause{dict.Var("invalid").Neg()}, clauses[2])
}

func TestEncodeProducesNonEmptyFormula(t *testing.T) {
	n := 5
	outputs := bitword.Set{0b00000, 0b00001, 0b00011, 0b11111}
	dict, clauses := Encode(n, outputs, Options{D: 2, CSub: -1, Symmetric: true})
	require.Greater(t, dict.Len(), 3)
	require.NotEmpty(t, clauses)
}

func TestEncodeRoundTripsThroughDimacs(t *testing.T) {
	n := 4
	outputs := bitword.Set{0b0000, 0b1111}
	dict, clauses := Encode(n, outputs, Options{D: 1, CSub: -1})

	var buf bytes.Buffer
	require.NoError(t, WriteDimacs(&buf, dict, clauses))

	parsed, _, nbvar, err := dimacscnf.ParseDimacs(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, dict.Len(), nbvar)
	require.Len(t, parsed, len(clauses))
}
