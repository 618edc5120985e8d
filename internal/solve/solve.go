// Package solve runs a CNF formula through an in-process SAT solver
// (gini) instead of shelling out to an external binary (spec.md §4.14):
// given a DIMACS file, it returns the same SAT/model verdict an external
// solver's stdout would encode, as a cnf.SolverResult.
package solve

import (
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"

	"github.com/wcgbg/sortnetsearch/internal/cnf"
)

// File reads the DIMACS CNF at path (transparently gzip-decompressed if
// path ends in ".gz", matching cnf.WriteDimacsFile's convention) and
// solves it with gini, returning the same SAT/UNSAT-plus-model shape
// that cnf.ParseSolverOutput produces for an external solver's output.
func File(path string) (cnf.SolverResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return cnf.SolverResult{}, errors.Wrap(err, "solve: opening CNF file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return cnf.SolverResult{}, errors.Wrap(err, "solve: opening gzip CNF file")
		}
		defer gr.Close()
		r = gr
	}
	return Reader(r)
}

// Reader solves the DIMACS CNF read from r.
func Reader(r io.Reader) (cnf.SolverResult, error) {
	g, err := gini.NewDimacs(r)
	if err != nil {
		return cnf.SolverResult{}, errors.Wrap(err, "solve: parsing DIMACS input")
	}
	return solve(g), nil
}

// Clauses solves the formula given directly as clauses, each an int per
// literal in the usual DIMACS sign convention (positive for the variable,
// negative for its negation), skipping the external-file round trip
// entirely. Useful for solving formulas produced in-process by
// internal/cnf without writing them to disk first.
func Clauses(nvars int, clauses [][]int) cnf.SolverResult {
	g := gini.NewV(nvars)
	for _, c := range clauses {
		for _, lit := range c {
			g.Add(z.Dimacs2Lit(lit))
		}
		g.Add(z.Dimacs2Lit(0))
	}
	return solve(g)
}

func solve(g *gini.Gini) cnf.SolverResult {
	switch g.Solve() {
	case 1:
		trueVars := map[int]bool{}
		maxVar := int(g.MaxVar())
		for v := 1; v <= maxVar; v++ {
			if g.Value(z.Dimacs2Lit(v)) {
				trueVars[v] = true
			}
		}
		return cnf.SolverResult{SAT: true, TrueVars: trueVars}
	case -1:
		return cnf.SolverResult{SAT: false}
	default:
		return cnf.SolverResult{SAT: false}
	}
}
