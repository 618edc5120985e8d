package cnf

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// WriteDimacs writes the DIMACS CNF representation of clauses over dict's
// variables: one "c var k : name" comment per declared variable in
// declaration order, the "p cnf nvars nclauses" header, then one
// 0-terminated clause per line (spec.md §6).
func WriteDimacs(w io.Writer, dict *Dict, clauses []Clause) error {
	bw := bufio.NewWriter(w)
	for i, name := range dict.Names() {
		if _, err := bw.WriteString("c var " + strconv.Itoa(i+1) + " : " + name + "\n"); err != nil {
			return errors.Wrap(err, "cnf: writing var comment")
		}
	}
	if _, err := bw.WriteString("p cnf " + strconv.Itoa(dict.Len()) + " " + strconv.Itoa(len(clauses)) + "\n"); err != nil {
		return errors.Wrap(err, "cnf: writing header")
	}
	for _, c := range clauses {
		var sb strings.Builder
		for _, l := range c {
			sb.WriteString(litString(l))
			sb.WriteByte(' ')
		}
		sb.WriteString("0\n")
		if _, err := bw.WriteString(sb.String()); err != nil {
			return errors.Wrap(err, "cnf: writing clause")
		}
	}
	return bw.Flush()
}

// WriteDimacsFile writes the CNF to path, gzip-compressing (via pgzip, for
// parallel compression of large formulas) when path ends in ".gz".
func WriteDimacsFile(path string, dict *Dict, clauses []Clause) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cnf: creating output file")
	}
	defer f.Close()

	if strings.HasSuffix(path, ".gz") {
		gw := pgzip.NewWriter(f)
		if err := WriteDimacs(gw, dict, clauses); err != nil {
			return err
		}
		return gw.Close()
	}
	return WriteDimacs(f, dict, clauses)
}

// VarComment is one parsed "c var k : name" preamble line.
type VarComment struct {
	Index int
	Name  string
}

// ReadVarComments reads a DIMACS file's preamble, returning the declared
// variables in order, stopping at the "p cnf" header line. Detects gzip
// compression by path suffix.
func ReadVarComments(path string) ([]VarComment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cnf: opening CNF file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "cnf: opening gzip CNF file")
		}
		defer gr.Close()
		r = gr
	}

	var out []VarComment
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "p cnf") {
			break
		}
		if !strings.HasPrefix(line, "c var ") {
			continue
		}
		rest := strings.TrimPrefix(line, "c var ")
		parts := strings.SplitN(rest, " : ", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("cnf: malformed var comment %q", line)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, errors.Wrapf(err, "cnf: malformed var index in %q", line)
		}
		out = append(out, VarComment{Index: idx, Name: strings.TrimSpace(parts[1])})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cnf: scanning CNF file")
	}
	return out, nil
}

// SolverResult is the parsed outcome of a SAT solver run (spec.md §6): the
// satisfiability verdict and, if SAT, the set of variables assigned true
// (variables absent from the assignment are false).
type SolverResult struct {
	SAT      bool
	TrueVars map[int]bool
}

// ParseSolverOutput parses the solver-output contract of spec.md §6: the
// first non-empty line is the literal "SAT" or "UNSAT"; if SAT, the
// remaining whitespace-separated signed integers give the assignment.
func ParseSolverOutput(r io.Reader) (SolverResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var verdict string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		verdict = line
		break
	}
	if verdict != "SAT" && verdict != "UNSAT" {
		return SolverResult{}, errors.Errorf("cnf: expected SAT/UNSAT, got %q", verdict)
	}
	if verdict == "UNSAT" {
		return SolverResult{SAT: false}, nil
	}

	trueVars := map[int]bool{}
	for scanner.Scan() {
		for _, tok := range strings.Fields(scanner.Text()) {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return SolverResult{}, errors.Wrapf(err, "cnf: malformed assignment token %q", tok)
			}
			if v == 0 {
				continue
			}
			if v > 0 {
				trueVars[v] = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return SolverResult{}, errors.Wrap(err, "cnf: scanning solver output")
	}
	return SolverResult{SAT: true, TrueVars: trueVars}, nil
}

// WriteSolverOutput writes result in the same "SAT/UNSAT, then signed
// ints" text contract ParseSolverOutput reads, so an in-process solve
// (internal/solve) can stand in for an external solver binary's stdout.
func WriteSolverOutput(w io.Writer, result SolverResult) error {
	bw := bufio.NewWriter(w)
	if !result.SAT {
		if _, err := bw.WriteString("UNSAT\n"); err != nil {
			return errors.Wrap(err, "cnf: writing UNSAT verdict")
		}
		return bw.Flush()
	}
	if _, err := bw.WriteString("SAT\n"); err != nil {
		return errors.Wrap(err, "cnf: writing SAT verdict")
	}
	vars := make([]int, 0, len(result.TrueVars))
	for v := range result.TrueVars {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	for _, v := range vars {
		if _, err := bw.WriteString(strconv.Itoa(v) + " "); err != nil {
			return errors.Wrap(err, "cnf: writing assignment")
		}
	}
	if _, err := bw.WriteString("0\n"); err != nil {
		return errors.Wrap(err, "cnf: writing assignment terminator")
	}
	return bw.Flush()
}
