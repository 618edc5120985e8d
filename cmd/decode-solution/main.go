package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/cnf"
	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/decode"
	"github.com/wcgbg/sortnetsearch/internal/logging"
	"github.com/wcgbg/sortnetsearch/internal/network"
	"github.com/wcgbg/sortnetsearch/internal/solve"
)

type options struct {
	prefixInput string
	prefixIndex int
	format      string
	n           int

	permFile  string
	permIndex int

	cnfPath      string
	solutionPath string
	inProcess    bool

	symmetric bool
	simplify  bool

	output    string
	outFormat string

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "decode-solution",
		Short:        "Reconstructs a sorting network from a prefix and a solved suffix CNF",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.prefixInput == "" || o.cnfPath == "" || o.output == "" {
				return fmt.Errorf("--prefix-input, --cnf and --output are required")
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket prefix input")
			}
			if !o.inProcess && o.solutionPath == "" {
				return fmt.Errorf("--solution is required unless --in-process is set")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("decode-solution", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.prefixInput, "prefix-input", "", "path to the prefix network collection")
	cmd.Flags().IntVar(&o.prefixIndex, "prefix-index", 0, "index of the prefix within the collection to decode against")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "prefix container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket prefix input")
	cmd.Flags().StringVar(&o.permFile, "perms", "", "optional permutation file recorded by optimize-window for the prefix collection")
	cmd.Flags().IntVar(&o.permIndex, "perm-index", 0, "index of the permutation within --perms to invert")
	cmd.Flags().StringVar(&o.cnfPath, "cnf", "", "path to the DIMACS CNF that was solved (for its variable-name comments)")
	cmd.Flags().StringVar(&o.solutionPath, "solution", "", "path to the external solver's output file")
	cmd.Flags().BoolVar(&o.inProcess, "in-process", false, "solve --cnf in-process instead of reading --solution")
	cmd.Flags().BoolVar(&o.symmetric, "symmetric", false, "require the reconstructed network to be reflection-symmetric")
	cmd.Flags().BoolVar(&o.simplify, "simplify", false, "simplify the reconstructed network before writing it")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the reconstructed network to")
	cmd.Flags().StringVar(&o.outFormat, "out-format", string(container.FormatBracket), "output container format: binary or bracket")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	prefixes, err := container.ReadFile(o.prefixInput, container.Format(o.format), o.n, 1)
	if err != nil {
		return err
	}
	if o.prefixIndex < 0 || o.prefixIndex >= len(prefixes) {
		return fmt.Errorf("--prefix-index %d out of range for %d prefixes", o.prefixIndex, len(prefixes))
	}
	prefix := prefixes[o.prefixIndex]

	var perm []int
	if o.permFile != "" {
		perms, err := container.ReadPermutations(o.permFile)
		if err != nil {
			return err
		}
		if o.permIndex < 0 || o.permIndex >= len(perms) {
			return fmt.Errorf("--perm-index %d out of range for %d permutations", o.permIndex, len(perms))
		}
		perm = perms[o.permIndex]
	}

	varComments, err := cnf.ReadVarComments(o.cnfPath)
	if err != nil {
		return err
	}

	var result cnf.SolverResult
	if o.inProcess {
		result, err = solve.File(o.cnfPath)
	} else {
		f, ferr := os.Open(o.solutionPath)
		if ferr != nil {
			return ferr
		}
		defer f.Close()
		result, err = cnf.ParseSolverOutput(f)
	}
	if err != nil {
		return err
	}
	logger.Infof("solver result: sat=%t", result.SAT)

	net, ok, err := decode.Decode(prefix, perm, varComments, result, decode.Options{
		Symmetric: o.symmetric,
		Simplify:  o.simplify,
	})
	if err != nil {
		return err
	}
	if !ok {
		logger.Infof("solver reported UNSAT, nothing to decode")
		return nil
	}

	logger.Infof("decoded network: n=%d depth=%d size=%d", net.N, net.Depth(), net.Size())
	return container.WriteFile(o.output, container.Format(o.outFormat), []*network.Network{net})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
