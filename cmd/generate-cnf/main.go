package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/cnf"
	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/logging"
)

type options struct {
	input        string
	format       string
	n            int
	outputPattern string

	depth     int
	symmetric bool
	cSub      int

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "generate-cnf",
		Short:        "Encodes each prefix network's sorting-suffix search as a DIMACS CNF file",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" || o.outputPattern == "" {
				return fmt.Errorf("--input and --output-pattern are required")
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket input")
			}
			if o.depth <= 0 {
				return fmt.Errorf("--depth must be positive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("generate-cnf", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the prefix network collection")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket input")
	cmd.Flags().StringVar(&o.outputPattern, "output-pattern", "", `path pattern for the emitted CNF files, with a single "%d" for the prefix index (append .gz to compress)`)
	cmd.Flags().IntVar(&o.depth, "depth", 0, "number of suffix layers to search for")
	cmd.Flags().BoolVar(&o.symmetric, "symmetric", false, "require the suffix to be reflection-symmetric")
	cmd.Flags().IntVar(&o.cSub, "c-sub", -1, "per-output subnet-channel limit, negative for unlimited")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	prefixes, err := container.ReadFile(o.input, container.Format(o.format), o.n, 1)
	if err != nil {
		return err
	}
	logger.Infof("read %d prefixes from %s", len(prefixes), o.input)

	for i, prefix := range prefixes {
		dict, clauses := cnf.Encode(prefix.N, prefix.Outputs(), cnf.Options{
			D:         o.depth,
			Symmetric: o.symmetric,
			CSub:      o.cSub,
		})
		path := fmt.Sprintf(o.outputPattern, i)
		if err := cnf.WriteDimacsFile(path, dict, clauses); err != nil {
			return err
		}
		logger.Infof("prefix %d: %d vars, %d clauses -> %s", i, dict.Len(), len(clauses), path)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
