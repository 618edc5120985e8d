package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/logging"
	"github.com/wcgbg/sortnetsearch/internal/network"
	"github.com/wcgbg/sortnetsearch/internal/windowopt"
)

type options struct {
	input        string
	outputNets   string
	outputPerms  string
	format       string
	n            int

	symmetric bool
	seed      int64

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "optimize-window",
		Short:        "Greedily permutes each network's wires to minimize its outputs' window sizes",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" || o.outputNets == "" || o.outputPerms == "" {
				return fmt.Errorf("--input, --output-networks and --output-perms are required")
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket input")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("optimize-window", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the input network collection")
	cmd.Flags().StringVar(&o.outputNets, "output-networks", "", "path to write the permuted collection to")
	cmd.Flags().StringVar(&o.outputPerms, "output-perms", "", "path to write the permutation file to")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket input")
	cmd.Flags().BoolVar(&o.symmetric, "symmetric", false, "preserve reflection symmetry while permuting")
	cmd.Flags().Int64Var(&o.seed, "seed", time.Now().UnixNano(), "RNG seed for the greedy 2-opt search, logged at startup for reproducibility")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	logger.Infof("optimize-window starting with seed=%d", o.seed)

	nets, err := container.ReadFile(o.input, container.Format(o.format), o.n, 1)
	if err != nil {
		return err
	}
	logger.Infof("read %d networks from %s", len(nets), o.input)

	perms := make([][]int, len(nets))
	for i, net := range nets {
		result := windowopt.Optimize(net.Outputs(), net.N, o.symmetric, o.seed+int64(i))
		cleared := network.New(net.N)
		for range net.Layers {
			cleared.AddEmptyLayer()
		}
		cleared.SetOutputs(result.Outputs)
		nets[i] = cleared
		perms[i] = result.Perm
	}

	if err := container.WriteFile(o.outputNets, container.Format(o.format), nets); err != nil {
		return err
	}
	if err := container.WritePermutations(o.outputPerms, perms); err != nil {
		return err
	}
	logger.Infof("wrote %d permuted networks and their permutations", len(nets))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
