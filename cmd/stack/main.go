package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/logging"
	"github.com/wcgbg/sortnetsearch/internal/network"
	"github.com/wcgbg/sortnetsearch/internal/transform"
)

type options struct {
	inputA, inputB string
	formatA, formatB string
	nA, nB int

	symmetric bool

	output    string
	outFormat string

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "stack",
		Short:        "Combines two networks into one on their disjoint union of wires",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.inputA == "" || o.inputB == "" || o.output == "" {
				return fmt.Errorf("--input-a, --input-b and --output are required")
			}
			if o.formatA == string(container.FormatBracket) && o.nA <= 0 {
				return fmt.Errorf("--n-a is required when --format-a is bracket")
			}
			if o.formatB == string(container.FormatBracket) && o.nB <= 0 {
				return fmt.Errorf("--n-b is required when --format-b is bracket")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("stack", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.inputA, "input-a", "", "path to network A's collection (first network is used)")
	cmd.Flags().StringVar(&o.inputB, "input-b", "", "path to network B's collection (first network is used)")
	cmd.Flags().StringVar(&o.formatA, "format-a", string(container.FormatBinary), "container format of --input-a")
	cmd.Flags().StringVar(&o.formatB, "format-b", string(container.FormatBinary), "container format of --input-b")
	cmd.Flags().IntVar(&o.nA, "n-a", 0, "width of network A, required when --format-a is bracket")
	cmd.Flags().IntVar(&o.nB, "n-b", 0, "width of network B, required when --format-b is bracket")
	cmd.Flags().BoolVar(&o.symmetric, "symmetric", false, "produce a reflection-symmetric stack (B inserted in A's middle)")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the stacked network to")
	cmd.Flags().StringVar(&o.outFormat, "out-format", string(container.FormatBracket), "output container format: binary or bracket")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	asNets, err := container.ReadFile(o.inputA, container.Format(o.formatA), o.nA, 1)
	if err != nil {
		return err
	}
	if len(asNets) == 0 {
		return fmt.Errorf("no networks found in %s", o.inputA)
	}
	bsNets, err := container.ReadFile(o.inputB, container.Format(o.formatB), o.nB, 1)
	if err != nil {
		return err
	}
	if len(bsNets) == 0 {
		return fmt.Errorf("no networks found in %s", o.inputB)
	}

	stacked := transform.Stack(asNets[0], bsNets[0], o.symmetric)
	logger.Infof("stacked n=%d+%d -> n=%d, size=%d", asNets[0].N, bsNets[0].N, stacked.N, stacked.Size())

	return container.WriteFile(o.output, container.Format(o.outFormat), []*network.Network{stacked})
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
