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
	input  string
	output string
	format string
	n      int

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "simplify",
		Short:        "Drops comparators that have no effect on a network's outputs",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" || o.output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket input")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("simplify", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the input network collection")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the simplified collection to")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket input")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	nets, err := container.ReadFile(o.input, container.Format(o.format), o.n, 1)
	if err != nil {
		return err
	}
	logger.Infof("read %d networks from %s", len(nets), o.input)

	simplified := make([]*network.Network, len(nets))
	before, after := 0, 0
	for i, net := range nets {
		before += net.Size()
		simplified[i] = transform.Simplify(net)
		after += simplified[i].Size()
	}
	logger.Infof("total size %d -> %d", before, after)

	return container.WriteFile(o.output, container.Format(o.format), simplified)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
