package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/extend"
	"github.com/wcgbg/sortnetsearch/internal/logging"
	"github.com/wcgbg/sortnetsearch/internal/workerpool"
)

type options struct {
	input   string
	output  string
	format  string
	n       int
	workers int

	symmetric     bool
	oneComparator bool
	addLayer      bool

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "extend-network",
		Short:        "Enumerates every way to fill a network's last layer",
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
			logger, err := logging.New("extend-network", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the input network collection")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the extended collection to")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket input")
	cmd.Flags().IntVar(&o.workers, "workers", workerpool.Workers(0), "number of worker goroutines")
	cmd.Flags().BoolVar(&o.symmetric, "symmetric", false, "restrict extensions to reflection-symmetric matchings")
	cmd.Flags().BoolVar(&o.oneComparator, "one-comparator", false, "restrict the last layer to at most one comparator")
	cmd.Flags().BoolVar(&o.addLayer, "add-layer", false, "append a fresh empty layer before extending, instead of assuming one is already present")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	nets, err := container.ReadFile(o.input, container.Format(o.format), o.n, o.workers)
	if err != nil {
		return err
	}
	logger.Infof("read %d networks from %s", len(nets), o.input)

	if o.addLayer {
		for _, net := range nets {
			net.AddEmptyLayer()
		}
	}

	extended := extend.All(nets, extend.Options{
		Symmetric:     o.symmetric,
		OneComparator: o.oneComparator,
		Workers:       o.workers,
	})
	logger.Infof("produced %d extensions", len(extended))

	return container.WriteFile(o.output, container.Format(o.format), extended)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
