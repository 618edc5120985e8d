package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/cleanup"
	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/logging"
	"github.com/wcgbg/sortnetsearch/internal/workerpool"
)

type options struct {
	input   string
	output  string
	format  string
	n       int
	workers int

	symmetric bool
	keepBest  int
	seed      int64

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "clean-up",
		Short:        "Prunes a network collection down to its best, mutually non-redundant survivors",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" || o.output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket input")
			}
			if o.keepBest <= 0 {
				return fmt.Errorf("--keep-best must be positive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("clean-up", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the input network collection")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the cleaned collection to")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket input")
	cmd.Flags().IntVar(&o.workers, "workers", workerpool.Workers(0), "number of worker goroutines")
	cmd.Flags().BoolVar(&o.symmetric, "symmetric", false, "treat networks as reflection-symmetric for redundancy checks")
	cmd.Flags().IntVar(&o.keepBest, "keep-best", 0, "number of survivors to keep")
	cmd.Flags().Int64Var(&o.seed, "seed", time.Now().UnixNano(), "RNG seed for the redundancy pass's tie-breaking")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	nets, err := container.ReadFile(o.input, container.Format(o.format), o.n, o.workers)
	if err != nil {
		return err
	}
	logger.Infof("read %d networks from %s, seed=%d", len(nets), o.input, o.seed)

	n := o.n
	if len(nets) > 0 {
		n = nets[0].N
	}

	survivors := cleanup.Run(nets, cleanup.Options{
		N:         n,
		Symmetric: o.symmetric,
		KeepBest:  o.keepBest,
		Seed:      o.seed,
		Workers:   o.workers,
	})
	logger.Infof("kept %d of %d networks", len(survivors), len(nets))

	return container.WriteFile(o.output, container.Format(o.format), survivors)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
