package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/logging"
	"github.com/wcgbg/sortnetsearch/internal/workerpool"
)

type options struct {
	input     string
	output    string
	fromFmt   string
	toFmt     string
	n         int
	workers   int

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "convert",
		Short:        "Converts a network collection between container formats",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" || o.output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			if o.fromFmt == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required when --from is bracket")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("convert", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the input network collection")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the converted collection to")
	cmd.Flags().StringVar(&o.fromFmt, "from", string(container.FormatBinary), "input container format: binary or bracket")
	cmd.Flags().StringVar(&o.toFmt, "to", string(container.FormatBracket), "output container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required when --from is bracket")
	cmd.Flags().IntVar(&o.workers, "workers", workerpool.Workers(0), "number of worker goroutines for output recomputation")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func (o *options) run(logger *logrus.Logger) error {
	nets, err := container.ReadFile(o.input, container.Format(o.fromFmt), o.n, o.workers)
	if err != nil {
		return err
	}
	logger.Infof("read %d networks from %s (%s)", len(nets), o.input, o.fromFmt)

	if err := container.WriteFile(o.output, container.Format(o.toFmt), nets); err != nil {
		return err
	}
	logger.Infof("wrote %d networks to %s (%s)", len(nets), o.output, o.toFmt)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
