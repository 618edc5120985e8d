package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wcgbg/sortnetsearch/internal/container"
	"github.com/wcgbg/sortnetsearch/internal/logging"
)

type options struct {
	input  string
	format string
	n      int

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "network-info",
		Short:        "Prints a one-line summary of each network in a collection",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" {
				return fmt.Errorf("--input is required")
			}
			if o.format != string(container.FormatBinary) && o.format != string(container.FormatBracket) {
				return fmt.Errorf("--format must be %q or %q", container.FormatBinary, container.FormatBracket)
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket input")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("network-info", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the network collection to inspect")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "input container format: binary or bracket")
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
	logger.Infof("loaded %d networks from %s", len(nets), o.input)

	for i, net := range nets {
		fmt.Printf("%d: n=%d depth=%d size=%d sorting=%t symmetric=%t\n",
			i, net.N, net.Depth(), net.Size(), net.IsSortingNetwork(), net.IsSymmetric())
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
