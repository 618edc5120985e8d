package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

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

	perm     string
	permFile string

	debug  bool
	logDir string
}

func newRootCmd() *cobra.Command {
	o := options{}

	cmd := &cobra.Command{
		Use:          "permute",
		Short:        "Applies a wire permutation to every network in a collection",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if o.input == "" || o.output == "" {
				return fmt.Errorf("--input and --output are required")
			}
			if o.format == string(container.FormatBracket) && o.n <= 0 {
				return fmt.Errorf("--n is required for bracket input")
			}
			if o.perm == "" && o.permFile == "" {
				return fmt.Errorf("one of --perm or --perm-file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("permute", logging.Options{Debug: o.debug, LogDir: o.logDir})
			if err != nil {
				return err
			}
			return o.run(logger)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "path to the input network collection")
	cmd.Flags().StringVar(&o.output, "output", "", "path to write the permuted collection to")
	cmd.Flags().StringVar(&o.format, "format", string(container.FormatBinary), "container format: binary or bracket")
	cmd.Flags().IntVar(&o.n, "n", 0, "network width, required for bracket input")
	cmd.Flags().StringVar(&o.perm, "perm", "", "space-separated permutation applied to every network")
	cmd.Flags().StringVar(&o.permFile, "perm-file", "", "permutation file with one permutation per network, applied positionally")
	cmd.Flags().BoolVar(&o.debug, "debug", false, "use debug log level")
	cmd.Flags().StringVar(&o.logDir, "log-dir", "", "optional directory to mirror logs into")

	return cmd
}

func parsePerm(s string) ([]int, error) {
	fields := strings.Fields(s)
	perm := make([]int, len(fields))
	for i, tok := range fields {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("malformed permutation entry %q", tok)
		}
		perm[i] = v
	}
	return perm, nil
}

func (o *options) run(logger *logrus.Logger) error {
	nets, err := container.ReadFile(o.input, container.Format(o.format), o.n, 1)
	if err != nil {
		return err
	}
	logger.Infof("read %d networks from %s", len(nets), o.input)

	var perms [][]int
	if o.permFile != "" {
		perms, err = container.ReadPermutations(o.permFile)
		if err != nil {
			return err
		}
		if len(perms) != len(nets) {
			return fmt.Errorf("--perm-file has %d permutations, but %d networks were read", len(perms), len(nets))
		}
	} else {
		perm, err := parsePerm(o.perm)
		if err != nil {
			return err
		}
		perms = make([][]int, len(nets))
		for i := range perms {
			perms[i] = perm
		}
	}

	out := make([]*network.Network, len(nets))
	for i, net := range nets {
		out[i] = transform.Permute(net, perms[i])
	}

	return container.WriteFile(o.output, container.Format(o.format), out)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
