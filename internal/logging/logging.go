// Package logging builds the *logrus.Logger shared by every cmd/ tool:
// leveled output to stderr and, optionally, a mirrored file under a
// log directory (spec.md §4.12/SPEC_FULL.md §4.12).
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	Debug  bool
	LogDir string
}

// New builds a logger writing to stderr, and, if opts.LogDir is set, also
// to a timestamped file inside it.
func New(name string, opts Options) (*logrus.Logger, error) {
	logger := logrus.New()
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if opts.LogDir == "" {
		return logger, nil
	}
	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "logging: creating log directory")
	}
	path := filepath.Join(opts.LogDir, fmt.Sprintf("%s-%s.log", name, time.Now().Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "logging: opening log file")
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	logger.Infof("log level %s, also logging to %s", logger.Level, path)
	return logger, nil
}
