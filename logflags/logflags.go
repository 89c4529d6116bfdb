// Package logflags hands out per-layer loggers that stay silent unless the
// layer was enabled with Setup.
package logflags

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	injector = false
	cli      = false

	out io.Writer = os.Stderr
)

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New().WithFields(fields)
	logger.Logger.Out = out
	logger.Logger.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	logger.Logger.Level = logrus.DebugLevel
	if !flag {
		logger.Logger.Level = logrus.PanicLevel
	}
	return logger
}

// Injector returns true if the injector package should log.
func Injector() bool {
	return injector
}

// InjectorLogger returns a logger for process lookup and injection steps.
func InjectorLogger() *logrus.Entry {
	return makeLogger(injector, logrus.Fields{"layer": "injector"})
}

// CLI returns true if the command line layer should log.
func CLI() bool {
	return cli
}

// CLILogger returns a logger for the command line layer.
func CLILogger() *logrus.Entry {
	return makeLogger(cli, logrus.Fields{"layer": "cli"})
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup enables the layers named in logstr. With logFlag set and logstr
// empty, only the injector layer is enabled. dest, when not nil, replaces
// stderr as the output of every logger created afterwards.
func Setup(logFlag bool, logstr string, dest io.Writer) error {
	injector, cli = false, false
	if dest != nil {
		out = dest
	}
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "injector"
	}
	var inj, c bool
	for _, layer := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(layer) {
		case "injector":
			inj = true
		case "cli":
			c = true
		default:
			return errors.Errorf("unknown log layer %q", layer)
		}
	}
	injector, cli = inj, c
	return nil
}
