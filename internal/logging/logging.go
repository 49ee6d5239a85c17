package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Tests and CLIs that never call Init still get a usable logger.
func init() {
	Init("info", "")
}

// Init rebuilds the global logger. format is "json" or "text"; an empty
// format picks text output.
func Init(level, format string) {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log = logger.WithFields(logrus.Fields{"service": "yatube"})
}

// Logger exposes the underlying logger, e.g. to redirect output in tests.
func Logger() *logrus.Logger {
	return logger
}
