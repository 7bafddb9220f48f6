package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

// Logger returns the process-wide logger.
func Logger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// SetLevel parses level and applies it to the shared logger. An unknown
// level leaves the logger unchanged and is returned as an error.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logg.SetLevel(lvl)
	return nil
}

func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}

// LogWarnings reports engine warnings, one entry each.
func LogWarnings(logger *logrus.Logger, moduleName string, funcName string, warnings []string) {
	for _, w := range warnings {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
		}).Warn(w)
	}
}
