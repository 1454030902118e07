// Package logger holds the process-wide structured logger.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before Init is called so packages and tests never see a
// nil logger.
var Log = logrus.New()

// Init configures Log for JSON output on stdout at the given level.
// Unknown levels fall back to info.
func Init(level string) {
	Log.Out = os.Stdout
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}
