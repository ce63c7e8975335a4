package cli

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newLogger builds a logrus.Logger writing to w, choosing its formatter
// from format the same way runsc's newEmitter chooses between
// log.GoogleEmitter and log.JSONEmitter, and its level from debug.
func newLogger(format string, debug bool, w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if debug {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	return l
}
