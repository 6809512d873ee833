// Package logging configures the process-wide diagnostic logger. Matched
// paths never go through it — stdout carries only data; the logger carries
// traversal warnings, the interrupt notice and fatal failures. Per-entry
// evaluation errors are written to stderr by the pipeline's consumer, not
// through the logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// CreateLogEntry builds the logger the rest of the program threads around as
// a *logrus.Entry. Output defaults to stderr when writer is nil.
func CreateLogEntry(writer io.Writer, level logrus.Level) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(level)

	if writer != nil {
		logger.SetOutput(writer)
	}

	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})

	return logrus.NewEntry(logger)
}
