package app

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Out receives command output; logs go to Logger
	Out    io.Writer
	Logger *logrus.Logger
}

// NewContext creates a new application context
func NewContext() *Context {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	return &Context{
		Context:      context.Background(),
		OutputFormat: "table",
		Out:          os.Stdout,
		Logger:       logger,
	}
}

// ApplyVerbosity sets the log level from the verbose/quiet flags, falling back
// to level (e.g. from configuration)
func (c *Context) ApplyVerbosity(level string) error {
	switch {
	case c.Quiet:
		c.Logger.SetLevel(logrus.ErrorLevel)
	case c.Verbose:
		c.Logger.SetLevel(logrus.DebugLevel)
	default:
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return NewError(ErrCodeInvalidInput, "invalid log level", err)
		}
		c.Logger.SetLevel(lvl)
	}
	return nil
}

// Log outputs a message based on verbosity settings
func (c *Context) Log(message string) {
	if !c.Quiet && c.Verbose {
		c.Logger.Info(message)
	}
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string) {
	if !c.Quiet {
		c.Logger.Error(message)
	}
}
