package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/kataras/golog"
)

const timeFormat = "2006-01-02 15:04:05"

// Options describe how to configure a logger instance.
type Options struct {
	Debug bool
	// File, when set, receives a copy of every line. It is appended to.
	File   string
	Output io.Writer
}

// New builds a golog logger. The returned close function releases the log
// file, if any.
func New(opts Options) (*golog.Logger, func() error, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := golog.New()
	logger.SetOutput(out)
	logger.SetTimeFormat(timeFormat)
	if opts.Debug {
		logger.SetLevel("debug")
	} else {
		logger.SetLevel("info")
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.AddOutput(f)
		closeFn = f.Close
	}

	return logger, closeFn, nil
}
