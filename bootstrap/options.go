package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/lingolink/logger"
)

// Option adjusts NewApp.
type Option func(*options)

type options struct {
	log        *logger.Logger
	grace      time.Duration
	summaryOut io.Writer
}

// WithLogger uses l instead of initializing the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithGracefulTimeout changes how long Shutdown may take.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *options) { o.grace = d }
}

// WithSummaryOutput sends the startup summary to w instead of stdout.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *options) { o.summaryOut = w }
}
