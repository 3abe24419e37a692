package davfs

import (
	"log/slog"
	"maps"
)

// sessionOptions holds configuration shared by File and FileSystem.
type sessionOptions struct {
	logger     *slog.Logger
	loggerSet  bool
	properties map[string]string
}

// Option is a functional option for configuring a File or FileSystem.
type Option func(*sessionOptions)

// WithLogger configures the session with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *sessionOptions) {
		opts.logger = logger
		opts.loggerSet = true
	}
}

// WithProperties seeds the session's property bag.
func WithProperties(props map[string]string) Option {
	return func(opts *sessionOptions) {
		if opts.properties == nil {
			opts.properties = make(map[string]string, len(props))
		}
		maps.Copy(opts.properties, props)
	}
}

func applyOptions(options []Option) *sessionOptions {
	opts := &sessionOptions{}
	for _, option := range options {
		option(opts)
	}

	switch {
	case !opts.loggerSet:
		opts.logger = defaultLogger()
	case opts.logger == nil:
		opts.logger = slog.New(slog.DiscardHandler)
	}
	return opts
}
