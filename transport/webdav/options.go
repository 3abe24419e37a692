package webdav

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// clientOptions holds configuration options for the WebDAV transport.
type clientOptions struct {
	username        string
	password        string
	httpTimeout     time.Duration
	headers         map[string]string
	roundTripper    http.RoundTripper
	readConcurrency int
	maxStagedSize   int64
	logger          *slog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithCredentials sets HTTP basic or digest credentials.
func WithCredentials(username, password string) Option {
	return func(opts *clientOptions) {
		opts.username = username
		opts.password = password
	}
}

// WithHTTPTimeout sets the timeout of the underlying HTTP client. It bounds
// every request independently of the per-call deadlines set by davfs.
func WithHTTPTimeout(d time.Duration) Option {
	return func(opts *clientOptions) {
		opts.httpTimeout = d
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(opts *clientOptions) {
		if opts.headers == nil {
			opts.headers = make(map[string]string)
		}
		opts.headers[key] = value
	}
}

// WithHTTPTransport sets the round tripper used for requests, e.g. to supply
// TLS configuration.
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(opts *clientOptions) {
		opts.roundTripper = rt
	}
}

// WithReadConcurrency bounds the parallel ranged GETs issued by a vectored
// read. Values below 1 select the default.
func WithReadConcurrency(n int) Option {
	return func(opts *clientOptions) {
		opts.readConcurrency = n
	}
}

// WithMaxStagedSize bounds the content a handle stages in memory before
// upload. Writes ending past it fail. Values below 1 select the default.
func WithMaxStagedSize(n int64) Option {
	return func(opts *clientOptions) {
		opts.maxStagedSize = n
	}
}

// WithLogger configures the transport with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// defaultOptions returns the default configuration options.
func defaultOptions() *clientOptions {
	return &clientOptions{
		readConcurrency: transport.DefaultReadConcurrency,
	}
}

// applyOptions applies the given options to the client options.
func applyOptions(opts *clientOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
