package minio

import (
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// storeOptions holds configuration options for the S3 transport.
type storeOptions struct {
	accessKey       string
	secretKey       string
	sessionToken    string
	region          string
	secure          bool
	prefix          string
	contentType     string
	readConcurrency int
	maxStagedSize   int64
	logger          *slog.Logger
}

// Option is a functional option for configuring the Store.
type Option func(*storeOptions)

// WithCredentials sets static access credentials.
func WithCredentials(accessKey, secretKey, sessionToken string) Option {
	return func(opts *storeOptions) {
		opts.accessKey = accessKey
		opts.secretKey = secretKey
		opts.sessionToken = sessionToken
	}
}

// WithRegion sets the bucket region.
func WithRegion(region string) Option {
	return func(opts *storeOptions) {
		opts.region = region
	}
}

// WithSecure selects TLS for endpoints given without a scheme.
func WithSecure(secure bool) Option {
	return func(opts *storeOptions) {
		opts.secure = secure
	}
}

// WithPrefix roots the namespace at a key prefix inside the bucket.
func WithPrefix(prefix string) Option {
	return func(opts *storeOptions) {
		opts.prefix = prefix
	}
}

// WithContentType fixes the Content-Type of uploaded objects instead of
// detecting it from their content.
func WithContentType(contentType string) Option {
	return func(opts *storeOptions) {
		opts.contentType = contentType
	}
}

// WithReadConcurrency bounds the parallel ranged GETs issued by a vectored
// read. Values below 1 select the default.
func WithReadConcurrency(n int) Option {
	return func(opts *storeOptions) {
		opts.readConcurrency = n
	}
}

// WithMaxStagedSize bounds the content a handle stages in memory before
// upload. Writes ending past it fail. Values below 1 select the default.
func WithMaxStagedSize(n int64) Option {
	return func(opts *storeOptions) {
		opts.maxStagedSize = n
	}
}

// WithLogger configures the transport with a custom logger.
// If logger is nil, logging will be disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *storeOptions) {
		opts.logger = logger
	}
}

func defaultOptions() *storeOptions {
	return &storeOptions{
		secure:          true,
		readConcurrency: transport.DefaultReadConcurrency,
	}
}

func applyOptions(opts *storeOptions, options []Option) {
	for _, option := range options {
		option(opts)
	}
}
