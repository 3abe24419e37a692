package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/billy"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/minio"
	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport/webdav"
)

// Target is a transport together with the base URL sessions use on it.
type Target struct {
	Transport transport.Transport
	BaseURL   string
}

// FromURL derives an ad-hoc endpoint from a URL given on the command line.
// S3 endpoints need a bucket and are only available from the config file.
func FromURL(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid url %q: %w", raw, err)
	}

	var e Endpoint
	switch u.Scheme {
	case "http", "https", "dav", "davs":
		e = Endpoint{Type: TypeWebDAV, URL: raw}
	case "mem":
		e = Endpoint{Type: TypeMem, URL: raw}
	case "file":
		e = Endpoint{Type: TypeFile, URL: raw}
	default:
		return Endpoint{}, fmt.Errorf("url %q: unsupported scheme %q", raw, u.Scheme)
	}
	return e.withEnv(os.Getenv), nil
}

// Build creates the transport for e. Session paths are the URL paths below
// the returned BaseURL.
func Build(e Endpoint, logger *slog.Logger) (*Target, error) {
	u, err := url.Parse(e.URL)
	if err != nil {
		return nil, fmt.Errorf("endpoint url %q: %w", e.URL, err)
	}

	timeout, err := e.HTTPTimeout()
	if err != nil {
		return nil, err
	}

	switch e.Type {
	case TypeWebDAV:
		origin := url.URL{Scheme: u.Scheme, Host: u.Host}
		if u.User != nil && e.Username == "" {
			e.Username = u.User.Username()
			e.Password, _ = u.User.Password()
		}
		opts := []webdav.Option{
			webdav.WithHTTPTimeout(timeout),
			webdav.WithLogger(logger),
		}
		if e.Username != "" || e.Password != "" {
			opts = append(opts, webdav.WithCredentials(e.Username, e.Password))
		}
		if e.ReadConcurrency > 0 {
			opts = append(opts, webdav.WithReadConcurrency(e.ReadConcurrency))
		}
		if e.MaxStagedSize > 0 {
			opts = append(opts, webdav.WithMaxStagedSize(e.MaxStagedSize))
		}
		for k, v := range e.Headers {
			opts = append(opts, webdav.WithHeader(k, v))
		}

		c, err := webdav.New(origin.String(), opts...)
		if err != nil {
			return nil, err
		}
		u.User = nil
		return &Target{Transport: c, BaseURL: u.String()}, nil

	case TypeS3:
		opts := []minio.Option{
			minio.WithCredentials(e.Username, e.Password, ""),
			minio.WithRegion(e.Region),
			minio.WithPrefix(e.Prefix),
			minio.WithLogger(logger),
		}
		if e.ReadConcurrency > 0 {
			opts = append(opts, minio.WithReadConcurrency(e.ReadConcurrency))
		}
		if e.MaxStagedSize > 0 {
			opts = append(opts, minio.WithMaxStagedSize(e.MaxStagedSize))
		}

		s, err := minio.New(e.URL, e.Bucket, opts...)
		if err != nil {
			return nil, err
		}
		return &Target{Transport: s, BaseURL: "/"}, nil

	case TypeMem:
		return &Target{Transport: billy.NewInMemoryFS(), BaseURL: "/"}, nil

	case TypeFile:
		if u.Path == "" {
			return nil, fmt.Errorf("endpoint url %q: missing path", e.URL)
		}
		return &Target{Transport: billy.NewOSFS(u.Path), BaseURL: "/"}, nil
	}

	return nil, fmt.Errorf("endpoint url %q: unsupported type %q", e.URL, e.Type)
}
