package webdav

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/studio-b12/gowebdav"

	"github.com/input-output-hk/catalyst-forge-libs/davfs/transport"
)

// statID is the id field of stat records produced by this transport.
const statID = "dav"

// Client implements transport.Transport over a WebDAV endpoint.
type Client struct {
	dav    *gowebdav.Client
	opts   *clientOptions
	logger *slog.Logger
}

// New creates a transport for the WebDAV collection at endpoint. The dav and
// davs schemes are accepted as aliases of http and https.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("webdav: parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "http", "https":
	case "dav":
		u.Scheme = "http"
	case "davs":
		u.Scheme = "https"
	default:
		return nil, fmt.Errorf("webdav: endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("webdav: endpoint %q: missing host", endpoint)
	}

	options := defaultOptions()
	applyOptions(options, opts)

	dav := gowebdav.NewClient(u.String(), options.username, options.password)
	if options.httpTimeout > 0 {
		dav.SetTimeout(options.httpTimeout)
	}
	if options.roundTripper != nil {
		dav.SetTransport(options.roundTripper)
	}
	for k, v := range options.headers {
		dav.SetHeader(k, v)
	}

	return NewWithClient(dav, opts...), nil
}

// NewWithClient creates a transport around an existing gowebdav client.
// Options that configure the HTTP client itself are ignored.
func NewWithClient(dav *gowebdav.Client, opts ...Option) *Client {
	options := defaultOptions()
	applyOptions(options, opts)

	logger := options.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		dav:    dav,
		opts:   options,
		logger: logger,
	}
}

// do runs fn on its own goroutine and returns when it finishes or when ctx
// is done, whichever comes first.
func (c *Client) do(ctx context.Context, op, path string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return transport.Wrap(op, path, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		if err != nil {
			c.logger.Debug("webdav request failed", "op", op, "path", path, "error", err)
		}
		return translateError(op, path, err)
	case <-ctx.Done():
		c.logger.Debug("webdav request abandoned", "op", op, "path", path, "error", ctx.Err())
		return transport.Wrap(op, path, ctx.Err())
	}
}

func (c *Client) stat(ctx context.Context, op, path string) (os.FileInfo, error) {
	var fi os.FileInfo
	err := c.do(ctx, op, path, func() error {
		var err error
		fi, err = c.dav.Stat(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fi, nil
}

// statDir returns CodeNotFound or CodeNotDir unless path is a collection.
func (c *Client) statDir(ctx context.Context, op, path string) error {
	fi, err := c.stat(ctx, op, path)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return transport.NewError(op, path, transport.CodeNotDir)
	}
	return nil
}

func (c *Client) put(ctx context.Context, path string, data []byte) error {
	return c.do(ctx, "put", path, func() error {
		return c.dav.Write(path, data, 0o644)
	})
}

type rangeResult struct {
	rc  io.ReadCloser
	err error
}

// readRange opens a ranged GET. A body that arrives after ctx is done is
// closed in the background.
func (c *Client) readRange(ctx context.Context, path string, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, transport.Wrap("read", path, err)
	}

	ch := make(chan rangeResult, 1)
	go func() {
		var r rangeResult
		if off == 0 && length < 0 {
			r.rc, r.err = c.dav.ReadStream(path)
		} else {
			r.rc, r.err = c.dav.ReadStreamRange(path, off, length)
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, translateError("read", path, r.err)
		}
		return r.rc, nil
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.rc != nil {
				_ = r.rc.Close()
			}
		}()
		return nil, transport.Wrap("read", path, ctx.Err())
	}
}

// Open implements transport.Transport. Creating or truncating a file PUTs an
// empty object immediately so the file is visible while the handle is open.
func (c *Client) Open(ctx context.Context, path string, flags int) (transport.Handle, error) {
	p := transport.CleanPath(path)

	fi, err := c.stat(ctx, "open", p)
	exists := err == nil
	if err != nil && !transport.IsNotExist(err) {
		return nil, err
	}

	switch {
	case exists && flags&os.O_CREATE != 0 && flags&os.O_EXCL != 0:
		return nil, transport.NewError("open", p, transport.CodeExists)
	case exists && fi.IsDir():
		return nil, transport.NewError("open", p, transport.CodeIsDir)
	case !exists && flags&os.O_CREATE == 0:
		return nil, transport.NewError("open", p, transport.CodeNotFound)
	case !exists:
		if err := c.statDir(ctx, "open", transport.ParentPath(p)); err != nil {
			return nil, err
		}
	}

	empty := !exists || flags&os.O_TRUNC != 0
	var size int64
	if exists {
		size = fi.Size()
	}
	if empty && (!exists || size > 0) {
		if err := c.put(ctx, p, nil); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("webdav open", "path", p, "flags", flags, "size", size, "created", !exists)

	return transport.NewBufferedHandle(transport.BufferedConfig{
		Path:  p,
		Flags: flags,
		Size:  size,
		Empty: empty,
		ReadRange: func(ctx context.Context, off, length int64) (io.ReadCloser, error) {
			return c.readRange(ctx, p, off, length)
		},
		Upload: func(ctx context.Context, data []byte) error {
			return c.put(ctx, p, data)
		},
		ReadConcurrency: c.opts.readConcurrency,
		MaxStagedSize:   c.opts.maxStagedSize,
	}), nil
}

// Stat implements transport.Transport.
func (c *Client) Stat(ctx context.Context, path string) (string, error) {
	p := transport.CleanPath(path)

	fi, err := c.stat(ctx, "stat", p)
	if err != nil {
		return "", err
	}
	return transport.FormatFileInfo(statID, fi), nil
}

// Mkdir implements transport.Transport with a single MKCOL.
func (c *Client) Mkdir(ctx context.Context, path string, mode fs.FileMode) error {
	p := transport.CleanPath(path)

	if _, err := c.stat(ctx, "mkdir", p); err == nil {
		return transport.NewError("mkdir", p, transport.CodeExists)
	} else if !transport.IsNotExist(err) {
		return err
	}
	if err := c.statDir(ctx, "mkdir", transport.ParentPath(p)); err != nil {
		return err
	}

	return c.do(ctx, "mkdir", p, func() error {
		return c.dav.Mkdir(p, mode)
	})
}

// Rmdir implements transport.Transport. WebDAV DELETE on a collection is
// recursive, so emptiness is checked first.
func (c *Client) Rmdir(ctx context.Context, path string) error {
	p := transport.CleanPath(path)

	if p == "/" {
		return &transport.Error{Op: "rmdir", Path: p, Code: transport.CodePermission, Message: "cannot remove root collection"}
	}
	if err := c.statDir(ctx, "rmdir", p); err != nil {
		return err
	}

	var children []os.FileInfo
	err := c.do(ctx, "rmdir", p, func() error {
		var err error
		children, err = c.dav.ReadDir(p)
		return err
	})
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return transport.NewError("rmdir", p, transport.CodeNotEmpty)
	}

	return c.do(ctx, "rmdir", p, func() error {
		return c.dav.Remove(p)
	})
}

// Rename implements transport.Transport with a MOVE that overwrites files.
func (c *Client) Rename(ctx context.Context, oldPath, newPath string) error {
	from := transport.CleanPath(oldPath)
	to := transport.CleanPath(newPath)

	src, err := c.stat(ctx, "rename", from)
	if err != nil {
		return err
	}
	if err := c.statDir(ctx, "rename", transport.ParentPath(to)); err != nil {
		return err
	}

	dst, err := c.stat(ctx, "rename", to)
	switch {
	case err == nil && dst.IsDir() && !src.IsDir():
		return transport.NewError("rename", to, transport.CodeIsDir)
	case err == nil && !dst.IsDir() && src.IsDir():
		return transport.NewError("rename", to, transport.CodeNotDir)
	case err == nil && dst.IsDir():
		return transport.NewError("rename", to, transport.CodeExists)
	case err != nil && !transport.IsNotExist(err):
		return err
	}

	return c.do(ctx, "rename", from, func() error {
		return c.dav.Rename(from, to, true)
	})
}

// Unlink implements transport.Transport.
func (c *Client) Unlink(ctx context.Context, path string) error {
	p := transport.CleanPath(path)

	fi, err := c.stat(ctx, "unlink", p)
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return transport.NewError("unlink", p, transport.CodeIsDir)
	}

	return c.do(ctx, "unlink", p, func() error {
		return c.dav.Remove(p)
	})
}

// ReadDir implements transport.Transport with a depth 1 PROPFIND.
func (c *Client) ReadDir(ctx context.Context, path string) ([]transport.DirEntry, error) {
	p := transport.CleanPath(path)

	if err := c.statDir(ctx, "readdir", p); err != nil {
		return nil, err
	}

	var list []os.FileInfo
	err := c.do(ctx, "readdir", p, func() error {
		var err error
		list, err = c.dav.ReadDir(p)
		return err
	})
	if err != nil {
		return nil, err
	}

	entries := make([]transport.DirEntry, 0, len(list))
	for _, fi := range list {
		name := strings.Trim(fi.Name(), "/")
		if name == "" {
			continue
		}
		entries = append(entries, transport.DirEntry{
			Name: name,
			Stat: transport.FormatFileInfo(statID, fi),
		})
	}
	return entries, nil
}

// Ping checks that the endpoint answers a PROPFIND on its root collection.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "connect", "/", func() error {
		return c.dav.Connect()
	})
}

// Compile-time interface checks.
var _ transport.Transport = (*Client)(nil)
